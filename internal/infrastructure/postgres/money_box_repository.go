package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.MoneyBoxRepository       = (*MoneyBoxRepo)(nil)
	_ repository.PaymentVoucherRepository = (*PaymentVoucherRepo)(nil)
)

// MoneyBoxRepo cajas (money_boxes) y su libro de transacciones (cash_transactions).
type MoneyBoxRepo struct {
	q Querier
}

// NewMoneyBoxRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMoneyBoxRepository(q Querier) *MoneyBoxRepo {
	return &MoneyBoxRepo{q: q}
}

func (r *MoneyBoxRepo) Create(ctx context.Context, b *entity.MoneyBox) error {
	query := `INSERT INTO money_boxes (id, name, balance, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, b.ID, b.Name, b.Balance, b.CreatedAt, b.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert money box: %w", err)
	}
	return nil
}

func (r *MoneyBoxRepo) get(ctx context.Context, query, id string) (*entity.MoneyBox, error) {
	var b entity.MoneyBox
	err := r.q.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Balance, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMoneyBoxNotFound
		}
		return nil, fmt.Errorf("get money box: %w", err)
	}
	return &b, nil
}

func (r *MoneyBoxRepo) GetByID(ctx context.Context, id string) (*entity.MoneyBox, error) {
	return r.get(ctx, `SELECT id, name, balance, created_at, updated_at FROM money_boxes WHERE id = $1`, id)
}

func (r *MoneyBoxRepo) GetForUpdate(ctx context.Context, id string) (*entity.MoneyBox, error) {
	return r.get(ctx, `SELECT id, name, balance, created_at, updated_at FROM money_boxes WHERE id = $1 FOR UPDATE`, id)
}

func (r *MoneyBoxRepo) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE money_boxes SET balance = balance + $2, updated_at = now() WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust money box balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMoneyBoxNotFound
	}
	return nil
}

func (r *MoneyBoxRepo) List(ctx context.Context) ([]*entity.MoneyBox, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, balance, created_at, updated_at FROM money_boxes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list money boxes: %w", err)
	}
	defer rows.Close()
	var list []*entity.MoneyBox
	for rows.Next() {
		var b entity.MoneyBox
		if err := rows.Scan(&b.ID, &b.Name, &b.Balance, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan money box: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func (r *MoneyBoxRepo) CreateTransaction(ctx context.Context, t *entity.CashTransaction) error {
	query := `
		INSERT INTO cash_transactions (id, money_box_id, direction, amount, reference_type, reference_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, t.ID, t.MoneyBoxID, t.Direction, t.Amount,
		nullable(t.ReferenceType), nullable(t.ReferenceID), nullable(t.Notes), nullable(t.CreatedBy), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cash transaction: %w", err)
	}
	return nil
}

// ListTransactions más reciente primero.
func (r *MoneyBoxRepo) ListTransactions(ctx context.Context, moneyBoxID string, limit, offset int) ([]*entity.CashTransaction, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM cash_transactions WHERE money_box_id = $1`, moneyBoxID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cash transactions: %w", err)
	}
	query := `
		SELECT id, money_box_id, direction, amount, reference_type, reference_id, notes, created_by, created_at
		FROM cash_transactions WHERE money_box_id = $1
		ORDER BY created_at DESC, position DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, moneyBoxID, limitArg(limit), offsetArg(offset))
	if err != nil {
		return nil, 0, fmt.Errorf("list cash transactions: %w", err)
	}
	defer rows.Close()
	list, err := scanCashTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *MoneyBoxRepo) ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.CashTransaction, error) {
	query := `
		SELECT id, money_box_id, direction, amount, reference_type, reference_id, notes, created_by, created_at
		FROM cash_transactions WHERE reference_type = $1 AND reference_id = $2
		ORDER BY position`
	rows, err := r.q.Query(ctx, query, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list cash transactions by reference: %w", err)
	}
	defer rows.Close()
	return scanCashTransactions(rows)
}

func scanCashTransactions(rows pgx.Rows) ([]*entity.CashTransaction, error) {
	list := []*entity.CashTransaction{}
	for rows.Next() {
		var t entity.CashTransaction
		var refType, refID, notes, createdBy *string
		if err := rows.Scan(&t.ID, &t.MoneyBoxID, &t.Direction, &t.Amount, &refType, &refID,
			&notes, &createdBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash transaction: %w", err)
		}
		t.ReferenceType, t.ReferenceID = deref(refType), deref(refID)
		t.Notes, t.CreatedBy = deref(notes), deref(createdBy)
		list = append(list, &t)
	}
	return list, rows.Err()
}

// PaymentVoucherRepo comprobantes de pago (solo inserción). bill_id no es FK: el comprobante
// sobrevive a la eliminación de la factura.
type PaymentVoucherRepo struct {
	q Querier
}

// NewPaymentVoucherRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentVoucherRepository(q Querier) *PaymentVoucherRepo {
	return &PaymentVoucherRepo{q: q}
}

const voucherColumns = `id, bill_id, bill_kind, bill_number, amount, payment_method, created_by, created_at`

func scanVoucher(row rowScanner) (*entity.PaymentVoucher, error) {
	var v entity.PaymentVoucher
	var kind string
	var createdBy *string
	if err := row.Scan(&v.ID, &v.BillID, &kind, &v.BillNumber, &v.Amount, &v.PaymentMethod, &createdBy, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.BillKind = entity.BillKind(kind)
	v.CreatedBy = deref(createdBy)
	return &v, nil
}

func (r *PaymentVoucherRepo) Create(ctx context.Context, v *entity.PaymentVoucher) error {
	query := `INSERT INTO payment_vouchers (` + voucherColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, v.ID, v.BillID, string(v.BillKind), v.BillNumber, v.Amount,
		v.PaymentMethod, nullable(v.CreatedBy), v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment voucher: %w", err)
	}
	return nil
}

func (r *PaymentVoucherRepo) GetByID(ctx context.Context, id string) (*entity.PaymentVoucher, error) {
	v, err := scanVoucher(r.q.QueryRow(ctx, `SELECT `+voucherColumns+` FROM payment_vouchers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVoucherNotFound
		}
		return nil, fmt.Errorf("get payment voucher: %w", err)
	}
	return v, nil
}

func (r *PaymentVoucherRepo) ListByBill(ctx context.Context, billID string) ([]*entity.PaymentVoucher, error) {
	rows, err := r.q.Query(ctx, `SELECT `+voucherColumns+` FROM payment_vouchers WHERE bill_id = $1 ORDER BY created_at`, billID)
	if err != nil {
		return nil, fmt.Errorf("list payment vouchers: %w", err)
	}
	defer rows.Close()
	var list []*entity.PaymentVoucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment voucher: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
