package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

const billColumns = `id, kind, number, counterparty_id, original_bill_id, original_kind, stock_id, date, due_date,
	discount, discount_type, tax_rate, subtotal, discount_amount, tax_amount, net_amount, paid_amount,
	remaining_amount, payment_method, payment_status, status, money_box_id, notes, created_by, created_at, updated_at`

const billItemColumns = `id, bill_id, product_id, stock_id, quantity, price, discount_percent, tax_percent, total, original_item_id`

// BillRepo facturas de venta, compra y devolución (tablas bills y bill_items).
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

func scanBill(row rowScanner) (*entity.Bill, error) {
	var b entity.Bill
	var kind, originalKind string
	var notes, createdBy *string
	err := row.Scan(&b.ID, &kind, &b.Number, &b.CounterpartyID, &b.OriginalBillID, &originalKind, &b.StockID,
		&b.Date, &b.DueDate, &b.Discount, &b.DiscountType, &b.TaxRate, &b.Subtotal, &b.DiscountAmount,
		&b.TaxAmount, &b.NetAmount, &b.PaidAmount, &b.RemainingAmount, &b.PaymentMethod, &b.PaymentStatus,
		&b.Status, &b.MoneyBoxID, &notes, &createdBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Kind = entity.BillKind(kind)
	b.OriginalKind = entity.BillKind(originalKind)
	b.Notes = deref(notes)
	b.CreatedBy = deref(createdBy)
	return &b, nil
}

func (r *BillRepo) Create(ctx context.Context, b *entity.Bill) error {
	query := `INSERT INTO bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(ctx, query,
		b.ID, string(b.Kind), b.Number, b.CounterpartyID, b.OriginalBillID, string(b.OriginalKind), b.StockID,
		b.Date, b.DueDate, b.Discount, b.DiscountType, b.TaxRate, b.Subtotal, b.DiscountAmount,
		b.TaxAmount, b.NetAmount, b.PaidAmount, b.RemainingAmount, b.PaymentMethod, b.PaymentStatus,
		b.Status, b.MoneyBoxID, nullable(b.Notes), nullable(b.CreatedBy), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

func (r *BillRepo) CreateItem(ctx context.Context, it *entity.BillItem) error {
	query := `INSERT INTO bill_items (` + billItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, it.ID, it.BillID, it.ProductID, it.StockID, it.Quantity,
		it.Price, it.DiscountPercent, it.TaxPercent, it.Total, it.OriginalItemID)
	if err != nil {
		return fmt.Errorf("insert bill item: %w", err)
	}
	return nil
}

func (r *BillRepo) items(ctx context.Context, billID string) ([]*entity.BillItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+billItemColumns+` FROM bill_items WHERE bill_id = $1 ORDER BY position`, billID)
	if err != nil {
		return nil, fmt.Errorf("list bill items: %w", err)
	}
	defer rows.Close()
	var out []*entity.BillItem
	for rows.Next() {
		var it entity.BillItem
		if err := rows.Scan(&it.ID, &it.BillID, &it.ProductID, &it.StockID, &it.Quantity, &it.Price,
			&it.DiscountPercent, &it.TaxPercent, &it.Total, &it.OriginalItemID); err != nil {
			return nil, fmt.Errorf("scan bill item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *BillRepo) getOne(ctx context.Context, query, id string) (*entity.Bill, error) {
	b, err := scanBill(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	if b.Items, err = r.items(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BillRepo) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	return r.getOne(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
}

func (r *BillRepo) GetForUpdate(ctx context.Context, id string) (*entity.Bill, error) {
	return r.getOne(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1 FOR UPDATE`, id)
}

func (r *BillRepo) Update(ctx context.Context, b *entity.Bill) error {
	query := `
		UPDATE bills SET paid_amount = $2, remaining_amount = $3, payment_status = $4, status = $5,
			payment_method = $6, money_box_id = $7, notes = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, b.ID, b.PaidAmount, b.RemainingAmount, b.PaymentStatus, b.Status,
		b.PaymentMethod, b.MoneyBoxID, nullable(b.Notes), b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBillNotFound
	}
	return nil
}

// Delete borra la cabecera; las líneas caen por ON DELETE CASCADE.
func (r *BillRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBillNotFound
	}
	return nil
}

func (r *BillRepo) collect(ctx context.Context, rows pgx.Rows) ([]*entity.Bill, error) {
	list := []*entity.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		list = append(list, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Las líneas se leen con las filas ya cerradas: la conexión de una tx no admite consultas anidadas.
	for _, b := range list {
		var err error
		if b.Items, err = r.items(ctx, b.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// List más reciente primero (fecha y luego número).
func (r *BillRepo) List(ctx context.Context, f repository.BillFilter) ([]*entity.Bill, int, error) {
	where := ` WHERE TRUE`
	var args []any
	pos := 1
	if f.Kind != "" {
		where += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, string(f.Kind))
		pos++
	}
	if f.CounterpartyID != "" {
		where += fmt.Sprintf(" AND counterparty_id = $%d", pos)
		args = append(args, f.CounterpartyID)
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM bills`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bills: %w", err)
	}

	query := `SELECT ` + billColumns + ` FROM bills` + where +
		fmt.Sprintf(" ORDER BY date DESC, number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limitArg(f.Limit), offsetArg(f.Offset))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bills: %w", err)
	}
	list, err := r.collect(ctx, rows)
	return list, total, err
}

func (r *BillRepo) ListReturns(ctx context.Context, originalBillID string) ([]*entity.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills
		WHERE kind = 'return' AND original_bill_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, originalBillID)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	return r.collect(ctx, rows)
}

func (r *BillRepo) ReturnedQuantities(ctx context.Context, originalBillID string) (map[string]int64, error) {
	query := `
		SELECT i.original_item_id, SUM(i.quantity)::BIGINT
		FROM bill_items i
		JOIN bills b ON b.id = i.bill_id
		WHERE b.kind = 'return' AND b.original_bill_id = $1 AND i.original_item_id IS NOT NULL
		GROUP BY i.original_item_id`
	rows, err := r.q.Query(ctx, query, originalBillID)
	if err != nil {
		return nil, fmt.Errorf("returned quantities: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var itemID string
		var qty int64
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, fmt.Errorf("scan returned quantity: %w", err)
		}
		out[itemID] = qty
	}
	return out, rows.Err()
}

// NextNumber incrementa el contador del tipo dentro de la tx; un rollback devuelve el número.
func (r *BillRepo) NextNumber(ctx context.Context, kind entity.BillKind) (int64, error) {
	query := `
		INSERT INTO bill_sequences (kind, last_value) VALUES ($1, 1)
		ON CONFLICT (kind) DO UPDATE SET last_value = bill_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, string(kind)).Scan(&n); err != nil {
		return 0, fmt.Errorf("next bill number: %w", err)
	}
	return n, nil
}
