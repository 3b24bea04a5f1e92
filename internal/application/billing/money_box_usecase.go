package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// MoneyBoxUseCase casos de uso para cajas de dinero.
type MoneyBoxUseCase struct {
	txRunner    ports.TxRunner
	repo        repository.MoneyBoxRepository
	invalidator invalidation.Invalidator
}

// NewMoneyBoxUseCase construye el caso de uso.
func NewMoneyBoxUseCase(txRunner ports.TxRunner, repo repository.MoneyBoxRepository, invalidator invalidation.Invalidator) *MoneyBoxUseCase {
	return &MoneyBoxUseCase{txRunner: txRunner, repo: repo, invalidator: invalidator}
}

// Create crea la caja; el saldo inicial queda registrado como una transacción de entrada.
func (uc *MoneyBoxUseCase) Create(ctx context.Context, userID string, in dto.CreateMoneyBoxRequest) (*dto.MoneyBoxResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	if in.OpeningBalance.IsNegative() {
		return nil, domain.NewValidationError("opening_balance", "el saldo inicial no puede ser negativo")
	}
	now := time.Now()
	box := &entity.MoneyBox{
		ID:        uuid.New().String(),
		Name:      name,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := repos.MoneyBoxes.Create(ctx, box); err != nil {
			return err
		}
		return newCashRegister(repos, time.Now).Record(ctx, CashEntry{
			MoneyBoxID:    box.ID,
			Direction:     entity.CashDirectionIn,
			Amount:        in.OpeningBalance,
			ReferenceType: "opening",
			ReferenceID:   box.ID,
			Notes:         "Saldo inicial",
			UserID:        userID,
		})
	})
	if err != nil {
		return nil, err
	}
	box.Balance = in.OpeningBalance
	uc.invalidator.Invalidate(ctx, invalidation.OpMoneyBoxChanged)
	resp := toMoneyBoxResponse(box)
	return &resp, nil
}

// Get obtiene una caja con su saldo.
func (uc *MoneyBoxUseCase) Get(ctx context.Context, id string) (*dto.MoneyBoxResponse, error) {
	box, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toMoneyBoxResponse(box)
	return &resp, nil
}

// List lista las cajas.
func (uc *MoneyBoxUseCase) List(ctx context.Context) ([]dto.MoneyBoxResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MoneyBoxResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toMoneyBoxResponse(b))
	}
	return out, nil
}

// ListTransactions lista los movimientos de una caja, más recientes primero.
func (uc *MoneyBoxUseCase) ListTransactions(ctx context.Context, id string, page dto.PageRequest) ([]dto.CashTransactionResponse, dto.Pagination, error) {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, dto.Pagination{}, err
	}
	page.DefaultPage()
	list, total, err := uc.repo.ListTransactions(ctx, id, page.Limit, page.Offset())
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	out := make([]dto.CashTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.CashTransactionResponse{
			ID:            t.ID,
			MoneyBoxID:    t.MoneyBoxID,
			Direction:     t.Direction,
			Amount:        t.Amount,
			ReferenceType: t.ReferenceType,
			ReferenceID:   t.ReferenceID,
			Notes:         t.Notes,
			CreatedBy:     t.CreatedBy,
			CreatedAt:     t.CreatedAt,
		})
	}
	return out, dto.NewPagination(page, total), nil
}

func toMoneyBoxResponse(b *entity.MoneyBox) dto.MoneyBoxResponse {
	return dto.MoneyBoxResponse{
		ID:        b.ID,
		Name:      b.Name,
		Balance:   b.Balance,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
