package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// RecordMovementFromRequest adapta el request HTTP al caso de uso RecordMovement(ctx, MovementInput).
func (uc *LedgerUseCase) RecordMovementFromRequest(ctx context.Context, userID string, in dto.RecordMovementRequest) (*dto.RecordMovementResponse, error) {
	input := MovementInput{
		MovementType:    in.MovementType,
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		UserID:          userID,
		AllowNegative:   in.AllowNegative,
	}
	if in.FromStockID != nil {
		input.FromStockID = *in.FromStockID
	}
	if in.ToStockID != nil {
		input.ToStockID = *in.ToStockID
	}
	if in.MovementDate != nil {
		input.MovementDate = *in.MovementDate
	}
	res, err := uc.RecordMovement(ctx, input)
	if err != nil {
		return nil, err
	}
	return toRecordResponse(res), nil
}

// ReverseFromRequest adapta POST /stock-movements/:id/reverse.
func (uc *LedgerUseCase) ReverseFromRequest(ctx context.Context, userID, movementID string, in dto.ReverseMovementRequest) (*dto.RecordMovementResponse, error) {
	res, err := uc.Reverse(ctx, movementID, in.Notes, userID)
	if err != nil {
		return nil, err
	}
	return toRecordResponse(res), nil
}

// ListMovementsFromRequest adapta GET /stock-movements.
func (uc *LedgerUseCase) ListMovementsFromRequest(ctx context.Context, in dto.MovementFilterRequest) ([]dto.MovementResponse, dto.Pagination, error) {
	page := in.PageRequest()
	list, total, err := uc.ListMovements(ctx, repository.MovementFilter{
		MovementType:  in.MovementType,
		FromStockID:   in.FromStockID,
		ToStockID:     in.ToStockID,
		ProductID:     in.ProductID,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Limit:         page.Limit,
		Offset:        page.Offset(),
	})
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.ToMovementResponse(m))
	}
	return items, dto.NewPagination(page, total), nil
}

func toRecordResponse(res *MovementResult) *dto.RecordMovementResponse {
	product := dto.ToProductResponse(res.Product)
	return &dto.RecordMovementResponse{
		ID:             res.Movement.ID,
		Movement:       dto.ToMovementResponse(res.Movement),
		UpdatedStocks:  dto.ToBalanceResponses(res.UpdatedStocks),
		UpdatedProduct: &product,
	}
}
