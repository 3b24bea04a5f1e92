package dto

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// ToProductResponse convierte la entidad a su salida HTTP.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Price:        p.Price,
		Cost:         p.Cost,
		CurrentStock: p.CurrentStock,
		StockID:      p.StockID,
		MinStock:     p.MinStock,
		Unit:         p.Unit,
		UnitsPerBox:  p.UnitsPerBox,
		BelowMinimum: p.BelowMinimum(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToMovementResponse convierte un movimiento del ledger.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		MovementType:    m.MovementType,
		FromStockID:     m.FromStockID,
		ToStockID:       m.ToStockID,
		ProductID:       m.ProductID,
		Quantity:        m.Quantity,
		UnitCost:        m.UnitCost,
		TotalValue:      m.TotalValue,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		ReferenceNumber: m.ReferenceNumber,
		ReversalOf:      m.ReversalOf,
		MovementDate:    m.MovementDate,
		Notes:           m.Notes,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
}

// ToBalanceResponses convierte saldos materializados.
func ToBalanceResponses(list []entity.StockBalance) []StockBalanceResponse {
	out := make([]StockBalanceResponse, 0, len(list))
	for _, b := range list {
		out = append(out, StockBalanceResponse{ProductID: b.ProductID, StockID: b.StockID, Quantity: b.Quantity})
	}
	return out
}

// ToLocationResponse convierte una ubicación; los agregados los completa quien llama.
func ToLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID:                  l.ID,
		Code:                l.Code,
		Name:                l.Name,
		Capacity:            l.Capacity,
		CurrentCapacityUsed: l.CurrentCapacityUsed,
		IsMain:              l.IsMain,
		IsActive:            l.IsActive,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}

// ToBillResponse convierte una factura con sus líneas.
func ToBillResponse(b *entity.Bill) BillResponse {
	items := make([]BillItemResponse, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, BillItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			StockID:         it.StockID,
			Quantity:        it.Quantity,
			Price:           it.Price,
			DiscountPercent: it.DiscountPercent,
			TaxPercent:      it.TaxPercent,
			Total:           it.Total,
			OriginalItemID:  it.OriginalItemID,
		})
	}
	return BillResponse{
		ID:              b.ID,
		Kind:            string(b.Kind),
		Number:          b.Number,
		CounterpartyID:  b.CounterpartyID,
		OriginalBillID:  b.OriginalBillID,
		OriginalKind:    string(b.OriginalKind),
		StockID:         b.StockID,
		Date:            b.Date,
		DueDate:         b.DueDate,
		Discount:        b.Discount,
		DiscountType:    b.DiscountType,
		TaxRate:         b.TaxRate,
		Subtotal:        b.Subtotal,
		DiscountAmount:  b.DiscountAmount,
		TaxAmount:       b.TaxAmount,
		NetAmount:       b.NetAmount,
		PaidAmount:      b.PaidAmount,
		RemainingAmount: b.RemainingAmount,
		PaymentMethod:   b.PaymentMethod,
		PaymentStatus:   b.PaymentStatus,
		Status:          b.Status,
		MoneyBoxID:      b.MoneyBoxID,
		Notes:           b.Notes,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		Items:           items,
	}
}

// ToVoucherResponse convierte un comprobante de pago.
func ToVoucherResponse(v *entity.PaymentVoucher) PaymentVoucherResponse {
	return PaymentVoucherResponse{
		ID:            v.ID,
		BillID:        v.BillID,
		BillKind:      string(v.BillKind),
		BillNumber:    v.BillNumber,
		Amount:        v.Amount,
		PaymentMethod: v.PaymentMethod,
		CreatedBy:     v.CreatedBy,
		CreatedAt:     v.CreatedAt,
	}
}
