package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación ("stock").
type CreateLocationRequest struct {
	Code     string `json:"code" validate:"required,min=1,max=50"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Capacity int64  `json:"capacity" validate:"gte=0"`
	IsMain   bool   `json:"is_main"`
	IsActive *bool  `json:"is_active"`
}

// UpdateLocationRequest entrada para actualizar una ubicación.
type UpdateLocationRequest struct {
	Code     *string `json:"code" validate:"omitempty,min=1,max=50"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Capacity *int64  `json:"capacity" validate:"omitempty,gte=0"`
	IsActive *bool   `json:"is_active"`
}

// LocationResponse salida de una ubicación con su ocupación.
type LocationResponse struct {
	ID                  string    `json:"id"`
	Code                string    `json:"code"`
	Name                string    `json:"name"`
	Capacity            int64     `json:"capacity"`
	CurrentCapacityUsed int64     `json:"current_capacity_used"`
	IsMain              bool      `json:"is_main"`
	IsActive            bool      `json:"is_active"`
	ProductCount        int       `json:"product_count"`
	TotalQuantity       int64     `json:"total_quantity"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// LocationProductResponse producto con su cantidad en una ubicación concreta.
type LocationProductResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int64           `json:"quantity"`
}

// LocationProductsResponse data de GET /api/stocks/:id/products.
type LocationProductsResponse struct {
	Location LocationResponse          `json:"location"`
	Items    []LocationProductResponse `json:"items"`
}
