package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product товарная позиция каталога.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductRequest используется для приёма товара из JSON-запроса.
// Цена приходит строкой, чтобы не терять точность.
type ProductRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Price       string `json:"price" validate:"required,numeric"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Category    string `json:"category" validate:"max=100"`
}
