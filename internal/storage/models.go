package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// StockInStock is the stock_status value marking a product as available.
// Any other value is treated as out of stock.
const StockInStock = "in_stock"

type Order struct {
	OrderID              string
	Status               string
	ExpectedDeliveryDate string
}

type Product struct {
	ProductID   string
	Name        string
	Category    string
	Description string
	Price       float64
	StockStatus string
}

type FAQEntry struct {
	Question string
	Answer   string
}

// Interaction is one recorded /chat exchange. The dataset tables are
// read-only after startup; interactions live in their own table.
type Interaction struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `json:"message"`
	Intent    string    `json:"intent"`
	Reply     string    `json:"reply"`
}
