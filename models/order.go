package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Money fields serialize as plain JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderStatusPending is the status assigned to orders created without an
// explicit status.
const OrderStatusPending = "pending"

// Order represents a customer order
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CustomerID  uint            `gorm:"not null;index" json:"customer_id"` // foreign key to customers table
	Status      string          `gorm:"size:50;not null;default:'pending'" json:"status"`
	Notes       *string         `gorm:"type:text" json:"notes"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"` // derived, maintained by the order service only
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents a single line item inside an order
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Quantity    int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Description *string         `gorm:"type:text" json:"description"`
	TotalPrice  decimal.Decimal `gorm:"-" json:"total_price"` // computed, not stored
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns quantity * unit price for this item
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AfterFind populates the computed TotalPrice field whenever an item is
// loaded from the database, including via Preload.
func (i *OrderItem) AfterFind(_ *gorm.DB) error {
	i.TotalPrice = i.LineTotal()
	return nil
}
