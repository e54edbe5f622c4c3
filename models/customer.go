package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a customer in the system
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     *string   `gorm:"size:255;uniqueIndex" json:"email"` // optional, unique when present
	Phone     *string   `gorm:"size:50" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	Orders    []Order   `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"orders"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// AfterFind ensures Orders serializes as an empty array rather than null
// when a customer has no orders (or they were not preloaded).
func (c *Customer) AfterFind(_ *gorm.DB) error {
	if c.Orders == nil {
		c.Orders = []Order{}
	}
	return nil
}
