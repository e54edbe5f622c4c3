package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/monoclone/order-management-api/models"
)

// Sentinel errors returned by the order service. Controllers translate
// these into HTTP status codes.
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrOrderNotFound    = errors.New("order not found")
)

// OrderItemInput describes one requested line item for order creation.
type OrderItemInput struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Description *string
}

// CreateOrderInput holds the validated input for creating an order.
type CreateOrderInput struct {
	CustomerID uint
	Status     string
	Notes      *string
	Items      []OrderItemInput
}

// OrderService encapsulates the order-creation transaction and order deletion.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an OrderService backed by the given database
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrder atomically creates an order with its line items and computed
// total. The whole sequence runs in a single transaction:
//
//  1. verify the customer exists
//  2. create the order row (this establishes the order's identity)
//  3. create each item row, accumulating the total in exact decimal arithmetic
//  4. persist the total, rounded to 2 decimal places
//
// If any step fails the transaction rolls back and no rows remain. Returns
// ErrCustomerNotFound when the referenced customer does not exist.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, input.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("looking up customer %d: %w", input.CustomerID, err)
		}

		status := input.Status
		if status == "" {
			status = models.OrderStatusPending
		}

		order = models.Order{
			CustomerID:  customer.ID,
			Status:      status,
			Notes:       input.Notes,
			TotalAmount: decimal.Zero,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		total := decimal.Zero
		for _, in := range input.Items {
			item := models.OrderItem{
				OrderID:     order.ID,
				ProductName: in.ProductName,
				Quantity:    in.Quantity,
				UnitPrice:   in.UnitPrice,
				Description: in.Description,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("creating order item %q: %w", in.ProductName, err)
			}
			item.TotalPrice = item.LineTotal()
			total = total.Add(item.TotalPrice)
			order.Items = append(order.Items, item)
		}

		// Round half up; all line totals are positive.
		order.TotalAmount = total.Round(2)
		if err := tx.Model(&order).Update("total_amount", order.TotalAmount).Error; err != nil {
			return fmt.Errorf("storing order total: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// DeleteOrder removes an order and all of its items in one transaction.
// The item delete is explicit rather than left to the database's cascade
// rule so the behavior is identical across backends.
func (s *OrderService) DeleteOrder(orderID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("looking up order %d: %w", orderID, err)
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("deleting items of order %d: %w", order.ID, err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return fmt.Errorf("deleting order %d: %w", order.ID, err)
		}

		return nil
	})
}
