package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/monoclone/order-management-api/models"
)

// ErrDuplicateEmail is returned when a customer create or update would
// reuse an email that already belongs to another customer.
var ErrDuplicateEmail = errors.New("customer email already exists")

// CreateCustomerInput holds the validated input for creating a customer.
type CreateCustomerInput struct {
	Name  string
	Email *string
	Phone *string
}

// UpdateCustomerInput holds a partial customer update. Nil fields are
// left untouched.
type UpdateCustomerInput struct {
	Name  *string
	Email *string
	Phone *string
}

// CustomerService encapsulates customer persistence operations.
type CustomerService struct {
	db *gorm.DB
}

// NewCustomerService creates a CustomerService backed by the given database
func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// CreateCustomer creates a new customer, checking for a duplicate email
// first. Returns ErrDuplicateEmail when the email is already taken.
func (s *CustomerService) CreateCustomer(input CreateCustomerInput) (*models.Customer, error) {
	if input.Email != nil {
		var count int64
		if err := s.db.Model(&models.Customer{}).Where("email = ?", *input.Email).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("checking for existing email: %w", err)
		}
		if count > 0 {
			return nil, ErrDuplicateEmail
		}
	}

	customer := models.Customer{
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Orders: []models.Order{},
	}
	if err := s.db.Create(&customer).Error; err != nil {
		// The unique index can still fire under concurrent creates.
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	return &customer, nil
}

// UpdateCustomer partially updates a customer. Only the fields present in
// the input are changed; the updatable set is fixed to name, email, phone.
func (s *CustomerService) UpdateCustomer(customerID uint, input UpdateCustomerInput) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("looking up customer %d: %w", customerID, err)
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}

	if err := s.db.Save(&customer).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("updating customer %d: %w", customerID, err)
	}

	return &customer, nil
}

// DeleteCustomer removes a customer, their orders, and the items of those
// orders in one transaction. Children are deleted explicitly so the cascade
// does not depend on database-level foreign key enforcement.
func (s *CustomerService) DeleteCustomer(customerID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("looking up customer %d: %w", customerID, err)
		}

		var orderIDs []uint
		if err := tx.Model(&models.Order{}).Where("customer_id = ?", customer.ID).Pluck("id", &orderIDs).Error; err != nil {
			return fmt.Errorf("listing orders of customer %d: %w", customer.ID, err)
		}

		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return fmt.Errorf("deleting items of customer %d: %w", customer.ID, err)
			}
			if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.Order{}).Error; err != nil {
				return fmt.Errorf("deleting orders of customer %d: %w", customer.ID, err)
			}
		}

		if err := tx.Delete(&customer).Error; err != nil {
			return fmt.Errorf("deleting customer %d: %w", customer.ID, err)
		}

		return nil
	})
}

// isUniqueViolation reports whether err is a unique constraint error.
// Works with both PostgreSQL and SQLite error messages.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
