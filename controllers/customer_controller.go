package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/monoclone/order-management-api/config"
	"github.com/monoclone/order-management-api/models"
	"github.com/monoclone/order-management-api/services"
)

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	Name  string  `json:"name" binding:"required,max=255"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
}

// UpdateCustomerRequest represents the request body for partially updating
// a customer. Absent fields are left unchanged.
type UpdateCustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=255"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
}

// CreateCustomer handles POST /api/v1/customers
func CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewCustomerService(config.GetDB())
	customer, err := svc.CreateCustomer(services.CreateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			respondError(c, http.StatusConflict, "Customer with email '"+*req.Email+"' already exists.")
			return
		}
		log.Printf("create customer failed: %v", err)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// ListCustomers handles GET /api/v1/customers with skip/limit pagination
func ListCustomers(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}
	if skip < 0 {
		respondQueryError(c, "skip", "Must be a non-negative integer")
		return
	}
	if limit <= 0 {
		respondQueryError(c, "limit", "Must be a positive integer")
		return
	}

	db := config.GetDB()
	var customers []models.Customer
	if err := db.Preload("Orders.Items").Offset(skip).Limit(limit).Order("id").Find(&customers).Error; err != nil {
		log.Printf("list customers failed: %v", err)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer handles GET /api/v1/customers/:id
func GetCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.Preload("Orders.Items").First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Customer with ID "+strconv.FormatUint(uint64(id), 10)+" not found.")
			return
		}
		log.Printf("get customer %d failed: %v", id, err)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles PUT /api/v1/customers/:id
func UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	svc := services.NewCustomerService(config.GetDB())
	customer, err := svc.UpdateCustomer(id, services.UpdateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerNotFound):
			respondError(c, http.StatusNotFound, "Customer with ID "+strconv.FormatUint(uint64(id), 10)+" not found.")
		case errors.Is(err, services.ErrDuplicateEmail):
			respondError(c, http.StatusConflict, "Customer with email '"+*req.Email+"' already exists.")
		default:
			log.Printf("update customer %d failed: %v", id, err)
			respondError(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /api/v1/customers/:id - cascades to the
// customer's orders and their items
func DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	svc := services.NewCustomerService(config.GetDB())
	if err := svc.DeleteCustomer(id); err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			respondError(c, http.StatusNotFound, "Customer with ID "+strconv.FormatUint(uint64(id), 10)+" not found.")
			return
		}
		log.Printf("delete customer %d failed: %v", id, err)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}

	c.Status(http.StatusNoContent)
}

// queryInt parses an optional integer query parameter, responding with a
// 422 envelope when the value is present but not an integer.
func queryInt(c *gin.Context, name string, defaultValue int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondQueryError(c, name, "Must be an integer")
		return 0, false
	}
	return value, true
}

// respondQueryError writes the 422 envelope for an invalid query parameter
func respondQueryError(c *gin.Context, field, message string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":       true,
		"status_code": http.StatusUnprocessableEntity,
		"message":     "Validation failed. Please check your request.",
		"details":     []gin.H{{"field": field, "message": message, "type": "query"}},
		"path":        c.Request.URL.String(),
	})
}

// pathID parses the :id path parameter, responding with a 422 envelope
// when it is not a positive integer.
func pathID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       true,
			"status_code": http.StatusUnprocessableEntity,
			"message":     "Validation failed. Please check your request.",
			"details":     []gin.H{{"field": "id", "message": "Must be a positive integer", "type": "path"}},
			"path":        c.Request.URL.String(),
		})
		return 0, false
	}
	return uint(id), true
}
