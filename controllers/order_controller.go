package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/monoclone/order-management-api/config"
	"github.com/monoclone/order-management-api/models"
	"github.com/monoclone/order-management-api/services"
)

// OrderItemRequest represents one line item in an order creation request
type OrderItemRequest struct {
	ProductName string  `json:"product_name" binding:"required,max=255"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" binding:"required,gt=0"`
	Description *string `json:"description"`
}

// CreateOrderRequest represents the request body for creating an order.
// The total amount is never part of the request; it is derived.
type CreateOrderRequest struct {
	CustomerID uint               `json:"customer_id" binding:"required"`
	Status     string             `json:"status" binding:"omitempty,max=50"`
	Notes      *string            `json:"notes"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder handles POST /api/v1/orders - the order-creation transaction
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	items := make([]services.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = services.OrderItemInput{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			// NewFromFloat uses the shortest decimal representation, so a
			// JSON 1.5 becomes exactly decimal 1.5.
			UnitPrice:   decimal.NewFromFloat(item.UnitPrice),
			Description: item.Description,
		}
	}

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.CreateOrder(services.CreateOrderInput{
		CustomerID: req.CustomerID,
		Status:     req.Status,
		Notes:      req.Notes,
		Items:      items,
	})
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			respondError(c, http.StatusNotFound, "Customer with ID "+strconv.FormatUint(uint64(req.CustomerID), 10)+" not found.")
			return
		}
		log.Printf("create order failed: %v", err)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Order with ID "+strconv.FormatUint(uint64(id), 10)+" not found.")
			return
		}
		log.Printf("get order %d failed: %v", id, err)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListCustomerOrders handles GET /api/v1/customers/:id/orders
func ListCustomerOrders(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "Customer with ID "+strconv.FormatUint(uint64(id), 10)+" not found.")
			return
		}
		log.Printf("get customer %d failed: %v", id, err)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}

	var orders []models.Order
	if err := db.Preload("Items").Where("customer_id = ?", customer.ID).Order("id").Find(&orders).Error; err != nil {
		log.Printf("list orders of customer %d failed: %v", id, err)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// DeleteOrder handles DELETE /api/v1/orders/:id - cascades to the order's items
func DeleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	svc := services.NewOrderService(config.GetDB())
	if err := svc.DeleteOrder(id); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, "Order with ID "+strconv.FormatUint(uint64(id), 10)+" not found.")
			return
		}
		log.Printf("delete order %d failed: %v", id, err)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
		return
	}

	c.Status(http.StatusNoContent)
}
