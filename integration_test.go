package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appconfig "github.com/monoclone/order-management-api/config"
	"github.com/monoclone/order-management-api/models"
)

// setupIntegrationRouter builds the full application router against an
// in-memory database, mirroring what main does at startup.
func setupIntegrationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Customer{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	appconfig.SetDB(db)

	cfg := &appconfig.Config{
		DatabaseURL:    "sqlite://memory",
		Port:           "8080",
		GoEnv:          "test",
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	return setupRouter(cfg)
}

func request(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router := setupIntegrationRouter(t)

	w := request(router, "GET", "/api/v1/health", nil)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Order Management API is running", response["message"])
}

// TestDatabaseStatusIntegration exercises /api/v1/database/status. The
// handler's table listing queries pg_tables, so against the sqlite test
// handle the ping succeeds but the query fails and the error envelope
// reports DATABASE_QUERY_ERROR.
func TestDatabaseStatusIntegration(t *testing.T) {
	router := setupIntegrationRouter(t)

	w := request(router, "GET", "/api/v1/database/status", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
	errInfo := response["error"].(map[string]interface{})
	assert.Equal(t, "DATABASE_QUERY_ERROR", errInfo["code"])
	assert.Equal(t, "Failed to query tables", errInfo["message"])
}

// TestOrderLifecycleIntegration walks the whole flow: create a customer,
// place an order, read it back, then delete the customer and verify the
// cascade removed the order and its items.
func TestOrderLifecycleIntegration(t *testing.T) {
	router := setupIntegrationRouter(t)

	// Create the customer.
	w := request(router, "POST", "/api/v1/customers", map[string]interface{}{
		"name":  "Ana",
		"email": "ana@x.com",
	})
	assert.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	var customer map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &customer))
	customerID := customer["id"]

	// Place an order with two line items.
	w = request(router, "POST", "/api/v1/orders", map[string]interface{}{
		"customer_id": customerID,
		"items": []map[string]interface{}{
			{"product_name": "Pen", "quantity": 3, "unit_price": 1.50},
			{"product_name": "Notebook", "quantity": 2, "unit_price": 4.25},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	var order map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.InDelta(t, 13.00, order["total_amount"], 1e-9)
	assert.Equal(t, "pending", order["status"])

	// The order is visible under the customer.
	w = request(router, "GET", "/api/v1/customers/1/orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var orders []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)

	// Delete the customer; the order and its items must cascade away.
	w = request(router, "DELETE", "/api/v1/customers/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = request(router, "GET", "/api/v1/orders/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	db := appconfig.GetDB()
	var itemCount int64
	db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.Zero(t, itemCount, "cascade must remove order items")
}

// TestValidationEnvelopeIntegration verifies the uniform 422 envelope
func TestValidationEnvelopeIntegration(t *testing.T) {
	router := setupIntegrationRouter(t)

	w := request(router, "POST", "/api/v1/orders", map[string]interface{}{
		"customer_id": 1,
		"items":       []map[string]interface{}{},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["error"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), response["status_code"])
	assert.Equal(t, "Validation failed. Please check your request.", response["message"])
	assert.Equal(t, "/api/v1/orders", response["path"])
	assert.NotEmpty(t, response["details"])
}
