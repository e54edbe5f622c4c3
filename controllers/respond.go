package controllers

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError writes the uniform error envelope used by every error path:
//
//	{"error": true, "status_code": ..., "message": ..., "path": ...}
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":       true,
		"status_code": status,
		"message":     message,
		"path":        c.Request.URL.String(),
	})
}

// respondValidationError translates a binding error into a 422 envelope
// with one details entry per offending field.
func respondValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Malformed JSON, wrong types, etc. — no field breakdown available.
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       true,
			"status_code": http.StatusUnprocessableEntity,
			"message":     "Validation failed. Please check your request.",
			"details":     []gin.H{{"field": "body", "message": err.Error(), "type": "invalid"}},
			"path":        c.Request.URL.String(),
		})
		return
	}

	details := make([]gin.H, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, gin.H{
			"field":   fieldPath(fe),
			"message": validationMessage(fe),
			"type":    fe.Tag(),
		})
	}

	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":       true,
		"status_code": http.StatusUnprocessableEntity,
		"message":     "Validation failed. Please check your request.",
		"details":     details,
		"path":        c.Request.URL.String(),
	})
}

// RecoveryHandler turns a panic into the standard 500 envelope. Internal
// detail is logged by gin's recovery machinery, never sent to the caller.
func RecoveryHandler(c *gin.Context, _ any) {
	respondError(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
}

// NotFoundHandler serves the error envelope for unknown routes
func NotFoundHandler(c *gin.Context) {
	respondError(c, http.StatusNotFound, "The requested resource was not found.")
}

// fieldPath converts a validator namespace like
// "CreateOrderRequest.Items[0].UnitPrice" into "items[0].unit_price".
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:] // drop the request struct name
	}
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

// validationMessage builds a human-readable message for a failed rule
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "gt":
		return "Must be greater than " + fe.Param()
	case "min":
		if fe.Kind().String() == "slice" {
			return "Must contain at least " + fe.Param() + " item(s)"
		}
		return "Must be at least " + fe.Param() + " characters long"
	case "max":
		return "Must be at most " + fe.Param() + " characters long"
	default:
		return "Failed validation rule: " + fe.Tag()
	}
}

// toSnake lowercases a Go field name segment, e.g. "UnitPrice" -> "unit_price".
// Index suffixes like "Items[0]" are preserved.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
