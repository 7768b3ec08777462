package api

import (
	"errors"   // Error unwrapping
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"                 // Gin web framework
	"github.com/go-playground/validator/v10"   // Validator behind gin's binding tags
)

// validationDetails flattens a binding error into one message per violated
// field constraint, so callers see every failing field at once
func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, len(verrs)) // One entry per violated constraint
		for i, fe := range verrs {
			details[i] = fe.Field() + " failed on '" + fe.Tag() + "'" // Field and constraint name
		}
		return details
	}
	return []string{err.Error()} // Malformed JSON or type mismatch
}

// badRequest writes a structured 400 response for a binding failure
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Validation failed",      // Stable top-level message
		"details": validationDetails(err),   // Per-field constraint violations
	})
}
