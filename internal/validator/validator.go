// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// symbolRegex matches ticker symbols the quote provider can resolve:
// 1-10 letters with optional dots or dashes (BRK.B, BF-B).
var symbolRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z.\-]{0,9}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("symbol", validateSymbol)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
	}
}

func validateSymbol(fl validator.FieldLevel) bool {
	return symbolRegex.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BUY", "SELL":
		return true
	}
	return false
}
