package validator

import (
	"github.com/go-playground/validator/v10"
)

// registerCustomRules wires domain-specific validation tags.
func registerCustomRules(v *validator.Validate) error {
	// pairingrole: the two self-registerable roles. Admin accounts are
	// seeded, never created through the API.
	if err := v.RegisterValidation("pairingrole", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "youth", "elderly":
			return true
		}
		return false
	}); err != nil {
		return err
	}

	return nil
}
