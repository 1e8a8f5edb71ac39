// Package validator installs the domain enum validations used by request
// binding tags: bloodtype, organtype, role, and priority.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

// RegisterDomainValidations adds the custom tag validations to gin's binding
// validator. Call once before the router starts serving.
func RegisterDomainValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("bloodtype", func(fl validator.FieldLevel) bool {
		return model.BloodType(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("organtype", func(fl validator.FieldLevel) bool {
		return model.OrganType(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.Role(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return model.SOSPriority(fl.Field().String()).Rank() > 0
	})
}
