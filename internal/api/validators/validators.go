// Package validators holds the request validator shared by all handlers.
package validators

import (
	"reflect"
	"strings"
	"sync"

	"github.com/blockwork/engine/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// New returns the shared validator. Field errors are reported by JSON name and
// the entity_type tag accepts the addressable entity types.
func New() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("entity_type", func(fl validator.FieldLevel) bool {
			return models.EntityType(fl.Field().String()).Valid()
		})
		instance = v
	})
	return instance
}

// Message flattens validation errors into one line.
func Message(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fe.Field()+" failed "+fe.Tag()+"="+fe.Param())
			continue
		}
		parts = append(parts, fe.Field()+" failed "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}
