package validator

import (
	"fmt"

	playground "github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator for struct-tag validation
// shared across the module (search run configuration, split/CV params).
type Validator struct {
	v *playground.Validate
}

// New builds a Validator with the default go-playground validation tags.
func New() *Validator {
	return &Validator{v: playground.New()}
}

// ValidateStruct validates s's fields against its `validate` tags.
func (vd *Validator) ValidateStruct(s any) error {
	if err := vd.v.Struct(s); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
