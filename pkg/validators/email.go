package validators

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Email reports whether address is syntactically a valid email address.
func Email(address string) bool {
	return instance().Var(address, "required,email") == nil
}
