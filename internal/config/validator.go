package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// validate is built on first use and shared; validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate = sync.OnceValues(newValidator)

// customValidations are the tags used by Config beyond the validator
// built-ins.
var customValidations = map[string]validator.Func{
	"loglevel": func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
			return true
		default:
			return false
		}
	},
	"logformat": func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	},
	"backend": func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "", "memory", "kuzu":
			return true
		default:
			return false
		}
	},
}

func newValidator() (*validator.Validate, error) {
	v := validator.New()
	for tag, fn := range customValidations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("config: register %q: %w", tag, err)
		}
	}
	return v, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	v, err := validate()
	if err != nil {
		return err
	}

	err = v.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: validate: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
}
