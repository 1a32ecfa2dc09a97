package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
)

// Validator checks config and scenario structs against their validate tags.
// Failures name fields by their file key (yaml or mapstructure) so the
// message points at the line a user has to fix.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(fileKey)
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("tie_break", isTieBreak)

	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		problems = append(problems, describe(e))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(problems, "\n  "))
}

// ValidateConfig validates the entire configuration, including the rules
// that span more than one field.
func ValidateConfig(cfg *Config) error {
	if err := NewValidator().Validate(cfg); err != nil {
		return err
	}
	if cfg.Logging.Output == "file" && cfg.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path is required when logging.output is file")
	}
	return nil
}

func fileKey(f reflect.StructField) string {
	for _, tag := range []string{"yaml", "mapstructure"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func isTieBreak(fl validator.FieldLevel) bool {
	_, err := intel.ParseTieBreakPolicy(fl.Field().String())
	return err == nil
}

func describe(e validator.FieldError) string {
	path := e.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", path)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", path, e.Param(), fmt.Sprint(e.Value()))
	case "tie_break":
		return fmt.Sprintf("%s: unknown tie break policy %q", path, fmt.Sprint(e.Value()))
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", path, e.Param(), e.Value())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s, got %v", path, e.Param(), e.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", path, e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s failed %s validation (value: %v)", path, e.Tag(), e.Value())
	}
}
