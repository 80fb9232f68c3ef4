package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError locates a problem in a config source. Line is set for
// syntax errors, Field for invalid values.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Field    string
	Message  string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// valuesValidator reports fields by their koanf key and knows the
// "revision" tag used on DefaultRevision.
func valuesValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("revision", func(fl validator.FieldLevel) bool {
			return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
		})
	})
	return validate
}

// ValidateYAMLSyntax parses the file at filePath into a yaml.v3 node tree.
// A missing or blank file is valid; the defaults apply.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case errors.Is(err, os.ErrPermission):
		return &ValidationError{FilePath: filePath, Message: "permission denied"}
	case err != nil:
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var node yaml.Node
	err = yaml.Unmarshal(data, &node)
	if err == nil {
		return nil
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{FilePath: filePath, Message: strings.Join(typeErr.Errors, "; ")}
	}
	line, column, msg := splitYAMLError(err.Error())
	return &ValidationError{FilePath: filePath, Line: line, Column: column, Message: msg}
}

// ValidateConfigValues checks cfg against its validate tags. Every invalid
// field is reported, joined with errors.Join.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	err := valuesValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &ValidationError{
			FilePath: filePath,
			Field:    fe.Field(),
			Message:  describeFieldError(fe),
		})
	}
	return errors.Join(errs...)
}

// splitYAMLError pulls the position out of messages shaped like
// "yaml: line 5: could not find expected ':'".
func splitYAMLError(msg string) (line, column int, rest string) {
	rest = strings.TrimPrefix(msg, "yaml: ")
	if n, _ := fmt.Sscanf(rest, "line %d: column %d:", &line, &column); n == 2 {
		_, rest, _ = strings.Cut(rest, ": ")
		_, rest, _ = strings.Cut(rest, ": ")
		return line, column, rest
	}
	if n, _ := fmt.Sscanf(rest, "line %d:", &line); n == 1 {
		_, rest, _ = strings.Cut(rest, ": ")
		return line, 1, rest
	}
	return 0, 0, msg
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "revision":
		return fmt.Sprintf("must not contain whitespace: %q", fe.Value())
	default:
		return "failed validation: " + fe.Tag()
	}
}
