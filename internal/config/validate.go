package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError is a config problem tied to a file and, when known, a
// position or a field.
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
		return fmt.Sprintf("%s: %s %s", e.FilePath, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

// yamlPosition matches the position yaml.v3 puts in syntax errors, e.g.
// "yaml: line 5: column 3: mapping values are not allowed".
var yamlPosition = regexp.MustCompile(`^yaml: line (\d+):(?: column (\d+):)? (.*)$`)

// ValidateYAMLSyntax parses the YAML file at filePath and reports syntax
// errors with their position. An empty file is valid and yields defaults.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
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

	vErr := &ValidationError{FilePath: filePath, Message: err.Error()}
	if m := yamlPosition.FindStringSubmatch(err.Error()); m != nil {
		vErr.Line, _ = strconv.Atoi(m[1])
		vErr.Column = 1
		if m[2] != "" {
			vErr.Column, _ = strconv.Atoi(m[2])
		}
		vErr.Message = m[3]
	}
	return vErr
}

// configValidator reports fields by their config key rather than the Go
// field name.
var configValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
	})
	return v
}()

// ValidateConfigValues checks cfg against its validate tags and returns the
// first failure as a ValidationError naming the offending key.
func ValidateConfigValues(cfg *Config, filePath string) error {
	err := configValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	first := fieldErrs[0]
	return &ValidationError{
		FilePath: filePath,
		Field:    fieldPath(first),
		Message:  describeFailure(first),
	}
}

// fieldPath returns the dotted config key of a failed field, without the
// root struct name.
func fieldPath(fieldErr validator.FieldError) string {
	if _, rest, ok := strings.Cut(fieldErr.Namespace(), "."); ok {
		return rest
	}
	return fieldErr.Field()
}

// describeFailure turns a failed tag into a short human message.
func describeFailure(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be %s or greater", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	case "excludesall":
		return "must be a file name, not a path"
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}
