package validation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Request limits
	MaxSeeds         = 1000
	MaxSelectionSize = 10000
	MaxPrefixLength  = 64

	// prefixPattern accepts Turtle-style prefix names; the empty prefix is allowed
	prefixPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_.-]*)?$`)
)

func init() {
	validate = validator.New()
}

// FocusRequest asks for the one-hop neighbourhood of a set of seed IRIs
type FocusRequest struct {
	Seeds []string `json:"seeds" validate:"required,min=1,max=1000,dive,required"`
}

// SelectionRequest carries the selected type and predicate IRIs of a view.
// Empty lists are valid and hide everything.
type SelectionRequest struct {
	Types      []string `json:"types" validate:"max=10000,dive,required"`
	Predicates []string `json:"predicates" validate:"max=10000,dive,required"`
}

// ValidateFocusRequest validates a focus request
func ValidateFocusRequest(req *FocusRequest) error {
	if req == nil {
		return errors.New("focus request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	for i, seed := range req.Seeds {
		if strings.TrimSpace(seed) != seed {
			return fmt.Errorf("Seeds: seed at index %d has surrounding whitespace", i)
		}
	}
	return nil
}

// ValidateSelectionRequest validates a selection request
func ValidateSelectionRequest(req *SelectionRequest) error {
	if req == nil {
		return errors.New("selection request cannot be nil")
	}
	return formatValidationError(validate.Struct(req))
}

// ValidateStruct validates any struct carrying validate tags
func ValidateStruct(v any) error {
	return formatValidationError(validate.Struct(v))
}

// ValidatePrefix validates a namespace prefix
func ValidatePrefix(prefix string) error {
	if len(prefix) > MaxPrefixLength {
		return fmt.Errorf("prefix '%s' exceeds maximum length of %d characters", prefix, MaxPrefixLength)
	}
	if !prefixPattern.MatchString(prefix) {
		return fmt.Errorf("prefix '%s' is invalid (must start with a letter, followed by letters, digits, '_', '-' or '.')", prefix)
	}
	return nil
}

// ValidateNamespaceIRI validates a namespace IRI. A namespace must be absolute
// and end in '/' or '#', otherwise no URI root can ever equal it.
func ValidateNamespaceIRI(ns string) error {
	if ns == "" {
		return errors.New("namespace cannot be empty")
	}
	u, err := url.Parse(ns)
	if err != nil {
		return fmt.Errorf("namespace '%s' is not a valid IRI: %w", ns, err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("namespace '%s' is not absolute", ns)
	}
	if !strings.HasSuffix(ns, "/") && !strings.HasSuffix(ns, "#") {
		return fmt.Errorf("namespace '%s' must end in '/' or '#'", ns)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "hostname_port":
			return fmt.Errorf("%s: must be host:port", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
