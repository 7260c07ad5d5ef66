package capability

import (
	"fmt"
	"strings"
)

// Closed enum members for attribute domains the platform constrains.
var (
	knownCaptureMethods = map[string]bool{
		"automatic":       true,
		"manual":          true,
		"manual_multiple": true,
		"scheduled":       true,
	}

	knownAuthenticationTypes = map[string]bool{
		"three_ds":    true,
		"no_three_ds": true,
	}
)

// ValidationError represents a capability catalog validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validate checks the structural integrity of a capability catalog and
// returns every problem found.
func Validate(catalog *Catalog) error {
	var errs ValidationErrors

	addError := func(path, format string, args ...any) {
		errs = append(errs, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if catalog == nil {
		return ValidationErrors{{Message: "catalog is nil"}}
	}
	if len(catalog.Connectors) == 0 {
		addError("connectors", "at least one connector is required")
	}

	seen := make(map[string]bool)
	for i, conn := range catalog.Connectors {
		path := fmt.Sprintf("connectors[%d]", i)

		if conn.Name == "" {
			addError(path+".name", "connector name is required")
		} else if seen[conn.Name] {
			addError(path+".name", "duplicate connector %q", conn.Name)
		}
		seen[conn.Name] = true

		if len(conn.PaymentMethods) == 0 {
			addError(path+".payment_methods", "at least one payment method is required")
		}

		for j, pm := range conn.PaymentMethods {
			pmPath := fmt.Sprintf("%s.payment_methods[%d]", path, j)

			if pm.Method == "" {
				addError(pmPath+".method", "payment method is required")
			}
			for k, cm := range pm.CaptureMethods {
				if !knownCaptureMethods[cm] {
					addError(fmt.Sprintf("%s.capture_methods[%d]", pmPath, k),
						"unknown capture method %q", cm)
				}
			}
			for k, at := range pm.AuthenticationTypes {
				if !knownAuthenticationTypes[at] {
					addError(fmt.Sprintf("%s.authentication_types[%d]", pmPath, k),
						"unknown authentication type %q", at)
				}
			}
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
