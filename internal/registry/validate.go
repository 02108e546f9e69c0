package registry

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Case names double as golden file extensions, so keep them to a
// filename-safe alphabet.
var caseNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidationError represents an invalid case definition.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validateCase(c Case) error {
	if c.Name == "" {
		return &ValidationError{Field: "case name", Message: "is required"}
	}
	if !caseNamePattern.MatchString(c.Name) {
		return &ValidationError{
			Field:   fmt.Sprintf("cases.%s", c.Name),
			Message: "case name must match pattern ^[a-z][a-z0-9_]*$",
		}
	}

	if len(c.Inputs) == 0 {
		return &ValidationError{
			Field:   fmt.Sprintf("cases.%s.input", c.Name),
			Message: "at least one input pattern is required",
		}
	}
	for i, p := range c.Inputs {
		if err := validateRelPath(p, true); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("cases.%s.input[%d]", c.Name, i),
				Message: err.Error(),
			}
		}
	}

	for i, s := range c.Skip {
		if err := validateRelPath(s, false); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("cases.%s.skip[%d]", c.Name, i),
				Message: err.Error(),
			}
		}
	}

	return nil
}

// validateRelPath checks that p stays inside the data root.
func validateRelPath(p string, glob bool) error {
	if p == "" {
		return fmt.Errorf("is empty")
	}
	if filepath.IsAbs(p) {
		return fmt.Errorf("%q must be relative to the test data root", p)
	}
	for _, elem := range strings.Split(filepath.ToSlash(p), "/") {
		if elem == ".." {
			return fmt.Errorf("%q must not contain \"..\"", p)
		}
	}
	if glob {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("%q is not a valid glob pattern", p)
		}
	}
	return nil
}
