// Package resolve expands a case's input patterns into concrete files.
package resolve

import (
	"path/filepath"
	"sort"

	"github.com/AndreyAkinshin/dextest/internal/errors"
	"github.com/AndreyAkinshin/dextest/internal/registry"
)

// Input pairs a case with one concrete input file.
type Input struct {
	Case registry.Case
	Path string
}

// Resolve expands each of c's patterns against root in declaration order.
// Matches of a single pattern are sorted lexicographically. A file matched
// by several patterns appears once per pattern. Files named in c.Skip are
// dropped. A pattern with no matches contributes nothing.
func Resolve(root string, c registry.Case) ([]Input, error) {
	skip := make(map[string]bool, len(c.Skip))
	for _, s := range c.Skip {
		skip[filepath.Join(root, s)] = true
	}

	var inputs []Input
	for _, pattern := range c.Inputs {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, errors.Configf("case %s: bad input pattern %q: %v", c.Name, pattern, err)
		}
		sort.Strings(matches)

		for _, m := range matches {
			if skip[filepath.Clean(m)] {
				continue
			}
			inputs = append(inputs, Input{Case: c, Path: m})
		}
	}

	return inputs, nil
}
