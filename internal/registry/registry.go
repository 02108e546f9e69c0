// Package registry holds the static table of golden-file test cases.
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/dextest/internal/errors"
	"github.com/AndreyAkinshin/dextest/internal/schema"
)

//go:embed cases.yaml
var builtinCases []byte

// Case configures one test scenario.
type Case struct {
	Name   string   // Unique name; also the golden file suffix
	Args   string   // Literal arguments placed before the input path
	Inputs []string // Glob patterns relative to the data root, in order
	Skip   []string // Inputs excluded even when a pattern matches them
}

func (c Case) clone() Case {
	c.Inputs = slices.Clone(c.Inputs)
	c.Skip = slices.Clone(c.Skip)
	return c
}

// Registry is an immutable, name-sorted set of cases.
type Registry struct {
	cases  []Case
	byName map[string]int
}

// New builds a registry from cases, validating each one.
// Cases are copied, so later changes by the caller are not observed.
func New(cases ...Case) (*Registry, error) {
	r := &Registry{
		cases:  make([]Case, 0, len(cases)),
		byName: make(map[string]int, len(cases)),
	}

	for _, c := range cases {
		if err := validateCase(c); err != nil {
			return nil, err
		}
		if _, dup := r.byName[c.Name]; dup {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("cases.%s", c.Name),
				Message: "duplicate case name",
			}
		}
		r.byName[c.Name] = -1
		r.cases = append(r.cases, c.clone())
	}

	sort.Slice(r.cases, func(i, j int) bool {
		return r.cases[i].Name < r.cases[j].Name
	})
	for i, c := range r.cases {
		r.byName[c.Name] = i
	}

	return r, nil
}

type caseFile struct {
	Cases map[string]caseEntry `yaml:"cases"`
}

type caseEntry struct {
	Args  string   `yaml:"args"`
	Input []string `yaml:"input"`
	Skip  []string `yaml:"skip,omitempty"`
}

// Parse decodes a YAML case table, checks it against the embedded schema,
// and builds a registry from it.
func Parse(data []byte) (*Registry, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Configf("failed to parse case table: %v", err)
	}

	// The schema validator works on JSON documents.
	doc, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Configf("failed to convert case table: %v", err)
	}
	if err := schema.ValidateCases(doc); err != nil {
		return nil, errors.Validation(err)
	}

	var file caseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Configf("failed to parse case table: %v", err)
	}

	cases := make([]Case, 0, len(file.Cases))
	for name, entry := range file.Cases {
		cases = append(cases, Case{
			Name:   name,
			Args:   entry.Args,
			Inputs: entry.Input,
			Skip:   entry.Skip,
		})
	}

	r, err := New(cases...)
	if err != nil {
		return nil, errors.Validation(err)
	}
	return r, nil
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
	defaultErr      error
)

// Default returns the built-in dexter case table, parsed once per process.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Parse(builtinCases)
	})
	return defaultRegistry, defaultErr
}

// All returns every case sorted by name.
func (r *Registry) All() []Case {
	out := make([]Case, len(r.cases))
	for i, c := range r.cases {
		out[i] = c.clone()
	}
	return out
}

// Get returns the case with the given name.
func (r *Registry) Get(name string) (Case, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Case{}, false
	}
	return r.cases[i].clone(), true
}

// Len returns the number of cases.
func (r *Registry) Len() int {
	return len(r.cases)
}

// Names returns the case names in iteration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.cases))
	for i, c := range r.cases {
		names[i] = c.Name
	}
	return names
}

// Filter returns a registry holding only the cases whose name matches re.
// A nil re returns r itself.
func (r *Registry) Filter(re *regexp.Regexp) *Registry {
	if re == nil {
		return r
	}
	filtered := &Registry{byName: make(map[string]int)}
	for _, c := range r.cases {
		if re.MatchString(c.Name) {
			filtered.byName[c.Name] = len(filtered.cases)
			filtered.cases = append(filtered.cases, c)
		}
	}
	return filtered
}
