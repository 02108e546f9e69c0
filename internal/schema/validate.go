// Package schema provides JSON schema validation for dextest data files.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/AndreyAkinshin/dextest/schema"
)

var (
	casesSchema *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

// compileSchemas compiles all embedded schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		casesData, err := schemafs.FS.ReadFile("cases.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read cases schema: %w", err)
			return
		}

		casesDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(casesData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal cases schema: %w", err)
			return
		}

		if err := compiler.AddResource("cases.schema.json", casesDoc); err != nil {
			compileErr = fmt.Errorf("add cases schema resource: %w", err)
			return
		}

		casesSchema, err = compiler.Compile("cases.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile cases schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateCases validates JSON data against the case table schema.
func ValidateCases(data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := casesSchema.Validate(v); err != nil {
		return fmt.Errorf("case table validation failed: %w", err)
	}

	return nil
}
