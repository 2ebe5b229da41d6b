package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const importSchemaURL = "planit-import.json"

// importSchema only checks the outer shape: an object keyed by date-shaped
// strings whose values are lists of objects. Individual task fields are not
// validated. ParseImport rejects impossible dates after decoding.
const importSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "propertyNames": { "pattern": "^[0-9]{4}-[0-9]{1,2}-[0-9]{1,2}$" },
  "additionalProperties": {
    "type": "array",
    "items": { "type": "object" }
  }
}`

var (
	importSchemaOnce     sync.Once
	importSchemaCompiled *jsonschema.Schema
	importSchemaErr      error
)

func compiledImportSchema() (*jsonschema.Schema, error) {
	importSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(importSchemaURL, strings.NewReader(importSchema)); err != nil {
			importSchemaErr = fmt.Errorf("add import schema: %w", err)
			return
		}
		importSchemaCompiled, importSchemaErr = compiler.Compile(importSchemaURL)
	})
	return importSchemaCompiled, importSchemaErr
}

// ExportJSON writes the whole stored mapping as indented JSON. Holidays
// are never part of an export.
func (s *Store) ExportJSON(w io.Writer) error {
	data, err := json.MarshalIndent(s.days, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ParseImport decodes an import document. Anything that is not a DateKey
// to task-list mapping fails with ErrMalformedImport.
func ParseImport(data []byte) (Days, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedImport)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}

	schema, err := compiledImportSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile import schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedImport, describeSchemaError(err))
	}

	var days Days
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if bad := days.InvalidDates(); len(bad) > 0 {
		return nil, fmt.Errorf("%w: not a calendar date: %s", ErrMalformedImport, strings.Join(bad, ", "))
	}
	return days, nil
}

// describeSchemaError reports the first leaf cause with its location.
func describeSchemaError(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return ve.InstanceLocation + ": " + ve.Message
}
