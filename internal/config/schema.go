package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "run.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// ValidateDocument checks a decoded configuration document against the
// embedded JSON schema. The document must use the types produced by
// encoding/json. Schema violations are returned as *ValidationErrors.
func ValidateDocument(doc interface{}) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	errs := &ValidationErrors{}
	extractValidationErrors(verr, errs)
	if !errs.HasErrors() {
		errs.Add(verr.InstanceLocation, verr.Message)
	}
	return errs
}

// extractValidationErrors collects the leaf errors of a schema validation
// failure.
func extractValidationErrors(err *jsonschema.ValidationError, errs *ValidationErrors) {
	if len(err.Causes) == 0 {
		if err.Message != "" {
			errs.Add(err.InstanceLocation, err.Message)
		}
		return
	}
	for _, cause := range err.Causes {
		extractValidationErrors(cause, errs)
	}
}
