package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/forkhestra/forkhestra/internal/chainspec"
	"github.com/forkhestra/forkhestra/internal/task"
)

// ValidationError is one schema violation, with a JSON-pointer-ish path
// to the offending field.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateChainSpec checks spec against the generated chain schema.
func ValidateChainSpec(spec chainspec.ChainSpec) []*ValidationError {
	schemaJSON, err := GenerateChainConfigSchema()
	if err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("generate schema: %v", err)}}
	}
	return validateAgainst(schemaJSON, ChainConfigSchemaID, spec)
}

// ValidateTask checks t against the generated task schema.
func ValidateTask(t task.Task) []*ValidationError {
	schemaJSON, err := GenerateTaskSchema()
	if err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("generate schema: %v", err)}}
	}
	return validateAgainst(schemaJSON, TaskSchemaID, t)
}

func validateAgainst(schemaJSON []byte, resourceName string, v any) []*ValidationError {
	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("unmarshal schema: %v", err)}}
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(resourceName, schemaDoc); err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("add schema resource: %v", err)}}
	}

	sch, err := c.Compile(resourceName)
	if err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("compile schema: %v", err)}}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("marshal document: %v", err)}}
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("unmarshal document: %v", err)}}
	}

	if err := sch.Validate(doc); err != nil {
		ve, ok := err.(*sjsonschema.ValidationError)
		if !ok {
			return []*ValidationError{{Message: err.Error()}}
		}
		return flattenValidationErrors(ve)
	}
	return nil
}

// flattenValidationErrors walks the nested Causes tree santhosh-tekuri
// produces for a single Validate call into one flat slice, each entry
// carrying its own instance location.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*ValidationError {
	var out []*ValidationError
	if len(ve.Causes) == 0 {
		out = append(out, &ValidationError{
			Path:    strings.Join(ve.InstanceLocation, "/"),
			Message: ve.Error(),
		})
		return out
	}
	for _, cause := range ve.Causes {
		out = append(out, flattenValidationErrors(cause)...)
	}
	return out
}
