// Package schema generates and validates JSON Schema documents for the
// on-disk shapes this repository reads: chain config files and task
// frontmatter.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/forkhestra/forkhestra/internal/chainspec"
	"github.com/forkhestra/forkhestra/internal/task"
)

// ChainConfigSchemaID and TaskSchemaID are the $id values embedded in the
// generated documents, used as resource names when compiling with the
// validator.
const (
	ChainConfigSchemaID = "https://forkhestra.dev/schemas/chain-config-v1.json"
	TaskSchemaID        = "https://forkhestra.dev/schemas/task-v1.json"
)

// GenerateChainConfigSchema reflects chainspec.ChainSpec into a JSON
// Schema document describing a single chain entry of forge/chains.json.
func GenerateChainConfigSchema() ([]byte, error) {
	return reflectSchema(&chainspec.ChainSpec{}, ChainConfigSchemaID,
		"Forkhestra Chain Spec", "Schema for a single chain entry in forge/chains.json")
}

// GenerateTaskSchema reflects task.Task into a JSON Schema document
// describing the fields a task file's frontmatter plus body may carry.
func GenerateTaskSchema() ([]byte, error) {
	return reflectSchema(&task.Task{}, TaskSchemaID,
		"Forge Task", "Schema for a single task record managed by the task store")
}

func reflectSchema(v any, id, title, description string) ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(v)
	s.ID = jsonschema.ID(id)
	s.Title = title
	s.Description = description

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
