package schema

import (
	"encoding/json"
	"testing"

	"github.com/forkhestra/forkhestra/internal/chainspec"
	"github.com/forkhestra/forkhestra/internal/task"
)

func TestGenerateChainConfigSchemaProducesValidJSON(t *testing.T) {
	data, err := GenerateChainConfigSchema()
	if err != nil {
		t.Fatalf("GenerateChainConfigSchema: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("generated schema is not valid JSON: %v", err)
	}
	if doc["title"] != "Forkhestra Chain Spec" {
		t.Errorf("title = %v, want Forkhestra Chain Spec", doc["title"])
	}
}

func TestGenerateTaskSchemaProducesValidJSON(t *testing.T) {
	data, err := GenerateTaskSchema()
	if err != nil {
		t.Fatalf("GenerateTaskSchema: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("generated schema is not valid JSON: %v", err)
	}
}

func TestValidateChainSpecAcceptsWellFormedChain(t *testing.T) {
	spec := chainspec.ChainSpec{
		Name: "build",
		Steps: []chainspec.Step{
			{Agent: "claude", MaxIterations: 1},
		},
	}
	if errs := ValidateChainSpec(spec); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateTaskAcceptsWellFormedTask(t *testing.T) {
	tk := task.Task{
		ID:     "TASK-1",
		Title:  "do the thing",
		Status: task.StatusTodo,
	}
	if errs := ValidateTask(tk); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}
