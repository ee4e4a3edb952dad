package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/task"
	"github.com/forkhestra/forkhestra/pkg/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print or validate against the task JSON Schema",
}

var schemaPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the generated JSON Schema for a task record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := schema.GenerateTaskSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var schemaValidateCmd = &cobra.Command{
	Use:   "validate <ID>",
	Short: "Validate one task against the generated schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := task.Open(flagRoot)
		if err != nil {
			return err
		}
		t, err := s.Get(args[0])
		if err != nil {
			return err
		}
		errs := schema.ValidateTask(t)
		if len(errs) == 0 {
			fmt.Printf("%s is valid\n", t.ID)
			return nil
		}
		for _, e := range errs {
			fmt.Println(e.Error())
		}
		return fmt.Errorf("%s failed schema validation", t.ID)
	},
}

func init() {
	schemaCmd.AddCommand(schemaPrintCmd, schemaValidateCmd)
}
