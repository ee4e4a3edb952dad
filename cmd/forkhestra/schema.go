package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/chainspec"
	"github.com/forkhestra/forkhestra/pkg/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print or validate against the chain config JSON Schema",
}

var schemaPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the generated JSON Schema for a chain entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := schema.GenerateChainConfigSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var schemaValidateCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Validate every chain in the config file against the generated schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := chainspec.Load(flagCwd)
		if err != nil {
			return err
		}
		var failed int
		for name, chain := range cfg.Chains {
			errs := schema.ValidateChainSpec(chain)
			if len(errs) == 0 {
				continue
			}
			failed++
			fmt.Printf("%s:\n", name)
			for _, e := range errs {
				fmt.Printf("  %s\n", e.Error())
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d chain(s) in %s failed schema validation", failed, path)
		}
		fmt.Printf("all chains in %s are valid\n", path)
		return nil
	},
}

func init() {
	schemaCmd.AddCommand(schemaPrintCmd, schemaValidateCmd)
	rootCmd.AddCommand(schemaCmd)
}
