package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/task"
	"github.com/forkhestra/forkhestra/internal/taskcfg"
)

var (
	initPrefix  string
	initName    string
	initForce   bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create forge/tasks/ and write a fresh config file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initPrefix, "prefix", taskcfg.DefaultPrefix, "ID prefix for new tasks")
	initCmd.Flags().StringVar(&initName, "name", "", "project name recorded in config")
	initCmd.Flags().BoolVar(&initForce, "force", false, "reinitialize even if a config already exists")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := taskcfg.Config{Prefix: initPrefix, ProjectName: initName}
	s, err := task.Init(flagRoot, cfg, initForce)
	if err != nil {
		return err
	}
	fmt.Printf("initialized task store at %s (prefix %s)\n", task.TasksDir(s.Root), s.Cfg.EffectivePrefix())
	return nil
}
