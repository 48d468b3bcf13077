package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/strand-dev/strand/internal/config"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create a strand.json in the current directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Exists(".") && !force {
				return fmt.Errorf("strand.json already exists (use --force to overwrite)")
			}

			cfg := config.New()
			if len(args) > 0 {
				cfg.Name = args[0]
			}

			path := filepath.Join(".", config.ConfigFileName)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}

			success("wrote %s", path)
			info("run 'strand serve' to start the demo application")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing strand.json")

	return cmd
}
