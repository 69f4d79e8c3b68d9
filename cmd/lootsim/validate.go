package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/lootforge/internal/config"
	"github.com/cory-johannsen/lootforge/internal/game/dataset"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the authored loot dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		ds, err := dataset.Load(cfg.Dataset.Dir)
		if err != nil {
			return fmt.Errorf("loading dataset: %w", err)
		}
		if err := dataset.Validate(ds); err != nil {
			return err
		}

		idx := dataset.BuildIndex(ds)
		fmt.Printf("dataset %s: %d tables, %d parts, %d items, %d uniques, %d manufacturers\n",
			cfg.Dataset.Dir, len(idx.Tables()), len(ds.Parts), len(ds.Items), len(ds.Uniques), len(ds.Manufacturers))
		return nil
	},
}
