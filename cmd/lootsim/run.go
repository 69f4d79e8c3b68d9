package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/lootforge/internal/config"
	"github.com/cory-johannsen/lootforge/internal/game/condition"
	"github.com/cory-johannsen/lootforge/internal/game/dataset"
	"github.com/cory-johannsen/lootforge/internal/game/loot"
	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/parts"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
	"github.com/cory-johannsen/lootforge/internal/observability"
	"github.com/cory-johannsen/lootforge/internal/simulation"
)

var (
	runTable      string
	runSource     string
	runZone       string
	runRolls      int
	runWorkers    int
	runSeed       int64
	runLevel      int
	runLuck       float64
	runDifficulty int
	runConditions []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a batch roll simulation against one loot table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		logger, err := observability.NewLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		ds, err := dataset.Load(cfg.Dataset.Dir)
		if err != nil {
			return fmt.Errorf("loading dataset: %w", err)
		}
		if err := dataset.Validate(ds); err != nil {
			return err
		}
		idx := dataset.BuildIndex(ds)
		logger.Info("dataset loaded",
			zap.String("dir", cfg.Dataset.Dir),
			zap.Int("tables", len(idx.Tables())),
			zap.Int("parts", len(ds.Parts)),
			zap.Int("uniques", len(ds.Uniques)),
		)

		flags, err := condition.Parse(runConditions)
		if err != nil {
			return err
		}

		composer := parts.NewComposer(idx, idx.GlobalDistribution(), logger)
		engine := loot.NewEngine(idx, composer, logger)
		runner := simulation.NewRunner(engine, idx, logger)

		runCfg := simulation.RunConfig{
			TableID: runTable,
			Rolls:   orInt(runRolls, cfg.Simulation.Rolls),
			Workers: orInt(runWorkers, cfg.Simulation.Workers),
			Seed:    orInt64(runSeed, cfg.Simulation.Seed),
			Roll: loot.RollContext{
				SourceID:       runSource,
				Zone:           runZone,
				PlayerLevel:    orInt(runLevel, cfg.Simulation.PlayerLevel),
				Luck:           runLuck,
				DifficultyTier: orInt(runDifficulty, cfg.Simulation.Difficulty),
				ActiveFlags:    flags,
			},
		}

		report, err := runner.Run(cmd.Context(), runCfg)
		if err != nil {
			return err
		}
		printReport(report)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runTable, "table", "", "loot table id to roll (required)")
	runCmd.Flags().StringVar(&runSource, "source", "", "source id for dedicated unique rolls")
	runCmd.Flags().StringVar(&runZone, "zone", "", "zone id for zone-restricted tables")
	runCmd.Flags().IntVar(&runRolls, "rolls", 0, "number of rolls (0 = config default)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "parallel workers (0 = config default)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "base RNG seed (0 = config default)")
	runCmd.Flags().IntVar(&runLevel, "level", 0, "player level (0 = config default)")
	runCmd.Flags().Float64Var(&runLuck, "luck", 0, "luck modifier")
	runCmd.Flags().IntVar(&runDifficulty, "difficulty", 0, "difficulty/mayhem tier (0 = config default)")
	runCmd.Flags().StringSliceVar(&runConditions, "conditions", nil, "active condition flags (coop, first_kill, ...)")
	_ = runCmd.MarkFlagRequired("table")
}

func printReport(report *simulation.Report) {
	fmt.Printf("run %s: table %s, %d rolls, %d workers, seed %d, %s\n",
		report.RunID, report.TableID, report.Rolls, report.Workers, report.Seed, report.Elapsed.Round(time.Millisecond))
	fmt.Printf("drops: %d (empty rolls: %d)\n", report.Tally.Drops, report.Tally.EmptyRolls)

	fmt.Println("by tier:")
	for _, tier := range rarity.All() {
		if n := report.Tally.ByTier[tier]; n > 0 {
			fmt.Printf("  %-12s %8d (%.4f%%)\n", tier, n, 100*float64(n)/float64(report.Tally.Drops))
		}
	}

	types := make([]loot.ItemType, 0, len(report.Tally.ByType))
	for t := range report.Tally.ByType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	fmt.Println("by type:")
	for _, t := range types {
		fmt.Printf("  %-12s %8d\n", t, report.Tally.ByType[t])
	}

	if len(report.Tally.ByManufacturer) > 0 {
		ids := make([]string, 0, len(report.Tally.ByManufacturer))
		for id := range report.Tally.ByManufacturer {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)
		fmt.Println("by manufacturer:")
		for _, id := range ids {
			fmt.Printf("  %-12s %8d\n", id, report.Tally.ByManufacturer[manufacturer.ID(id)])
		}
	}
}

func orInt(flag, fallback int) int {
	if flag != 0 {
		return flag
	}
	return fallback
}

func orInt64(flag, fallback int64) int64 {
	if flag != 0 {
		return flag
	}
	return fallback
}
