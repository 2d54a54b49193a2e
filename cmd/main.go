package main

import (
	"fmt"
	"os"

	"github.com/Uzzzi-bit/DX-Ontime-Project/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nutrition",
		Short:         "Meal nutrition resolution and aggregation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newResolveCmd(), newSeedCmd())
	return root
}

// loadEnv reads process settings and the nutrition tunables.
func loadEnv() (*config.Config, *config.NutritionConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	nc, err := config.LoadNutritionConfig(cfg.NutritionConfigPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, nc, nil
}
