package main

import (
	"github.com/Uzzzi-bit/DX-Ontime-Project/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference nutrient rows into the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, nc, err := loadEnv()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, nc, false)
			if err != nil {
				return err
			}
			defer a.close()

			refs, err := config.LoadReferenceSeed(file)
			if err != nil {
				return err
			}
			if err := a.refs.SeedReferences(cmd.Context(), refs); err != nil {
				return err
			}
			a.log.Info("reference foods seeded", zap.Int("rows", len(refs)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (defaults to the bundled starter set)")
	return cmd
}
