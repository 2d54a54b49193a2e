package main

import (
	"encoding/json"
	"os"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve FOOD...",
		Short: "Resolve food names and print their nutrition as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, nc, err := loadEnv()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, nc, true)
			if err != nil {
				return err
			}
			defer a.close()

			items := make([]models.FoodItem, len(args))
			for i, name := range args {
				items[i] = models.FoodItem{Name: name, Confidence: 1}
			}
			results, err := a.foods.Resolve(cmd.Context(), items)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}
}
