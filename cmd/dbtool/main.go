// dbtool seeds or clears the booking service's data file.
package main

import (
	"os"
	"time"

	"bronidom/internal/config"
	"bronidom/internal/seed"
	"bronidom/internal/store"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	var dataPath string

	rootCmd := &cobra.Command{
		Use:          "dbtool",
		Short:        "Manage the amenity booking data file",
		SilenceUsage: false,
	}
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "path to the data file (default from config)")

	openStore := func() (*store.Store, error) {
		if dataPath == "" {
			cfg, err := config.Load(os.Getenv("BRONIDOM_CONFIG_PATH"))
			if err != nil {
				return nil, err
			}
			dataPath = cfg.Database.Path
		}
		return store.New(dataPath, &logger), nil
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Populate the data file with demonstration users, amenities and bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			return seed.Seed(st, &logger)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Reset the data file to the empty dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			return seed.Clear(st, &logger)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
