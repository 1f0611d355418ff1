package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uniedit/seeder/internal/app"
	"github.com/uniedit/seeder/internal/infra/config"
	apperrors "github.com/uniedit/seeder/internal/shared/errors"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "seeder",
		Short:         "One-shot content migrations for the uniedit CMS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the config file (default: search ./, ./configs, /etc/uniedit)")

	cmd.AddCommand(newBannersCmd(opts))
	return cmd
}

func newBannersCmd(root *rootOptions) *cobra.Command {
	var itemsPath string

	cmd := &cobra.Command{
		Use:   "banners",
		Short: "Seed homepage banners once, downloading and publishing their images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return apperrors.Config("load config", err)
			}

			seeder, cleanup, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			defer func() { _ = seeder.Logger.Sync() }()

			result, err := seeder.Run(cmd.Context(), itemsPath)
			if err != nil {
				return err
			}

			seeder.Logger.Info("Banner seed finished",
				zap.String("state", string(result.State)),
				zap.Int("created", result.Created),
				zap.Int("image_failures", result.ImageFailures),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "banners: %s (%d created)\n", result.State, result.Created)
			return nil
		},
	}
	cmd.Flags().StringVar(&itemsPath, "items", "", "YAML file with the banners to seed (overrides seed.items_file)")

	return cmd
}
