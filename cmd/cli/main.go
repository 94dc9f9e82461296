package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aguxez/foodplates/api"
	"github.com/aguxez/foodplates/config"
	"github.com/aguxez/foodplates/dashboard"
	"github.com/aguxez/foodplates/logging"
)

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		apiURL  string
	)

	cmd := &cobra.Command{
		Use:          "foodplates-cli",
		Short:        "Manage the restaurant's food plates from the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.Path(cfgPath))
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.Client.APIURL = apiURL
			}

			log, closer, err := logging.NewFile("foodplates-cli", cfg.Log.Level, cfg.Client.LogFile)
			if err != nil {
				return err
			}
			defer closer.Close()

			client := api.NewClient(cfg.Client.APIURL, cfg.Client.RequestTimeout)
			ctrl := dashboard.NewController(client, log)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			log.Info().Str("api", cfg.Client.APIURL).Msg("dashboard starting")
			p := tea.NewProgram(initialModel(ctx, ctrl, client, cfg.Client.Currency, log), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to foodplates.toml (default $FOODPLATES_CONFIG or ./foodplates.toml)")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "backend base URL, overrides client.api_url")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
