package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"catalog-cli/internal/api"
	"catalog-cli/internal/catalog"
	"catalog-cli/internal/config"
	"catalog-cli/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog CLI - browse the Rick and Morty character catalog",
	Long: `Catalog CLI lists, searches and exports characters from the Rick and Morty API
directly from your terminal, or browses them interactively with incremental loading.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(config.InitConfig)

	rootCmd.PersistentFlags().String("base-url", "", "Character endpoint (default from config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "Log file path, '-' for stderr")
	_ = viper.BindPFlag(config.BaseURL, rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag(config.LogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.LogFile, rootCmd.PersistentFlags().Lookup("log-file"))
}

func newClient() *api.Client {
	return api.NewClient(config.ClientOptions())
}

// newLogger falls back to a no-op logger so a bad log path never blocks a
// command.
func newLogger() *zap.Logger {
	logger, err := logging.New(config.GetLogLevel(), config.GetLogFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return zap.NewNop()
	}
	return logger
}

// newCoordinator wires the core to fetcher. Search text becomes the name
// filter; the remaining fields of base stay fixed for the whole session.
func newCoordinator(fetcher catalog.Fetcher, client *api.Client, base api.Filter, logger *zap.Logger) *catalog.Coordinator {
	ctrl := catalog.NewController(fetcher, logger)
	return catalog.NewCoordinator(ctrl, func(query string) string {
		f := base
		f.Name = query
		return client.FirstPage(f)
	})
}

// batchFetcher retries transient page failures. Only the non-interactive
// commands use it; in the browser a retry is the user's call.
func batchFetcher(client *api.Client) catalog.Fetcher {
	return api.NewRetrying(client, config.GetRetries(), 0)
}

func addFilterFlags(cmd *cobra.Command, f *api.Filter) {
	cmd.Flags().StringVar(&f.Status, "status", "", "Filter by status: alive, dead, unknown")
	cmd.Flags().StringVar(&f.Species, "species", "", "Filter by species")
	cmd.Flags().StringVar(&f.Type, "type", "", "Filter by type")
	cmd.Flags().StringVar(&f.Gender, "gender", "", "Filter by gender: female, male, genderless, unknown")
}
