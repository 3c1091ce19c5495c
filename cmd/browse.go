package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"catalog-cli/internal/api"
	"catalog-cli/internal/tui"
)

var browseFilter api.Filter

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse characters interactively",
	Long: `Opens a scrollable character list. More pages load as the selection nears
the end of the list.
Keys: / search, enter details, ctrl+r reset, r retry, q quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		defer logger.Sync() //nolint:errcheck

		client := newClient()
		coord := newCoordinator(client, client, browseFilter, logger)
		model := tui.New(cmd.Context(), coord, client, logger)

		logger.Info("browser started", zap.String("base_url", client.BaseLocator()))
		if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
			return fmt.Errorf("browser failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	addFilterFlags(browseCmd, &browseFilter)
}
