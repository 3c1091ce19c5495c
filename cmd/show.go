package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"catalog-cli/internal/api"
	"catalog-cli/internal/output"
)

// showConcurrency bounds the number of detail requests in flight.
const showConcurrency = 4

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show [id]...",
	Short: "Show one or more characters by id",
	Long: `Fetches the full record of every id concurrently and prints them in the
order given.
Examples:
  catalog show 1
  catalog show 1 2 3 -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := output.CheckFormat(showOutput); err != nil {
			return err
		}
		ids := make([]int, len(args))
		for i, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", arg)
			}
			ids[i] = id
		}

		logger := newLogger()
		defer logger.Sync() //nolint:errcheck
		client := newClient()

		records := make([]api.Character, len(ids))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(showConcurrency)
		for i, id := range ids {
			g.Go(func() error {
				c, err := client.Character(ctx, id)
				if err != nil {
					logger.Warn("character fetch failed", zap.Int("id", id), zap.Error(err))
					return fmt.Errorf("character %d: %w", id, err)
				}
				records[i] = *c
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if showOutput == "text" {
			for i, c := range records {
				if i > 0 {
					fmt.Println()
				}
				printCharacter(c)
			}
			return nil
		}
		res := output.Result{Total: len(records), Complete: true, Records: records}
		return output.Write(os.Stdout, res, showOutput)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "text", "Output format: json, csv, text, toml")
}

func printCharacter(c api.Character) {
	fmt.Printf("%s (#%d)\n", c.Name, c.ID)
	fmt.Printf("  Status:   %s\n", c.Status)
	fmt.Printf("  Species:  %s\n", c.Species)
	if c.Type != "" {
		fmt.Printf("  Type:     %s\n", c.Type)
	}
	fmt.Printf("  Gender:   %s\n", c.Gender)
	fmt.Printf("  Origin:   %s\n", c.Origin.Name)
	fmt.Printf("  Location: %s\n", c.Location.Name)
	fmt.Printf("  Episodes: %d\n", len(c.Episode))
	if c.Image != "" {
		fmt.Printf("  Image:    %s\n", c.Image)
	}
}
