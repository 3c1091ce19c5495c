package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"catalog-cli/internal/api"
	"catalog-cli/internal/catalog"
	"catalog-cli/internal/output"
)

var (
	listFilter  api.Filter
	listPages   int
	listOutput  string
	listOutFile string
	listColumn  string
	listSilent  bool
)

var listCmd = &cobra.Command{
	Use:   "list [name]",
	Short: "List characters, optionally searching by name",
	Long: `Fetches the first page of characters (or --pages pages) and prints them.
Examples:
  catalog list
  catalog list rick --status alive
  catalog list --pages 3 -o csv -f characters.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if listPages < 1 {
			return fmt.Errorf("--pages must be at least 1")
		}
		if err := output.CheckFormat(listOutput); err != nil {
			return err
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}

		logger := newLogger()
		defer logger.Sync() //nolint:errcheck
		client := newClient()
		coord := newCoordinator(batchFetcher(client), client, listFilter, logger)

		var progress io.Writer = os.Stderr
		if listSilent {
			progress = io.Discard
		}
		res, err := collect(cmd.Context(), coord, query, listPages, 0, progress)
		if err != nil {
			return err
		}

		if listOutFile != "" {
			path, err := output.SaveToFile(output.ResolvePath(listOutFile), res, listOutput)
			if err != nil {
				return err
			}
			if listSilent {
				fmt.Println(path)
			} else {
				fmt.Fprintf(os.Stderr, "Saved output to %s\n", path)
			}
			return nil
		}
		if listSilent {
			return nil
		}
		return printResult(os.Stdout, res, listOutput, listColumn)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	addFilterFlags(listCmd, &listFilter)
	listCmd.Flags().IntVar(&listPages, "pages", 1, "Number of pages to fetch")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "text", "Output format: json, csv, text, toml")
	listCmd.Flags().StringVarP(&listOutFile, "file", "f", "", "Output file path (relative paths go to 'result/')")
	listCmd.Flags().StringVar(&listColumn, "column", "", "Print only one column (id, name, status, species, gender, origin, location, image)")
	listCmd.Flags().BoolVar(&listSilent, "silent", false, "Suppress console output")
}

// collect submits query and keeps appending until maxPages pages or
// maxRecords records (0 means no limit) are loaded, or the listing ends. Only
// a failure of the first page is returned; a later failure stops the walk
// and keeps what was already fetched.
func collect(ctx context.Context, coord *catalog.Coordinator, query string, maxPages, maxRecords int, progress io.Writer) (output.Result, error) {
	if err := coord.SubmitAndWait(ctx, query); err != nil {
		return output.Result{}, err
	}

	ctrl := coord.Controller()
	pages := 1
	for ctrl.HasMore() && (maxPages <= 0 || pages < maxPages) {
		if maxRecords > 0 && len(ctrl.Records()) >= maxRecords {
			break
		}
		fmt.Fprintf(progress, "\rFetched %d records...", len(ctrl.Records()))
		if err := coord.LoadMoreAndWait(ctx); err != nil {
			fmt.Fprintf(progress, "\nWarning: stopped at page %d: %v\n", pages+1, err)
			break
		}
		pages++
	}
	if pages > 1 {
		fmt.Fprintf(progress, "\rFetched %d records.   \n", len(ctrl.Records()))
	}

	snap := coord.Snapshot()
	records := snap.Records
	complete := !snap.HasMore && snap.Err == nil
	if maxRecords > 0 && len(records) > maxRecords {
		records = records[:maxRecords]
		complete = false
	}
	return output.Result{
		Query:    snap.Committed,
		Total:    len(records),
		Complete: complete,
		Records:  records,
	}, nil
}

func printResult(w io.Writer, res output.Result, format, column string) error {
	if column == "" {
		return output.Write(w, res, format)
	}
	values, err := output.Column(res.Records, column)
	if err != nil {
		return err
	}
	if format == "json" {
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	for _, v := range values {
		fmt.Fprintln(w, v)
	}
	return nil
}
