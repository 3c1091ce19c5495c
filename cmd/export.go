package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"catalog-cli/internal/api"
	"catalog-cli/internal/output"
)

var (
	exportFilter  api.Filter
	exportMax     int
	exportOutput  string
	exportOutFile string
	exportSilent  bool
)

var exportCmd = &cobra.Command{
	Use:   "export [name]",
	Short: "Fetch every page of a listing and save it to the result directory",
	Long: `Walks the listing page by page until the API reports no next page (or --max
records are loaded) and writes the result to the local 'result' directory.
If a later page fails, the records fetched so far are still saved and the
file is marked incomplete.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := output.CheckFormat(exportOutput); err != nil {
			return err
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}

		logger := newLogger()
		defer logger.Sync() //nolint:errcheck
		client := newClient()
		coord := newCoordinator(batchFetcher(client), client, exportFilter, logger)

		var progress io.Writer = os.Stderr
		if exportSilent {
			progress = io.Discard
		}
		fmt.Fprintf(progress, "Exporting characters for %q (max: %d)...\n", query, exportMax)

		res, err := collect(cmd.Context(), coord, query, 0, exportMax, progress)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		file := exportOutFile
		if file == "" {
			name := query
			if name == "" {
				name = "characters"
			}
			file = output.SanitizeFilename(name) + output.Extension(exportOutput)
		}
		path, err := output.SaveToFile(output.ResolvePath(file), res, exportOutput)
		if err != nil {
			return err
		}

		if exportSilent {
			fmt.Println(path)
			return nil
		}
		fmt.Fprintf(os.Stderr, "Saved %d records to %s\n", res.Total, path)
		if !res.Complete {
			fmt.Fprintln(os.Stderr, "Warning: export is incomplete.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addFilterFlags(exportCmd, &exportFilter)
	exportCmd.Flags().IntVar(&exportMax, "max", 0, "Max records to export (0 means all)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "json", "Output format: json, csv, text, toml")
	exportCmd.Flags().StringVarP(&exportOutFile, "file", "f", "", "Output file name (default derived from the search text)")
	exportCmd.Flags().BoolVar(&exportSilent, "silent", false, "Only print the saved file path")
}
