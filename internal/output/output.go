// Package output renders character lists for the non-interactive commands.
package output

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"catalog-cli/internal/api"
)

// ResultDir is where files land when no absolute path is given.
const ResultDir = "result"

var Formats = []string{"json", "csv", "text", "toml"}

// Result is the document written by the json and toml formats.
type Result struct {
	Query    string          `json:"query" toml:"query"`
	Total    int             `json:"total" toml:"total"`
	Complete bool            `json:"complete" toml:"complete"`
	Records  []api.Character `json:"records" toml:"records"`
}

// CheckFormat reports an error for a format Write does not know.
func CheckFormat(format string) error {
	for _, f := range Formats {
		if strings.EqualFold(f, format) {
			return nil
		}
	}
	return fmt.Errorf("unknown format: %s (known: %s)", format, strings.Join(Formats, ", "))
}

var csvHeader = []string{"ID", "Name", "Status", "Species", "Gender", "Origin", "Location"}

func row(c api.Character) []string {
	return []string{strconv.Itoa(c.ID), c.Name, c.Status, c.Species, c.Gender, c.Origin.Name, c.Location.Name}
}

// Write renders res in format.
func Write(w io.Writer, res Result, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "toml":
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(res)
	case "csv":
		writer := csv.NewWriter(w)
		if err := writer.Write(csvHeader); err != nil {
			return err
		}
		for _, c := range res.Records {
			if err := writer.Write(row(c)); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	case "text":
		writer := bufio.NewWriter(w)
		for _, c := range res.Records {
			fmt.Fprintf(writer, "%d\t%s\t%s - %s\t%s\n", c.ID, c.Name, c.Status, c.Species, c.Location.Name)
		}
		return writer.Flush()
	default:
		return CheckFormat(format)
	}
}

// Column extracts one field from every record, deduplicated and sorted.
func Column(records []api.Character, column string) ([]string, error) {
	var get func(api.Character) string
	switch strings.ToLower(column) {
	case "id":
		get = func(c api.Character) string { return strconv.Itoa(c.ID) }
	case "name":
		get = func(c api.Character) string { return c.Name }
	case "status":
		get = func(c api.Character) string { return c.Status }
	case "species":
		get = func(c api.Character) string { return c.Species }
	case "gender":
		get = func(c api.Character) string { return c.Gender }
	case "origin":
		get = func(c api.Character) string { return c.Origin.Name }
	case "location":
		get = func(c api.Character) string { return c.Location.Name }
	case "image":
		get = func(c api.Character) string { return c.Image }
	default:
		return nil, fmt.Errorf("unknown column: %s", column)
	}

	seen := make(map[string]bool)
	var values []string
	for _, c := range records {
		v := get(c)
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values, nil
}

// SaveToFile writes res to path, creating parent directories, and returns
// the absolute path written.
func SaveToFile(path string, res Result, format string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := Write(file, res, format); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

var unsafeChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizeFilename replaces characters that are unsafe in file names.
func SanitizeFilename(name string) string {
	safe := unsafeChars.ReplaceAllString(name, "_")
	safe = strings.Trim(safe, " .")
	if safe == "" {
		return "characters"
	}
	return safe
}

// ResolvePath puts relative paths under ResultDir.
func ResolvePath(path string) string {
	if filepath.IsAbs(path) || strings.HasPrefix(path, ResultDir+string(os.PathSeparator)) || strings.HasPrefix(path, ResultDir+"/") {
		return path
	}
	return filepath.Join(ResultDir, path)
}

// Extension maps a format to its file extension.
func Extension(format string) string {
	if strings.ToLower(format) == "text" {
		return ".txt"
	}
	return "." + strings.ToLower(format)
}
