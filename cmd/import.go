package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kozaktomas/facereg/internal/workflow"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.jsonl>",
	Short: "Bulk-register identities from a JSON Lines file",
	Long: `Register identities from a JSON Lines file, one identity per line:

  {"name": "Alice", "descriptor": [0.01, ...], "photo": "data:image/jpeg;base64,..."}
  {"name": "Bob", "descriptor": [0.02, ...], "photo_file": "photos/bob.jpg"}

photo_file paths are resolved relative to the import file. Each line goes
through the same validation and photo storage as the HTTP register endpoint.

Examples:
  facereg import people.jsonl
  facereg import people.jsonl --fail-fast --json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Bool("fail-fast", false, "Stop at the first failed line")
	importCmd.Flags().Bool("json", false, "Output as JSON")
}

// ImportLine is one identity in an import file
type ImportLine struct {
	Name       string    `json:"name"`
	Descriptor []float32 `json:"descriptor"`
	Photo      string    `json:"photo"`
	PhotoFile  string    `json:"photo_file"`
}

// ImportError describes a line that could not be registered
type ImportError struct {
	Line  int    `json:"line"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error"`
}

// ImportResult is the summary of an import run
type ImportResult struct {
	Total      int           `json:"total"`
	Registered int           `json:"registered"`
	Failed     int           `json:"failed"`
	Errors     []ImportError `json:"errors,omitempty"`
}

// parseImportLine decodes a line and inlines photo_file as base64.
func parseImportLine(data []byte, baseDir string) (*ImportLine, error) {
	var line ImportLine
	if err := json.Unmarshal(data, &line); err != nil {
		return nil, fmt.Errorf("%w: %v", workflow.ErrInvalidInput, err)
	}
	if line.Photo == "" && line.PhotoFile != "" {
		path := line.PhotoFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		photo, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading photo_file: %v", workflow.ErrInvalidInput, err)
		}
		line.Photo = base64.StdEncoding.EncodeToString(photo)
	}
	return &line, nil
}

// splitLines returns the non-blank lines of data with their 1-based numbers.
func splitLines(data []byte) ([][]byte, []int) {
	var lines [][]byte
	var numbers []int
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		lines = append(lines, line)
		numbers = append(numbers, i+1)
	}
	return lines, numbers
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	failFast := mustGetBool(cmd, "fail-fast")
	jsonOutput := mustGetBool(cmd, "json")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}
	lines, numbers := splitLines(data)
	if len(lines) == 0 {
		return errors.New("import file contains no identities")
	}

	cfg := loadConfig()
	ctx := context.Background()

	store, photos, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	registration := workflow.NewRegistration(store, photos, cfg, newLogger(cfg))
	baseDir := filepath.Dir(path)
	result := ImportResult{Total: len(lines)}

	var bar *progressbar.ProgressBar
	if !jsonOutput {
		bar = progressbar.NewOptions(len(lines),
			progressbar.OptionSetDescription("Registering"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("faces"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	for i, raw := range lines {
		err := importLine(ctx, registration, raw, baseDir)
		if bar != nil {
			bar.Add(1)
		}
		if err == nil {
			result.Registered++
			continue
		}

		result.Failed++
		importErr := ImportError{Line: numbers[i], Error: err.Error()}
		var line ImportLine
		if json.Unmarshal(raw, &line) == nil {
			importErr.Name = line.Name
		}
		result.Errors = append(result.Errors, importErr)

		if failFast {
			break
		}
	}

	if jsonOutput {
		return outputJSON(result)
	}

	fmt.Printf("\nRegistered %d of %d identities", result.Registered, result.Total)
	if result.Failed > 0 {
		fmt.Printf(", %d failed:\n", result.Failed)
		for _, e := range result.Errors {
			fmt.Printf("  line %d (%s): %s\n", e.Line, e.Name, e.Error)
		}
	} else {
		fmt.Println()
	}

	if result.Failed > 0 && failFast {
		return fmt.Errorf("import stopped at line %d", result.Errors[len(result.Errors)-1].Line)
	}
	return nil
}

func importLine(ctx context.Context, registration *workflow.Registration, raw []byte, baseDir string) error {
	line, err := parseImportLine(raw, baseDir)
	if err != nil {
		return err
	}
	_, err = registration.Register(ctx, workflow.RegisterRequest{
		Name:       line.Name,
		Descriptor: line.Descriptor,
		Photo:      line.Photo,
	})
	return err
}
