package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/facereg/internal/facematch"
	"github.com/kozaktomas/facereg/internal/workflow"
	"github.com/spf13/cobra"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <descriptor.json>",
	Short: "Identify a face descriptor against registered identities",
	Long: `Find the registered identity nearest to the given descriptor.
The identity is reported only if its distance is below the threshold.

The file holds a JSON array of numbers or {"descriptor": [...]}; use "-"
to read from stdin.

Examples:
  facereg recognize face.json
  facereg recognize face.json --threshold 0.5 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

var checkCmd = &cobra.Command{
	Use:   "check <descriptor.json>",
	Short: "Check whether a face descriptor is already registered",
	Long: `Report the first registered identity (in registration order) whose
distance to the given descriptor is below the threshold. This is the
pre-registration duplicate check, not a best match.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)
	rootCmd.AddCommand(checkCmd)

	for _, c := range []*cobra.Command{recognizeCmd, checkCmd} {
		c.Flags().Float64("threshold", 0, "Match threshold (0 = MATCH_THRESHOLD)")
		c.Flags().Bool("json", false, "Output as JSON")
	}
}

// MatchOutput is the JSON output of recognize and check
type MatchOutput struct {
	Match     bool     `json:"match"`
	ID        int64    `json:"id,omitempty"`
	Name      string   `json:"name,omitempty"`
	PhotoPath string   `json:"photo_path,omitempty"`
	Distance  *float64 `json:"distance,omitempty"`
	Threshold float64  `json:"threshold"`
}

func newMatchOutput(match *facematch.Match, threshold float64) MatchOutput {
	out := MatchOutput{Threshold: threshold}
	if match != nil {
		distance := match.Distance
		out.Match = true
		out.ID = match.Identity.ID
		out.Name = match.Identity.Name
		out.PhotoPath = match.Identity.PhotoPath
		out.Distance = &distance
	}
	return out
}

func printMatch(out MatchOutput, noMatch string) {
	if !out.Match {
		fmt.Printf("%s (threshold %.3f)\n", noMatch, out.Threshold)
		return
	}
	fmt.Printf("Identity: %s (id %d)\n", out.Name, out.ID)
	fmt.Printf("Distance: %.4f (threshold %.3f)\n", *out.Distance, out.Threshold)
	fmt.Printf("Photo:    %s\n", out.PhotoPath)
}

func runMatchCommand(cmd *cobra.Command, path string, find func(ctx context.Context, cfgThreshold float64, descriptor []float32) (*facematch.Match, float64, error), noMatch string) error {
	descriptor, err := readDescriptor(path)
	if err != nil {
		return err
	}

	match, threshold, err := find(context.Background(), mustGetFloat64(cmd, "threshold"), descriptor)
	if err != nil {
		return err
	}

	out := newMatchOutput(match, threshold)
	if mustGetBool(cmd, "json") {
		return outputJSON(out)
	}
	printMatch(out, noMatch)
	return nil
}

func runRecognize(cmd *cobra.Command, args []string) error {
	return runMatchCommand(cmd, args[0], func(ctx context.Context, threshold float64, descriptor []float32) (*facematch.Match, float64, error) {
		cfg := loadConfig()
		if threshold > 0 {
			cfg.Matching.Threshold = threshold
		}

		store, err := openStore(ctx, cfg)
		if err != nil {
			return nil, 0, err
		}
		defer store.Close()

		match, err := workflow.NewRecognition(store, &cfg.Matching, newLogger(cfg)).Recognize(ctx, descriptor)
		return match, cfg.Matching.Threshold, err
	}, "Face not recognized")
}

func runCheck(cmd *cobra.Command, args []string) error {
	return runMatchCommand(cmd, args[0], func(ctx context.Context, threshold float64, descriptor []float32) (*facematch.Match, float64, error) {
		cfg := loadConfig()
		if threshold > 0 {
			cfg.Matching.Threshold = threshold
		}

		store, photos, err := openBackends(ctx, cfg)
		if err != nil {
			return nil, 0, err
		}
		defer store.Close()

		match, err := workflow.NewRegistration(store, photos, cfg, newLogger(cfg)).CheckDuplicate(ctx, descriptor)
		return match, cfg.Matching.Threshold, err
	}, "Face is not registered")
}
