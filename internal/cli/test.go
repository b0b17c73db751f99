package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/casehistory/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern)
	GoldenDir string // directory of <scenario name>.golden files
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name    string   `json:"name"`
	Pass    bool     `json:"pass"`
	Outcome string   `json:"outcome,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario-file-or-dir>...",
		Short: "Run purge scenarios",
		Long: `Run purge scenarios through the harness.

Each scenario imports its archive into a fresh in-memory database, runs the
purge through a recording store and checks its assertions. With --golden the
rendered trace is also compared against <golden-dir>/<scenario name>.golden.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  casehist test ./scenarios
  casehist test ./scenarios --filter "bulk_*"
  casehist test ./scenarios --golden ./golden --update
  casehist test ./scenarios/single_three_level.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "directory holding golden trace files")

	return cmd
}

func runTests(opts *TestOptions, paths []string, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts.RootOptions)

	if opts.Update && opts.GoldenDir == "" {
		return out.Fail(ExitCommandError, "E_USAGE", "--update requires --golden", nil, nil)
	}

	var scenarioFiles []string
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return out.Fail(ExitCommandError, "E_USAGE", fmt.Sprintf("scenario path not found: %s", path), nil, nil)
		}
		files, err := findScenarioFiles(path, opts.Filter)
		if err != nil {
			return out.Fail(ExitCommandError, "E_USAGE", "failed to find scenarios", err, nil)
		}
		scenarioFiles = append(scenarioFiles, files...)
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}

	if len(scenarioFiles) == 0 {
		if out.JSON() {
			return out.Success(result, "")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	for _, scenarioFile := range scenarioFiles {
		scenResult := runScenario(scenarioFile, opts, out)
		result.Scenarios = append(result.Scenarios, scenResult)

		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if out.JSON() {
		return outputTestJSON(out, result)
	}
	return outputTestText(out, result)
}

// findScenarioFiles returns path itself when it is a file, or every YAML file
// below it when it is a directory.
func findScenarioFiles(path string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// runScenario executes a single scenario and returns the result.
func runScenario(scenarioFile string, opts *TestOptions, out *OutputFormatter) ScenarioResult {
	fail := func(name string, errs ...string) ScenarioResult {
		if !out.JSON() {
			fmt.Fprintf(out.Writer, "✗ %s\n", name)
			for _, e := range errs {
				fmt.Fprintf(out.Writer, "  %s\n", e)
			}
		}
		return ScenarioResult{Name: name, Pass: false, Errors: errs}
	}

	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		return fail(filepath.Base(scenarioFile), fmt.Sprintf("failed to load scenario: %v", err))
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return fail(scenario.Name, fmt.Sprintf("execution error: %v", err))
	}
	out.VerboseLog("%s: %d calls, outcome %s", scenario.Name, len(result.Trace), result.Outcome)

	errs := result.Errors
	note := ""
	if opts.GoldenDir != "" {
		goldenPath := filepath.Join(opts.GoldenDir, scenario.Name+".golden")
		trace := harness.RenderTrace(scenario, result)
		switch {
		case opts.Update:
			if err := updateGoldenFile(goldenPath, trace); err != nil {
				return fail(scenario.Name, fmt.Sprintf("failed to update golden file: %v", err))
			}
			note = " (golden updated)"
		default:
			if msg := compareWithGolden(goldenPath, trace); msg != "" {
				errs = append(errs, msg)
			}
		}
	}

	if len(errs) > 0 {
		sr := fail(scenario.Name, errs...)
		sr.Outcome = result.Outcome
		return sr
	}
	if !out.JSON() {
		fmt.Fprintf(out.Writer, "✓ %s%s\n", scenario.Name, note)
	}
	return ScenarioResult{Name: scenario.Name, Pass: true, Outcome: result.Outcome}
}

// updateGoldenFile writes the rendered trace as the golden file.
func updateGoldenFile(goldenPath string, trace []byte) error {
	if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(goldenPath, trace, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// compareWithGolden returns an empty string when trace matches the golden
// file, and a failure message otherwise.
func compareWithGolden(goldenPath string, trace []byte) string {
	golden, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		return fmt.Sprintf("golden file missing: %s (run with --update to create)", goldenPath)
	}
	if err != nil {
		return fmt.Sprintf("failed to read golden file: %v", err)
	}
	if !bytes.Equal(golden, trace) {
		return "trace does not match golden file (run with --update to regenerate)"
	}
	return ""
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(out *OutputFormatter, result TestResult) error {
	if result.Failed == 0 {
		return out.Success(result, "")
	}

	if err := out.encode(CLIResponse{
		Status: "error",
		Data:   result,
		Error: &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		},
	}); err != nil {
		return err
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
}

// outputTestText outputs the test result as text.
func outputTestText(out *OutputFormatter, result TestResult) error {
	w := out.Writer

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
