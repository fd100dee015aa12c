package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nouveaubot/nouveaubot/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // rewrite golden transcripts
	Filter string // glob over scenario names
}

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult summarizes a test run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r *TestResult) add(sr ScenarioResult) {
	r.Scenarios = append(r.Scenarios, sr)
	if sr.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

func (r TestResult) failure() error {
	if r.Failed == 0 {
		return nil
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", r.Failed))
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Replay conversation scenarios",
		Long: `Replay conversation scenarios against a fresh bot.

Each scenario runs with its own database. If <scenarios-dir>/golden holds
a transcript for the scenario, the replay must reproduce it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  nouveaubot test ./scenarios
  nouveaubot test ./scenarios --filter "config_*"
  nouveaubot test ./scenarios --update`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &scenarioRunner{opts: opts, cmd: cmd, dir: args[0]}
			return r.run()
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden transcripts")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose name matches this glob")

	return cmd
}

// scenarioRunner replays every scenario of one directory.
type scenarioRunner struct {
	opts    *TestOptions
	cmd     *cobra.Command
	dir     string
	workDir string
}

func (r *scenarioRunner) run() error {
	info, err := os.Stat(r.dir)
	if err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", r.dir))
	}

	files, err := scenarioFiles(r.dir, r.opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list scenarios", err)
	}

	result := TestResult{Scenarios: []ScenarioResult{}, Total: len(files)}
	if len(files) == 0 {
		return r.report(result)
	}

	r.workDir, err = os.MkdirTemp("", "nouveaubot-test-*")
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create work directory", err)
	}
	defer os.RemoveAll(r.workDir)

	for _, file := range files {
		sr := r.scenario(file)
		if r.opts.Format != "json" {
			printScenarioResult(r.cmd.OutOrStdout(), sr)
		}
		result.add(sr)
	}
	return r.report(result)
}

// scenario replays one file and checks its golden transcript, if any.
func (r *scenarioRunner) scenario(file string) ScenarioResult {
	fail := func(name, format string, args ...any) ScenarioResult {
		return ScenarioResult{Name: name, Errors: []string{fmt.Sprintf(format, args...)}}
	}

	sc, err := harness.LoadScenario(file)
	if err != nil {
		return fail(filepath.Base(file), "failed to load scenario: %v", err)
	}

	res, err := harness.Run(r.cmd.Context(), sc, r.workDir)
	if err != nil {
		return fail(sc.Name, "execution failed: %v", err)
	}

	transcript, err := harness.MarshalTranscript(res)
	if err != nil {
		return fail(sc.Name, "failed to marshal transcript: %v", err)
	}

	golden := goldenPath(file)
	if r.opts.Update {
		if err := writeGolden(golden, transcript); err != nil {
			return fail(sc.Name, "failed to update golden file: %v", err)
		}
		r.opts.VerboseLog(r.cmd, "golden updated: %s", golden)
		return ScenarioResult{Name: sc.Name, Pass: res.Pass, Errors: res.Errors}
	}

	want, err := os.ReadFile(golden)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.opts.VerboseLog(r.cmd, "no golden file for %s", sc.Name)
	case err != nil:
		res.AddError(fmt.Sprintf("failed to read golden file: %v", err))
	case !bytes.Equal(want, transcript):
		res.AddError("transcript does not match golden file (run with --update to regenerate)")
	}
	return ScenarioResult{Name: sc.Name, Pass: res.Pass, Errors: res.Errors}
}

func (r *scenarioRunner) report(result TestResult) error {
	w := r.cmd.OutOrStdout()

	if r.opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if result.Failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeFailed,
				Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return result.failure()
	}

	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	fmt.Fprintf(w, "\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if err := result.failure(); err != nil {
		return err
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}

// VerboseLog writes a diagnostic line to stderr in verbose mode.
func (o *TestOptions) VerboseLog(cmd *cobra.Command, format string, args ...any) {
	f := &OutputFormatter{Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: o.Verbose}
	f.VerboseLog(format, args...)
}

// scenarioFiles lists the YAML files directly inside dir, sorted, keeping
// those whose base name matches filter.
func scenarioFiles(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			ok, err := filepath.Match(filter, strings.TrimSuffix(e.Name(), ext))
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !ok {
				continue
			}
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)
	return files, nil
}

// goldenPath maps dir/name.yaml to dir/golden/name.golden.
func goldenPath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func printScenarioResult(w io.Writer, sr ScenarioResult) {
	if sr.Pass {
		fmt.Fprintf(w, "✓ %s\n", sr.Name)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", sr.Name)
	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}
