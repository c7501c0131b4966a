package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"railspect/internal/analyzer"
	"railspect/internal/baseline"
	"railspect/internal/config"
	"railspect/internal/logging"
	"railspect/internal/reporter"
	"railspect/internal/scanner"
	"railspect/internal/suppress"
)

var (
	startDir    string
	verbose     bool
	cfg         config.Config
	toolVersion string
)

// ExitError carries a specific process exit code through RunE.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func newRootCmd(version string) *cobra.Command {
	toolVersion = version

	root := &cobra.Command{
		Use:           "railspect",
		Short:         "Static Rails/PostgreSQL performance analyzer",
		Long:          "Analyzes schema.rb, ActiveRecord call sites, and database.yml for indexing gaps, N+1 query patterns, and risky connection settings. All analysis is static: no database connection is made.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(verbose, cmd.ErrOrStderr())

			cwd, err := os.Getwd()
			if err != nil {
				cwd = "."
			}
			cfg, err = config.Load(cwd)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			slog.Debug("config loaded", "path", cwd)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&startDir, "root", ".", "directory inside the Rails application (the root is discovered upward from here)")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")

	root.AddCommand(newVersionCmd(version))
	root.AddCommand(newIndexesCmd())
	root.AddCommand(newNPlusOneCmd())
	root.AddCommand(newDBConfigCmd())
	root.AddCommand(newCheckCmd())

	return root
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "railspect "+version)
		},
	}
}

// reportFlags are the output and filtering flags shared by every
// analysis command.
type reportFlags struct {
	format         string
	baselinePath   string
	updateBaseline string
}

func (rf *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rf.format, "format", "text", "output format: text, json, or sarif")
	cmd.Flags().StringVar(&rf.baselinePath, "baseline", "", "path to baseline file (suppress known findings)")
	cmd.Flags().StringVar(&rf.updateBaseline, "update-baseline", "", "save current findings as new baseline")
}

// writeReport applies baseline and suppression filters, writes the
// report, and returns the filtered findings for exit-code decisions.
func writeReport(cmd *cobra.Command, command string, findings []analyzer.Finding, rf *reportFlags) ([]analyzer.Finding, error) {
	format := rf.format
	if !cmd.Flags().Changed("format") && cfg.Defaults.Format != "" {
		format = cfg.Defaults.Format
	}

	// Save baseline before filtering
	if rf.updateBaseline != "" {
		if err := baseline.Save(rf.updateBaseline, findings); err != nil {
			return nil, fmt.Errorf("save baseline: %w", err)
		}
		slog.Info("baseline saved", "path", rf.updateBaseline, "findings", len(findings))
	}

	findings, totalSuppressed, err := filterFindings(findings, rf.baselinePath)
	if err != nil {
		return nil, err
	}

	report := reporter.NewReport(command, toolVersion, findings)
	if totalSuppressed > 0 {
		slog.Info("findings filtered", "total", report.Summary.Total+totalSuppressed, "suppressed", totalSuppressed)
	}

	if err := reporter.Write(cmd.OutOrStdout(), &report, reporter.Format(format)); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return report.Findings, nil
}

// filterFindings applies baseline and suppression rules to findings.
func filterFindings(findings []analyzer.Finding, baselinePath string) ([]analyzer.Finding, int, error) {
	totalSuppressed := 0

	if baselinePath != "" {
		bl, err := baseline.Load(baselinePath)
		if err != nil {
			return nil, 0, fmt.Errorf("load baseline: %w", err)
		}
		var n int
		findings, n = bl.Filter(findings)
		totalSuppressed += n
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	rules, err := suppress.LoadRules(cwd)
	if err != nil {
		return nil, 0, fmt.Errorf("load suppress rules: %w", err)
	}
	rules.WithConfigExcludes(cfg.Exclude.Findings, cfg.Exclude.Tables)

	var n int
	findings, n = rules.Filter(findings)
	totalSuppressed += n

	return findings, totalSuppressed, nil
}

// reportScanErrors surfaces per-file read failures on the diagnostic
// stream without failing the run.
func reportScanErrors(errs []scanner.FileError) {
	for _, fe := range errs {
		slog.Warn("file skipped", "path", fe.Path, "err", fe.Err)
	}
}

// shouldFailOn returns true if any finding matches the fail-on criteria.
// Criteria can be finding types (missing_foreign_key_index) or severity
// levels (warning, info).
func shouldFailOn(findings []analyzer.Finding, failOn string) bool {
	types := make(map[string]bool)
	severities := make(map[string]bool)

	for _, p := range strings.Split(failOn, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lower := strings.ToLower(p)
		switch lower {
		case "warning", "info":
			severities[lower] = true
		default:
			types[lower] = true
		}
	}

	for i := range findings {
		if types[strings.ToLower(string(findings[i].Type))] {
			return true
		}
		if severities[string(findings[i].Severity)] {
			return true
		}
	}
	return false
}

func connectionOptsFromConfig() analyzer.ConnectionOptions {
	opts := analyzer.DefaultConnectionOptions()
	if cfg.Thresholds.PoolMin > 0 {
		opts.PoolMin = cfg.Thresholds.PoolMin
	}
	if cfg.Thresholds.PoolMax > 0 {
		opts.PoolMax = cfg.Thresholds.PoolMax
	}
	return opts
}

// Execute runs the root command.
func Execute(version string) error {
	err := newRootCmd(version).Execute()
	if err != nil {
		var ee *ExitError
		if !errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	return err
}
