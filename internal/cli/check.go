package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"railspect/internal/analyzer"
	"railspect/internal/railsapp"
	"railspect/internal/scanner"
	"railspect/internal/schema"
)

func newCheckCmd() *cobra.Command {
	var (
		rf       reportFlags
		failOn   string
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run every analyzer in one pass (schema, queries, N+1, connection settings)",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := railsapp.FindRoot(startDir)
			if err != nil {
				return err
			}
			slog.Debug("rails root found", "path", root)

			var findings []analyzer.Finding

			content, err := railsapp.ReadSchema(root)
			if err != nil {
				return err
			}
			model := schema.Parse(content)
			slog.Info("schema parsed", "tables", len(model.Names))
			findings = append(findings, analyzer.AnalyzeSchema(model)...)

			scans := []struct {
				dir     string
				exts    []string
				analyze scanner.FileAnalyzer
			}{
				{railsapp.ModelsDir(root), scanner.RubyExts, analyzer.WhereClauses},
				{railsapp.ControllersDir(root), scanner.RubyExts, analyzer.WhereClauses},
				{railsapp.ControllersDir(root), scanner.RubyExts, analyzer.ControllerNPlusOne},
				{railsapp.ViewsDir(root), scanner.ViewExts, analyzer.ViewAssociations},
			}
			for _, s := range scans {
				res, err := scanner.ScanParallel(s.dir, s.exts, s.analyze, parallel)
				if err != nil {
					return fmt.Errorf("scan %s: %w", s.dir, err)
				}
				reportScanErrors(res.Errors)
				findings = append(findings, res.Findings...)
			}

			// database.yml is optional for check: without it the
			// connection-settings analyzers simply contribute nothing.
			dbCfg, err := railsapp.LoadDatabaseConfig(root)
			switch {
			case errors.Is(err, railsapp.ErrConfigMissing):
				slog.Warn("config/database.yml not found, skipping connection checks")
			case err != nil:
				return err
			default:
				findings = append(findings, analyzer.AnalyzeConnectionSettings(dbCfg, connectionOptsFromConfig())...)
			}

			reported, err := writeReport(cmd, "check", findings, &rf)
			if err != nil {
				return err
			}

			if failOn != "" && shouldFailOn(reported, failOn) {
				return &ExitError{Code: 2}
			}
			return nil
		},
	}

	rf.register(cmd)
	cmd.Flags().StringVar(&failOn, "fail-on", "", "exit 2 if findings match (comma-separated types or severity: warning,info)")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "number of scanner goroutines (0=NumCPU, 1=sequential)")

	return cmd
}
