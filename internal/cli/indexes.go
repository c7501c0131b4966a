package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"railspect/internal/analyzer"
	"railspect/internal/railsapp"
	"railspect/internal/scanner"
	"railspect/internal/schema"
)

func newIndexesCmd() *cobra.Command {
	var (
		rf       reportFlags
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "Schema analysis: missing FK indexes, boolean columns, WHERE-clause columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := railsapp.FindRoot(startDir)
			if err != nil {
				return err
			}
			slog.Debug("rails root found", "path", root)

			content, err := railsapp.ReadSchema(root)
			if err != nil {
				return err
			}
			model := schema.Parse(content)
			slog.Info("schema parsed", "tables", len(model.Names))

			findings := analyzer.AnalyzeSchema(model)

			for _, dir := range []string{railsapp.ModelsDir(root), railsapp.ControllersDir(root)} {
				res, err := scanner.ScanParallel(dir, scanner.RubyExts, analyzer.WhereClauses, parallel)
				if err != nil {
					return fmt.Errorf("scan %s: %w", dir, err)
				}
				reportScanErrors(res.Errors)
				findings = append(findings, res.Findings...)
			}

			// This entry point reports only; it never fails on findings.
			_, err = writeReport(cmd, "indexes", findings, &rf)
			return err
		},
	}

	rf.register(cmd)
	cmd.Flags().IntVar(&parallel, "parallel", 0, "number of scanner goroutines (0=NumCPU, 1=sequential)")

	return cmd
}
