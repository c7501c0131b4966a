package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"railspect/internal/analyzer"
	"railspect/internal/railsapp"
	"railspect/internal/scanner"
)

func newNPlusOneCmd() *cobra.Command {
	var (
		rf       reportFlags
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "nplusone",
		Short: "Heuristic N+1 detection in controllers and views",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := railsapp.FindRoot(startDir)
			if err != nil {
				return err
			}
			slog.Debug("rails root found", "path", root)

			var findings []analyzer.Finding

			res, err := scanner.ScanParallel(railsapp.ControllersDir(root), scanner.RubyExts, analyzer.ControllerNPlusOne, parallel)
			if err != nil {
				return fmt.Errorf("scan controllers: %w", err)
			}
			reportScanErrors(res.Errors)
			findings = append(findings, res.Findings...)

			res, err = scanner.ScanParallel(railsapp.ViewsDir(root), scanner.ViewExts, analyzer.ViewAssociations, parallel)
			if err != nil {
				return fmt.Errorf("scan views: %w", err)
			}
			reportScanErrors(res.Errors)
			findings = append(findings, res.Findings...)

			reported, err := writeReport(cmd, "nplusone", findings, &rf)
			if err != nil {
				return err
			}

			// Unlike the other entry points, this one treats warnings as
			// failure.
			if analyzer.HasWarnings(reported) {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	rf.register(cmd)
	cmd.Flags().IntVar(&parallel, "parallel", 0, "number of scanner goroutines (0=NumCPU, 1=sequential)")

	return cmd
}
