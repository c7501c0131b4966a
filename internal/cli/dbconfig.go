package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"railspect/internal/analyzer"
	"railspect/internal/railsapp"
)

func newDBConfigCmd() *cobra.Command {
	var rf reportFlags

	cmd := &cobra.Command{
		Use:   "dbconfig",
		Short: "Review database.yml connection settings per environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := railsapp.FindRoot(startDir)
			if err != nil {
				return err
			}
			slog.Debug("rails root found", "path", root)

			dbCfg, err := railsapp.LoadDatabaseConfig(root)
			if err != nil {
				return err
			}
			slog.Info("database.yml parsed", "environments", len(dbCfg))

			findings := analyzer.AnalyzeConnectionSettings(dbCfg, connectionOptsFromConfig())

			// This entry point reports only; it never fails on findings.
			_, err = writeReport(cmd, "dbconfig", findings, &rf)
			return err
		},
	}

	rf.register(cmd)

	return cmd
}
