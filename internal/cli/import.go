package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"mock-exam-service/internal/config"
	"mock-exam-service/internal/infra/file"
	"mock-exam-service/internal/infra/postgres"
)

// NewImportCmd upserts a JSON content catalog into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a round catalog into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			rules, err := cfg.Rules()
			if err != nil {
				return err
			}
			catalog, err := file.ReadCatalog(catalogPath)
			if err != nil {
				return err
			}
			if err := runMigrations(cmd.Context(), cfg); err != nil {
				return err
			}

			db := postgres.OpenDB(cfg.Postgres.URL)
			defer db.Close()
			if err := postgres.UpsertRounds(cmd.Context(), db, catalog.Rounds); err != nil {
				return err
			}

			for _, round := range catalog.Rounds {
				if !round.HasAnswerKey(rules.TotalQuestions) {
					slog.Warn("round has no usable answer key", "round", round.ID, "answers", len(round.AnswerKey))
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rounds\n", len(catalog.Rounds))
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogPath, "file", "", "path to catalog JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
