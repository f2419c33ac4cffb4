package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"mock-exam-service/internal/app"
	"mock-exam-service/internal/config"
	"mock-exam-service/internal/infra/memory"
)

// NewRoundsCmd prints the configured rounds and whether each can be started.
func NewRoundsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rounds",
		Short: "List configured exam rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			rules, err := cfg.Rules()
			if err != nil {
				return err
			}
			loader, closeLoader, err := newRoundLoader(cmd.Context(), cfg, rules)
			if err != nil {
				return err
			}
			defer closeLoader()

			service := app.NewExamService(memory.NewSessionStore(), memory.NewRoundRepository(loader, 0), rules)
			summaries, err := service.Rounds(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ROUND\tQUESTIONS\tREADY")
			for _, s := range summaries {
				fmt.Fprintf(w, "%d\t%d/%d\t%t\n", s.ID, s.Questions, rules.TotalQuestions, s.Ready)
			}
			return w.Flush()
		},
	}
}
