package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/draftforge/contract-draft-cli/internal/ports"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and review the contract catalog",
	}

	cmd.AddCommand(newCatalogListCmd(app), newCatalogReviewCmd(app))

	return cmd
}

func newCatalogListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List submitted contracts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := app.catalog.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, _ = fmt.Fprintln(out, "The catalog is empty.")
				return nil
			}

			titleStyle := lipgloss.NewStyle().Bold(true)
			metaStyle := lipgloss.NewStyle().Faint(true)
			for _, record := range records {
				_, _ = fmt.Fprintf(out, "%s  %s\n", titleStyle.Render(record.Title), record.SessionID)

				meta := fmt.Sprintf("  status: %s  sections: %d", record.Status, record.SectionsCount)
				if record.SubmittedBy != "" {
					meta += "  by: " + record.SubmittedBy
				}
				if record.Department != "" {
					meta += " (" + record.Department + ")"
				}
				if record.AIScore != nil {
					meta += fmt.Sprintf("  score: %d", *record.AIScore)
				}
				_, _ = fmt.Fprintln(out, metaStyle.Render(meta))
			}
			return nil
		},
	}
}

func newCatalogReviewCmd(app *app) *cobra.Command {
	var (
		sessionID string
		status    string
		score     int
		feedback  string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Update the review status of a submitted contract",
		RunE: func(cmd *cobra.Command, _ []string) error {
			update := ports.ReviewUpdate{
				SessionID:        sessionID,
				Status:           domain.ContractStatus(status),
				ReviewerFeedback: feedback,
			}
			if cmd.Flags().Changed("score") {
				update.EvaluationScore = &score
			}

			if err := app.catalog.UpdateStatus(cmd.Context(), update); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Contract %s is now %s.\n", sessionID, status)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID of the contract")
	cmd.Flags().StringVar(&status, "status", "", "New status (submitted, under_review, approved, rejected, completed)")
	cmd.Flags().IntVar(&score, "score", 0, "Evaluation score")
	cmd.Flags().StringVar(&feedback, "feedback", "", "Reviewer feedback")
	_ = cmd.MarkFlagRequired("session")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}
