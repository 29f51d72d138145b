package cmd

import (
	"fmt"

	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var profile domain.UserContext

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the profile sent with every drafting request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.workspace.SaveProfile(cmd.Context(), profile); err != nil {
				return fmt.Errorf("save profile: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s, %s)\n", profile.UserID, profile.Role, profile.Department)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile.UserID, "user", "", "User ID")
	cmd.Flags().StringVar(&profile.Department, "department", "Other", "Department")
	cmd.Flags().StringVar(&profile.Role, "role", "Employee", "Role")
	cmd.Flags().StringVar(&profile.Location, "location", "Unknown", "Location")
	cmd.Flags().StringVar(&profile.Language, "language", "en", "Preferred language")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.workspace.ClearProfile(cmd.Context()); err != nil {
				return fmt.Errorf("clear profile: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, found, err := app.workspace.Profile(cmd.Context())
			if err != nil {
				return fmt.Errorf("read profile: %w", err)
			}
			if !found {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in (requests are sent anonymously).")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n  department: %s\n  role: %s\n  location: %s\n  language: %s\n",
				profile.UserID, profile.Department, profile.Role, profile.Location, profile.Language)
			return nil
		},
	}
}
