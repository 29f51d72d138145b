package cmd

import (
	"bufio"
	"fmt"
	"sort"
	"strings"

	"github.com/draftforge/contract-draft-cli/internal/application"
	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newIntakeCmd(app *app) *cobra.Command {
	var (
		info         string
		save         bool
		exportFormat string
	)

	cmd := &cobra.Command{
		Use:   "intake [document]",
		Short: "Generate a contract from an existing document",
		Long:  "intake uploads a contract document (.docx, .doc, .pdf or .txt) and/or a free-text description, asks for whatever the analysis could not extract, and generates the finished contract.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			session, err := app.intake.Analyze(cmd.Context(), path, info)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if session.Message != "" {
				_, _ = fmt.Fprintln(out, session.Message)
			}

			var contract domain.FinalContract
			if len(session.Missing) > 0 {
				answers, err := collectAnswers(cmd, session.Missing)
				if err != nil {
					return err
				}
				contract, err = app.intake.SubmitAnswers(cmd.Context(), session.SessionID, answers)
				if err != nil {
					return err
				}
			} else {
				contract, err = app.intake.Generate(cmd.Context(), session.SessionID)
				if err != nil {
					return err
				}
			}

			printContract(cmd, contract)

			if save {
				if err := app.intake.Save(cmd.Context(), session.SessionID, contract); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, "Saved to the drafting service.")
			}

			if exportFormat != "" {
				return writeDocument(cmd, strings.ToLower(exportFormat), contract.Title, contractSections(contract))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&info, "info", "", "Free-text contract information (required when no document is given)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the generated contract on the drafting service")
	cmd.Flags().StringVar(&exportFormat, "export", "", "Also write the contract to a file (docx or pdf)")

	return cmd
}

// collectAnswers prompts for each missing field, highest priority
// first. Empty answers skip the field.
func collectAnswers(cmd *cobra.Command, missing []domain.MissingField) (map[string]string, error) {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	answers := make(map[string]string, len(missing))

	_, _ = fmt.Fprintln(out, "Answer the following (press enter to skip a field):")
	for _, field := range application.OrderMissingFields(missing) {
		_, _ = fmt.Fprintf(out, "[%s] %s\n", field.Priority, field.Description)
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			break
		}
		answers[field.Field] = strings.TrimSpace(scanner.Text())
	}
	return answers, nil
}

func printContract(cmd *cobra.Command, contract domain.FinalContract) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "\n%s\n\n", contract.Title)
	for _, section := range contractSections(contract) {
		if strings.TrimSpace(section.Body) == "" {
			continue
		}
		_, _ = fmt.Fprintf(out, "## %s\n\n%s\n\n", section.Heading, section.Body)
	}
}

// contractSections orders the draft map by the contract's section
// list; drafts for sections the list does not mention go last.
func contractSections(contract domain.FinalContract) []domain.ExportSection {
	seen := make(map[string]bool, len(contract.Sections))
	sections := make([]domain.ExportSection, 0, len(contract.Drafts))

	for _, section := range contract.Sections {
		seen[section.Heading] = true
		sections = append(sections, domain.ExportSection{
			Heading: section.Heading,
			Body:    contract.Drafts[section.Heading],
		})
	}
	rest := make([]string, 0, len(contract.Drafts))
	for heading := range contract.Drafts {
		if !seen[heading] {
			rest = append(rest, heading)
		}
	}
	sort.Strings(rest)
	for _, heading := range rest {
		sections = append(sections, domain.ExportSection{Heading: heading, Body: contract.Drafts[heading]})
	}
	return sections
}
