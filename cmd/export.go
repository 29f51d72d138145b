package cmd

import (
	"fmt"
	"strings"

	"github.com/draftforge/contract-draft-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newExportCmd(app *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a catalog contract to a document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.catalog.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, record := range records {
				if record.SessionID == args[0] {
					return writeDocument(cmd, strings.ToLower(format), record.Title, recordSections(record))
				}
			}
			return fmt.Errorf("no catalog contract with session id %q", args[0])
		},
	}

	cmd.Flags().StringVar(&format, "format", "docx", "Output format (docx or pdf)")

	return cmd
}

func recordSections(record domain.ContractRecord) []domain.ExportSection {
	contract := domain.FinalContract{Title: record.Title, Drafts: record.Drafts}
	return contractSections(contract)
}
