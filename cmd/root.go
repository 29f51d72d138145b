package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cdraft",
		Short:         "Contract drafting CLI (cdraft): draft contracts with the assistant",
		Long:          "cdraft drives the conversational contract-drafting workflow from the terminal: describe an idea, review the proposed structure, draft every section with the assistant, then export the document or submit it to the contract catalog.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newChatCmd(app),
		newIntakeCmd(app),
		newCatalogCmd(app),
		newExportCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
	)

	return rootCmd
}
