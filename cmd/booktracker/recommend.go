package main

import "github.com/spf13/cobra"

func (app *Application) recommendCmd() *cobra.Command {
	var raw bool

	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show books picked for you",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, _ []string) error {
		recs, err := app.services.Recommendations.ForCurrentUser(cmd.Context())
		if err != nil {
			return err
		}

		app.out.Recommendations(recs, raw)
		return nil
	})

	cmd.Flags().BoolVar(&raw, "raw", false, "print the text as generated")

	return cmd
}
