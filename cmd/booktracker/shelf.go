package main

import (
	"books.xdoubleu.com/cmd/booktracker/internal/dtos"
	"books.xdoubleu.com/pkg/backend"
	"github.com/spf13/cobra"
)

func (app *Application) shelfCmd() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Manage your reading list",
	}

	cmd.AddCommand(
		app.shelfListCmd(),
		app.shelfAddCmd(),
		app.shelfMoveCmd(),
		app.shelfRemoveCmd(),
	)

	return cmd
}

func (app *Application) shelfListCmd() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show your shelves",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, _ []string) error {
		shelves, err := app.services.Library.Shelves(cmd.Context())
		app.out.Shelves(shelves)
		return err
	})

	return cmd
}

func (app *Application) shelfAddCmd() *cobra.Command {
	var ref bookRefFlags
	var status string

	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Put a book on one of your shelves",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, _ []string) error {
		userBook, err := app.services.Library.Add(cmd.Context(), &dtos.ShelveBookDto{
			BookRef: ref.ref(cmd),
			Status:  backend.Status(status),
		})
		if err != nil {
			return err
		}

		app.out.Success("Added to %s (entry %d).", statusLabel(userBook.Status), userBook.ID)
		return nil
	})

	ref.register(cmd)
	cmd.Flags().StringVar(&status, "status", string(backend.WantToRead), "shelf to put the book on")

	return cmd
}

func (app *Application) shelfMoveCmd() *cobra.Command {
	var status string

	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "move <entry id>",
		Short: "Move a book to another shelf",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, args []string) error {
		userBookID, err := parseID(args[0])
		if err != nil {
			return err
		}

		userBook, err := app.services.Library.Move(cmd.Context(), &dtos.MoveBookDto{
			UserBookID: userBookID,
			Status:     backend.Status(status),
		})
		if err != nil {
			return err
		}

		app.out.Success("Moved to %s.", statusLabel(userBook.Status))
		return nil
	})

	cmd.Flags().StringVar(&status, "status", "", "shelf to move the book to")

	return cmd
}

func (app *Application) shelfRemoveCmd() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "remove <entry id>",
		Short: "Take a book off your shelves",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, args []string) error {
		userBookID, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err = app.services.Library.Remove(cmd.Context(), userBookID); err != nil {
			return err
		}

		app.out.Success("Removed.")
		return nil
	})

	return cmd
}
