package main

import (
	"errors"
	"strings"

	"books.xdoubleu.com/cmd/booktracker/internal/dtos"
	"books.xdoubleu.com/cmd/booktracker/internal/services"
	"books.xdoubleu.com/pkg/backend"
	"github.com/spf13/cobra"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
)

type runFunc func(cmd *cobra.Command, args []string) error

func (app *Application) Commands() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	root := &cobra.Command{
		Use:           "booktracker",
		Short:         "Track the books you want to read, are reading and have read",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(app.out.out)
	root.SetErr(app.errOut.out)

	root.AddCommand(
		app.loginCmd(),
		app.signupCmd(),
		app.logoutCmd(),
		app.whoamiCmd(),
		app.booksCmd(),
		app.shelfCmd(),
		app.reviewsCmd(),
		app.recommendCmd(),
	)

	return root
}

// report prints a failed command in a form meant for people.
func (app *Application) report(run runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err == nil {
			return nil
		}

		var validationErr *services.ValidationError
		var apiErr *backend.APIError

		switch {
		case errors.Is(err, backend.ErrSessionExpired):
			// already reported when the refresh failed
		case errors.Is(err, backend.ErrMissingBaseURL):
			app.errOut.Failure("BACKEND_URL is not set.")
		case errors.Is(err, services.ErrNotSignedIn):
			app.errOut.Failure("You are not signed in. Run `booktracker login` first.")
		case errors.As(err, &validationErr):
			app.errOut.Failure(validationErr.Error())
		case errors.Is(err, backend.ErrUnavailable):
			app.errOut.Failure("Could not load this right now. Please try again later.")
		case errors.As(err, &apiErr):
			app.errOut.Failure(apiErr.Error())
		default:
			app.logger.Debug("command failed", logging.ErrAttr(err))
			app.errOut.Failure(err.Error())
		}

		return &reportedError{err: err}
	}
}

// reportedError marks an error that was already shown to the user.
type reportedError struct {
	err error
}

func (err *reportedError) Error() string {
	return err.err.Error()
}

func (err *reportedError) Unwrap() error {
	return err.err
}

type bookRefFlags struct {
	bookID     int64
	externalID string
}

func (flags *bookRefFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&flags.bookID, "book", 0, "catalog book id")
	cmd.Flags().StringVar(&flags.externalID, "external", "", "external book id")
}

func (flags *bookRefFlags) ref(cmd *cobra.Command) dtos.BookRef {
	//nolint:exhaustruct //other fields are optional
	ref := dtos.BookRef{}

	if cmd.Flags().Changed("book") {
		ref.BookID = &flags.bookID
	}
	if cmd.Flags().Changed("external") {
		externalID := strings.TrimSpace(flags.externalID)
		ref.ExternalBookID = &externalID
	}

	return ref
}
