package main

import (
	"books.xdoubleu.com/cmd/booktracker/internal/dtos"
	"github.com/spf13/cobra"
)

func (app *Application) loginCmd() *cobra.Command {
	signInDto := dtos.SignInDto{
		Email:    "",
		Password: "",
	}

	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session for later commands",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, _ []string) error {
		user, err := app.services.Auth.SignIn(cmd.Context(), &signInDto)
		if err != nil {
			return err
		}

		app.out.Success("Signed in as %s.", user.Name)
		return nil
	})

	cmd.Flags().StringVarP(&signInDto.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&signInDto.Password, "password", "p", "", "account password")

	return cmd
}

func (app *Application) signupCmd() *cobra.Command {
	signUpDto := dtos.SignUpDto{
		Name:     "",
		Email:    "",
		Password: "",
	}

	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, _ []string) error {
		user, err := app.services.Auth.SignUp(cmd.Context(), &signUpDto)
		if err != nil {
			return err
		}

		app.out.Success("Account created for %s. You can login now.", user.Email)
		return nil
	})

	cmd.Flags().StringVarP(&signUpDto.Name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&signUpDto.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&signUpDto.Password, "password", "p", "", "account password")

	return cmd
}

func (app *Application) logoutCmd() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, _ []string) error {
		if err := app.services.Auth.SignOut(cmd.Context()); err != nil {
			return err
		}

		app.out.Success("Signed out.")
		return nil
	})

	return cmd
}

func (app *Application) whoamiCmd() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, _ []string) error {
		user, err := app.services.Auth.CurrentUser(cmd.Context())
		if err != nil {
			return err
		}

		app.out.Title(user.Name)
		app.out.Muted(user.Email)
		return nil
	})

	return cmd
}
