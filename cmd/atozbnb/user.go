package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/atozbnb/internal/view"
)

func newSignupCmd(e *env) *cobra.Command {
	var confirmPassword string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), e, false)
			if err != nil {
				return err
			}
			form := view.NewSignupForm(app)
			form.Form.Password = e.password
			form.Form.ConfirmPassword = confirmPassword
			if err := bindSignup(cmd, form); err != nil {
				return err
			}

			user, err := form.Submit(cmd.Context())
			if err != nil {
				return statusError(form.Status, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), "Signed up as ")
			renderUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("email", "", "email address")
	flags.String("username", "", "username, at least 4 characters")
	flags.String("first-name", "", "first name")
	flags.String("last-name", "", "last name")
	flags.StringVar(&confirmPassword, "confirm-password", "", "repeat --password")
	return cmd
}

func bindSignup(cmd *cobra.Command, form *view.SignupForm) error {
	fields := map[string]*string{
		"email":      &form.Form.Email,
		"username":   &form.Form.Username,
		"first-name": &form.Form.FirstName,
		"last-name":  &form.Form.LastName,
	}
	for name, dst := range fields {
		v, err := cmd.Flags().GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

func newWhoamiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Log in with the given credentials and show the session user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), e, false)
			if err != nil {
				return err
			}
			if app.Session.User() == nil {
				if _, err := app.Session.Restore(cmd.Context()); err != nil {
					return requestError(err)
				}
			}
			renderUser(cmd.OutOrStdout(), app.Session.User())
			return nil
		},
	}
}
