package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"storefront-service/internal/clients"
	"storefront-service/internal/services"
)

var (
	authName     string
	authEmail    string
	authPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		auth, err := app.auth.Login(cmd.Context(), localSession, authEmail, authPassword)
		if err != nil {
			return err
		}
		fmt.Fprintln(app.out, okStyle.Render(fmt.Sprintf("Logged in as %s (%s)", auth.User.Name, auth.User.Role)))
		if auth.IsAdmin() {
			fmt.Fprintln(app.out, mutedStyle.Render("admin tools are available through the storefront API"))
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.auth.Register(cmd.Context(), authName, authEmail, authPassword); err != nil {
			return err
		}
		fmt.Fprintln(app.out, okStyle.Render("Registration successful, please log in"))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored login",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.auth.Logout(cmd.Context(), localSession)
		fmt.Fprintln(app.out, "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		auth, err := app.auth.Current(cmd.Context(), localSession)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.out, "%s <%s> role=%s\n", auth.User.Name, auth.User.Email, auth.User.Role)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "account email")
		c.Flags().StringVar(&authPassword, "password", "", "account password")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	registerCmd.Flags().StringVar(&authName, "name", "", "display name")
	_ = registerCmd.MarkFlagRequired("name")
}

// describeError turns engine errors into the notice shown to the user
func describeError(err error) string {
	var apiErr *clients.APIError
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.As(err, &apiErr):
		return apiErr.Detail
	case errors.Is(err, services.ErrNotAuthenticated):
		return "not logged in, run `storefront login`"
	default:
		return err.Error()
	}
}
