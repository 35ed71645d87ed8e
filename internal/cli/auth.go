package cli

import (
	"fmt"
	"time"

	"github.com/jrsteele09/gymflow/internal/errors"
	"github.com/jrsteele09/gymflow/session"
	"github.com/jrsteele09/gymflow/tenants"
	"github.com/jrsteele09/gymflow/token"
	"github.com/spf13/cobra"
)

func newLoginCmd(e *env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App()
			if err != nil {
				return err
			}
			if email, err = e.prompt(cmd, "Email", email); err != nil {
				return err
			}
			if password, err = e.prompt(cmd, "Password", password); err != nil {
				return err
			}

			res, err := a.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s\n", email)
			if res.GymID != "" {
				fmt.Fprintf(out, "Active gym: %s\n", res.GymID)
			}
			nextStep(out, res.Route)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

func newSignupCmd(e *env) *cobra.Command {
	var email, password, confirm string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App()
			if err != nil {
				return err
			}
			if email, err = e.prompt(cmd, "Email", email); err != nil {
				return err
			}
			if password, err = e.prompt(cmd, "Password", password); err != nil {
				return err
			}
			if confirm, err = e.prompt(cmd, "Confirm password", confirm); err != nil {
				return err
			}

			route, err := a.Signup(cmd.Context(), email, password, confirm)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Account created for %s\n", email)
			nextStep(out, route)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Password again")
	return cmd
}

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session and active gym",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App()
			if err != nil {
				return err
			}
			if _, err := a.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// newStatusCmd reports the local session without calling the API.
func newStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.Store()
			if err != nil {
				return err
			}
			s, err := session.Load(store)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "API:        %s\n", e.apiURL())
			fmt.Fprintf(out, "Session:    %s (%s)\n", e.backend(), e.sessionPath())
			if !s.Authenticated() {
				fmt.Fprintln(out, "Logged in:  no")
				return nil
			}
			fmt.Fprintln(out, "Logged in:  yes")
			fmt.Fprintf(out, "Token:      %s\n", expiryText(s.AccessToken))

			gymID, err := tenants.NewResolver(store).Active()
			switch {
			case errors.Is(err, errors.ErrNoActiveGym):
				gymID = "-"
			case err != nil:
				return err
			}
			fmt.Fprintf(out, "Active gym: %s\n", gymID)
			return nil
		},
	}
}

func expiryText(access string) string {
	exp, err := token.ExpiresAt(access)
	if err != nil {
		return "expiry unknown"
	}
	if token.Expired(access) {
		return fmt.Sprintf("expired at %s, refreshed on next request", exp.Local().Format(time.RFC822))
	}
	return fmt.Sprintf("valid until %s", exp.Local().Format(time.RFC822))
}
