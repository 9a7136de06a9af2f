package cli

import (
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session operations",
		Long:  "Log in, register, start a demo session, log out, or show the active user.",
	}

	cmd.AddCommand(newSessionLoginCmd())
	cmd.AddCommand(newSessionRegisterCmd())
	cmd.AddCommand(newSessionDemoCmd())
	cmd.AddCommand(newSessionLogoutCmd())
	cmd.AddCommand(newSessionShowCmd())

	return cmd
}

func newSessionLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in by email",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"email": email, "password": password}
			var result SessionResult
			if err := client.Post(cmd.Context(), "/api/v1/session/login", body, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newSessionRegisterCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"username": username, "email": email, "password": password}
			var result SessionResult
			if err := client.Post(cmd.Context(), "/api/v1/session/register", body, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newSessionDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Start a session with a generated demo account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionResult
			if err := client.Post(cmd.Context(), "/api/v1/session/demo", nil, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the active session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/session"); err != nil {
				return err
			}
			output(cmd).PrintMessage("Logged out")
			return nil
		},
	}
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionResult
			if err := client.Get(cmd.Context(), "/api/v1/session", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}
