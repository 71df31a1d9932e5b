package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civiclens/portal-client/internal/core/ports"
)

func newSignupCmd(a *app) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a citizen account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.session.Signup(cmd.Context(), ports.SignupInput{
				Name: name, Email: email, Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Account created for %s (%s). Log in to continue.\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := a.session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			sess := a.session.Current()
			fmt.Printf("Logged in as %s (%s) → %s\n", sess.Name, sess.Role, target)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session (no remote call)",
		RunE: func(_ *cobra.Command, _ []string) error {
			target := a.session.Logout()
			fmt.Printf("Logged out → %s\n", target)
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(_ *cobra.Command, _ []string) error {
			sess := a.session.Current()
			if sess == nil {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Printf("%s <%s> role=%s\n", sess.Name, sess.Email, sess.Role)
			return nil
		},
	}
}

func newForgotPasswordCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link by email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.session.ForgotPassword(cmd.Context(), email)
			if err != nil {
				return err
			}
			fmt.Println(result.Message)
			if result.ResetURL != "" {
				fmt.Println("Reset URL:", result.ResetURL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCmd(a *app) *cobra.Command {
	var token, password string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password using a reset token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := a.session.ResetPassword(cmd.Context(), token, password)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "reset token from the emailed link")
	cmd.Flags().StringVar(&password, "new-password", "", "new password")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("new-password")
	return cmd
}
