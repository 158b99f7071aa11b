package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var signupCmd = &cobra.Command{
	Use:   "signup NAME EMAIL PASSWORD",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.session.Signup(cmd.Context(), args[0], args[1], args[2]); err != nil {
			return err
		}
		return whoami(cmd)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login EMAIL PASSWORD",
	Short: "Sign in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.session.Login(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		return whoami(cmd)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli.session.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return whoami(cmd)
	},
}

func whoami(cmd *cobra.Command) error {
	s := cli.store.State()
	if !s.IsAuthenticated() || s.Session.User == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", s.Session.User.Name, s.Session.User.Email)
	return nil
}
