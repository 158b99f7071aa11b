package main

import (
	"fmt"
	"strings"

	"github.com/ashureev/nextgen-minds/internal/catalog"
	"github.com/ashureev/nextgen-minds/internal/state"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Work through the career profile wizard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p := cli.store.State().Profile
		if err := printJSON(cmd.OutOrStdout(), p); err != nil {
			return err
		}
		if !p.IsSubmitted() {
			if missing := p.Draft.Missing(); len(missing) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Missing:", strings.Join(missing, ", "))
			}
		}
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Fill in wizard fields",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var patch state.ProfilePatch
		flags := cmd.Flags()
		for name, dst := range map[string]**string{
			"name":      &patch.Name,
			"education": &patch.Education,
			"location":  &patch.Location,
			"goals":     &patch.Goals,
		} {
			if flags.Changed(name) {
				v, _ := flags.GetString(name)
				*dst = &v
			}
		}
		if flags.Changed("skills") {
			v, _ := flags.GetString("skills")
			patch.Skills = catalog.ParseTerms(v)
		}
		if flags.Changed("interests") {
			v, _ := flags.GetString("interests")
			patch.Interests = catalog.ParseTerms(v)
		}

		if cli.store.State().Profile.IsSubmitted() {
			return fmt.Errorf("profile already submitted; run 'nextgen profile reset' to start over")
		}
		s := cli.store.Dispatch(state.UpdateProfile{Patch: patch})
		return printJSON(cmd.OutOrStdout(), s.Profile.Draft)
	},
}

var profileSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a complete profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if missing := cli.store.State().Profile.Draft.Missing(); len(missing) > 0 {
			return fmt.Errorf("profile incomplete, missing: %s", strings.Join(missing, ", "))
		}
		s := cli.store.Dispatch(state.SubmitProfile{})
		if s.Profile.IsSubmitted() {
			fmt.Fprintf(cmd.OutOrStdout(), "Submitted at %s\n", s.Profile.Submitted.CompletedAt.Format("2006-01-02 15:04"))
		}
		if s.IsAuthenticated() {
			return cli.session.PushProfile(cmd.Context())
		}
		return nil
	},
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the draft and any submitted profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli.store.Dispatch(state.ResetProfile{})
		fmt.Fprintln(cmd.OutOrStdout(), "Profile cleared.")
		return nil
	},
}

var profilePushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the profile to your account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cli.session.PushProfile(cmd.Context())
	},
}

var profilePullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Load the profile saved in your account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cli.session.PullProfile(cmd.Context()); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), cli.store.State().Profile)
	},
}

func init() {
	f := profileSetCmd.Flags()
	f.String("name", "", "full name")
	f.String("education", "", "current education level")
	f.String("location", "", "city or region")
	f.String("skills", "", "comma-separated skills")
	f.String("interests", "", "comma-separated interests")
	f.String("goals", "", "career goals")
	profileCmd.AddCommand(profileSetCmd, profileSubmitCmd, profileResetCmd, profilePushCmd, profilePullCmd)
}
