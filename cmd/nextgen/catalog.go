package main

import (
	"fmt"
	"strings"

	"github.com/ashureev/nextgen-minds/internal/catalog"
	"github.com/ashureev/nextgen-minds/internal/domain"
	"github.com/spf13/cobra"
)

var careersCmd = &cobra.Command{
	Use:   "careers [ID]",
	Short: "List careers or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			career, err := cli.api.Career(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), career)
		}
		skills, _ := cmd.Flags().GetString("skills")
		interests, _ := cmd.Flags().GetString("interests")
		return printCareers(cmd, skills, interests)
	},
}

func printCareers(cmd *cobra.Command, skills, interests string) error {
	careers, err := cli.api.Careers(cmd.Context(), domain.CareerFilter{
		Skills:    catalog.ParseTerms(skills),
		Interests: catalog.ParseTerms(interests),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, c := range careers {
		fmt.Fprintf(out, "%-26s %s (%s)\n", c.ID, c.Title, strings.Join(c.Skills, ", "))
	}
	return nil
}

var collegesCmd = &cobra.Command{
	Use:   "colleges",
	Short: "List colleges",
	RunE: func(cmd *cobra.Command, _ []string) error {
		location, _ := cmd.Flags().GetString("location")
		program, _ := cmd.Flags().GetString("program")
		colleges, err := cli.api.Colleges(cmd.Context(), domain.CollegeFilter{
			Location: location,
			Programs: catalog.ParseTerms(program),
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, c := range colleges {
			fmt.Fprintf(out, "%-16s %s, %s\n", c.ID, c.Name, c.Location)
		}
		return nil
	},
}

var scholarshipsCmd = &cobra.Command{
	Use:   "scholarships",
	Short: "List scholarships",
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := cli.api.Scholarships(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range list {
			fmt.Fprintf(out, "%-16s %s: %s (deadline %s)\n", s.ID, s.Name, s.Amount, s.Deadline)
		}
		return nil
	},
}

func init() {
	careersCmd.Flags().String("skills", "", "comma-separated skills, all must match")
	careersCmd.Flags().String("interests", "", "comma-separated interests, all must match")
	collegesCmd.Flags().String("location", "", "location substring")
	collegesCmd.Flags().String("program", "", "comma-separated programs, all must match")
}
