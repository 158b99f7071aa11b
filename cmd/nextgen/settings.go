package main

import (
	"github.com/ashureev/nextgen-minds/internal/state"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printJSON(cmd.OutOrStdout(), cli.store.State().Settings)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change preferences; flags not given keep their value",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var patch state.SettingsPatch
		flags := cmd.Flags()
		if flags.Changed("theme") {
			v, _ := flags.GetString("theme")
			patch.Theme = &v
		}
		if flags.Changed("language") {
			v, _ := flags.GetString("language")
			patch.Language = &v
		}
		if flags.Changed("reduced-motion") {
			v, _ := flags.GetBool("reduced-motion")
			patch.ReducedMotion = &v
		}
		if flags.Changed("high-contrast") {
			v, _ := flags.GetBool("high-contrast")
			patch.HighContrast = &v
		}
		if flags.Changed("font-scale") {
			v, _ := flags.GetFloat64("font-scale")
			patch.FontScale = &v
		}
		s := cli.store.Dispatch(state.UpdateSettings{Patch: patch})
		return printJSON(cmd.OutOrStdout(), s.Settings)
	},
}

func init() {
	f := settingsSetCmd.Flags()
	f.String("theme", "", "system, light or dark")
	f.String("language", "", "interface language")
	f.Bool("reduced-motion", false, "reduce animations")
	f.Bool("high-contrast", false, "high-contrast colours")
	f.Float64("font-scale", 1, "text size multiplier")
	settingsCmd.AddCommand(settingsSetCmd)
}
