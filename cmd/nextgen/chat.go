package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const systemPrompt = "You are a friendly career counsellor helping students choose careers, " +
	"courses, colleges and scholarships. Keep answers short and practical."

var chatCmd = &cobra.Command{
	Use:   "chat MESSAGE...",
	Short: "Ask the career assistant",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reply, err := cli.session.Send(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
		return nil
	},
}

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Print the chat transcript",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, m := range cli.store.State().Transcript {
			fmt.Fprintf(out, "[%s] %s: %s\n", m.CreatedAt.Local().Format("15:04"), m.Role, m.Content)
		}
		return nil
	},
}
