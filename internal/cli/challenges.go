package cli

import (
	"github.com/spf13/cobra"
)

func newChallengesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenges",
		Short: "List available challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ChallengeList

			if err := client.Get("/challenges", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
