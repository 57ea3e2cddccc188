package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAttemptsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "Show recent submission attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/flags/attempts"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}

			var result AttemptList
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of attempts to show")

	return cmd
}
