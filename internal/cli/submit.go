package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var (
		challenge string
		flag      string
		name      string
		email     string
		hints     int
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a flag for a challenge",
		RunE: func(cmd *cobra.Command, args []string) error {
			if challenge == "" || flag == "" {
				return fmt.Errorf("--challenge and --flag are required")
			}

			req := map[string]any{
				"challengeId":   challenge,
				"submittedFlag": flag,
			}
			if name != "" {
				req["username"] = name
			}
			if email != "" {
				req["email"] = email
			}
			if hints > 0 {
				req["hintDeductions"] = hints
			}

			var result SubmitResult
			if err := client.Post("/flags/submit", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&challenge, "challenge", "", "Challenge id (required)")
	cmd.Flags().StringVar(&flag, "flag", "", "Flag text (required)")
	cmd.Flags().StringVar(&name, "name", "", "Player name for anonymous submissions")
	cmd.Flags().StringVar(&email, "email", "", "Email to credit the solve to")
	cmd.Flags().IntVar(&hints, "hints", 0, "Hint point deductions")
	_ = cmd.MarkFlagRequired("challenge")
	_ = cmd.MarkFlagRequired("flag")

	return cmd
}
