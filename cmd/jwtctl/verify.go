package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/jwt-demo/internal/auth"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Verify a token and print its claims or the rejection reason",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := tokenService(0)
		if err != nil {
			return err
		}

		token := strings.TrimSpace(strings.TrimPrefix(args[0], "Bearer "))
		claims, err := ts.ParseClaims(token)
		if err != nil {
			_ = printJSON(cmd.OutOrStdout(), map[string]any{
				"valid":  false,
				"reason": auth.ReasonOf(err),
			})
			return fmt.Errorf("token rejected: %w", err)
		}

		return printJSON(cmd.OutOrStdout(), map[string]any{
			"valid":   true,
			"subject": claims.Subject,
			"claims":  claims,
		})
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
