package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/jwt-demo/internal/auth"
)

var hashCost int

var hashCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash suitable for an identity store record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cost := cfg.Auth.BcryptCost
		if cmd.Flags().Changed("cost") {
			cost = hashCost
		}
		hash, err := auth.HashPassword(args[0], cost)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write([]byte(hash + "\n"))
		return err
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)

	hashCmd.Flags().IntVar(&hashCost, "cost", 0, "bcrypt cost (default AUTH_BCRYPT_COST)")
}
