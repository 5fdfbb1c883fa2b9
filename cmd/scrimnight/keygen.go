package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/scrimnight/scrimnight/internal/auth"
)

func keygenCommand() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an organizer API key and its ORGANIZER_KEY_HASH",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rawKey, hash, err := auth.GenerateKey(cost)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "organizer key (give to organizers, shown once): %s\n", rawKey)
			fmt.Fprintf(out, "ORGANIZER_KEY_HASH=%s\n", hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}
