package cmd

import (
	"fmt"
	"time"

	"github.com/nicdemeagbeve-afk/synapse/pkg/security"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a local access token with SUPABASE_JWT_SECRET",
	Long: `Prints a token shaped like a Supabase session so the dashboard API can be
exercised without the hosted auth service. Meant for development only.`,
	Run: runToken,
}

func init() {
	tokenCmd.Flags().String("user", "", "user id placed in the sub claim (required)")
	tokenCmd.Flags().String("email", "", "email claim")
	tokenCmd.Flags().Duration("ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) {
	user, _ := cmd.Flags().GetString("user")
	email, _ := cmd.Flags().GetString("email")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	token, err := security.GenerateToken(cfg.Auth.SupabaseJWTSecret, user, email, ttl)
	if err != nil {
		logrus.Fatalf("[AUTH] %v", err)
	}
	fmt.Println(token)
}
