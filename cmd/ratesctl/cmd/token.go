package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"rates-api-go/internal/auth"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin token for the hierarchy refresh endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		token, err := auth.NewTokenService(e.cfg.JWTSecret).GenerateAdminToken(tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		printf(cmd.OutOrStdout(), "%s\n", token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "who the token is issued to")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("subject")
}
