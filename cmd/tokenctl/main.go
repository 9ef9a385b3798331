package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/hr-triage-service/internal/auth"
	"github.com/spec-kit/hr-triage-service/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "tokenctl",
	Short: "Manage automation credentials for the HR triage service",
	Long: `tokenctl mints bearer tokens and hashes API keys for callers that
update or resolve tickets when AUTH_ENABLED is set.`,
	SilenceUsage: true,
}

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a signed bearer token using AUTH_JWT_SECRET",
	RunE:  runIssue,
}

var hashKeyCmd = &cobra.Command{
	Use:   "hash-key <key>",
	Short: "Print a bcrypt hash for AUTH_API_KEY_HASH",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashKey,
}

var (
	subjectFlag string
	ttlFlag     time.Duration
	costFlag    int
)

func init() {
	issueCmd.Flags().StringVar(&subjectFlag, "subject", "", "Caller name recorded as resolved_by (required)")
	issueCmd.Flags().DurationVar(&ttlFlag, "ttl", 0, "Token lifetime; defaults to AUTH_ACCESS_TOKEN_TTL_MINUTES")
	_ = issueCmd.MarkFlagRequired("subject")

	hashKeyCmd.Flags().IntVar(&costFlag, "cost", 0, "bcrypt cost; defaults to the library default")

	rootCmd.AddCommand(issueCmd)
	rootCmd.AddCommand(hashKeyCmd)
}

func runIssue(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is not set")
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	token, expiresAt, err := tokens.GenerateToken(subjectFlag, ttlFlag)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
	return nil
}

func runHashKey(cmd *cobra.Command, args []string) error {
	hashed, err := auth.HashAPIKey(args[0], costFlag)
	if err != nil {
		return fmt.Errorf("hash key: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), hashed)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
