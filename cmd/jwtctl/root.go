package main

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/jwt-demo/internal/auth"
	"github.com/spec-kit/jwt-demo/internal/config"
	"github.com/spec-kit/jwt-demo/internal/observability"
)

// global flags
var (
	secretFlag   string
	issuerFlag   string
	audienceFlag string
	logLevelFlag string
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jwtctl",
	Short: "Issue, inspect and exercise jwt-demo access tokens",
	Long: `jwtctl shares configuration with the jwt-demo server (environment and .env).
Flags override the AUTH_JWT_* values for a single invocation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if logLevelFlag != "" {
			loaded.Logger.Level = logLevelFlag
		}
		logger, err = observability.NewLogger(loaded.Logger)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("execution failed", zap.Error(err))
		} else {
			_, _ = os.Stderr.WriteString(err.Error() + "\n")
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&secretFlag, "secret", "", "Signing secret (default AUTH_JWT_SECRET)")
	rootCmd.PersistentFlags().StringVar(&issuerFlag, "issuer", "", "Token issuer (default AUTH_JWT_ISSUER)")
	rootCmd.PersistentFlags().StringVar(&audienceFlag, "audience", "", "Token audience (default AUTH_JWT_AUDIENCE)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

// tokenService builds a TokenService from config, applying flag overrides.
func tokenService(ttl time.Duration) (*auth.TokenService, error) {
	tc := auth.TokenConfig{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      ttl,
		Leeway:   cfg.Auth.Leeway(),
	}
	if secretFlag != "" {
		tc.Secret = []byte(secretFlag)
	}
	if issuerFlag != "" {
		tc.Issuer = issuerFlag
	}
	if audienceFlag != "" {
		tc.Audience = audienceFlag
	}
	return auth.NewTokenService(tc)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
