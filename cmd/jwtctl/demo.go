package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/jwt-demo/internal/api/dto"
)

var (
	demoServer   string
	demoUsername string
	demoPassword string
	demoTimeout  time.Duration
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Log in against a running server, then call /secret with the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		server := strings.TrimRight(demoServer, "/")

		login := map[string]any{}
		code, err := doJSON(fiber.Post(server+"/login").
			JSON(dto.LoginRequest{Username: demoUsername, Password: demoPassword}), &login)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		logger.Debug("login answered", zap.Int("status", code))
		if code != http.StatusOK {
			_ = printJSON(cmd.OutOrStdout(), map[string]any{"jwt": login})
			return fmt.Errorf("login failed with status %d", code)
		}

		token, _ := login["token"].(string)
		result := map[string]any{}
		code, err = doJSON(fiber.Get(server+"/secret").
			Set(fiber.HeaderAuthorization, "Bearer "+token), &result)
		if err != nil {
			return fmt.Errorf("secret: %w", err)
		}
		logger.Debug("secret answered", zap.Int("status", code))

		if err := printJSON(cmd.OutOrStdout(), map[string]any{"jwt": login, "result": result}); err != nil {
			return err
		}
		if code != http.StatusOK {
			return fmt.Errorf("secret failed with status %d", code)
		}
		return nil
	},
}

func doJSON(agent *fiber.Agent, out any) (int, error) {
	code, body, errs := agent.Timeout(demoTimeout).Bytes()
	if len(errs) > 0 {
		return code, errors.Join(errs...)
	}
	if len(body) == 0 {
		return code, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return code, fmt.Errorf("decode response (status %d): %w", code, err)
	}
	return code, nil
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoServer, "server", "http://localhost:3000", "Base URL of the jwt-demo server")
	demoCmd.Flags().StringVar(&demoUsername, "username", "foobar", "Username to log in with")
	demoCmd.Flags().StringVar(&demoPassword, "password", "password", "Password to log in with")
	demoCmd.Flags().DurationVar(&demoTimeout, "timeout", 5*time.Second, "Per-request timeout")
}
