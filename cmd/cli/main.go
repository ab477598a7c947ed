package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/autotransfer/internal/infrastructure/auth"
	"github.com/iho/autotransfer/internal/infrastructure/logger"
	"github.com/iho/autotransfer/internal/infrastructure/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient calls the admin API of a running server.
type apiClient struct {
	baseURL  string
	token    string
	memberID string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "autotransfer-cli",
		Short:         "Auto-transfer operations tool",
		Long:          `Runs migrations and triggers batch runs and ledger checks on an auto-transfer server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&client.baseURL, "url", envOr("AUTOTRANSFER_URL", "http://localhost:8080"), "Base URL of the API")
	rootCmd.PersistentFlags().DurationVar(&client.timeout, "timeout", 10*time.Minute, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&client.token, "token", os.Getenv("AUTOTRANSFER_TOKEN"), "Bearer token with the admin claim")
	rootCmd.PersistentFlags().StringVar(&client.memberID, "member", "operator", "Member id sent when the server runs without token auth")

	rootCmd.AddCommand(
		migrateCmd(),
		batchCmd(client),
		ledgerCmd(client),
		tokenCmd(),
		hashCredentialCmd(),
	)

	return rootCmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&path, "path", envOr("MIGRATIONS_PATH", "migrations"), "Directory holding migration files")

	run := func(fn func(string, string, zerolog.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			log := logger.New(logger.Config{Level: "info", Format: "console", Output: cmd.ErrOrStderr()})
			return fn(databaseURL, path, log)
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", Args: cobra.NoArgs, RunE: run(postgres.RunMigrations)},
		&cobra.Command{Use: "down", Short: "Roll back all migrations", Args: cobra.NoArgs, RunE: run(postgres.RunMigrationsDown)},
	)

	return cmd
}

func batchCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Trigger auto-transfer runs",
	}

	for _, run := range []struct{ name, short string }{
		{"due", "Execute today's due auto-transfers"},
		{"retry", "Re-execute FAILED auto-transfers"},
	} {
		name := run.name
		cmd.AddCommand(&cobra.Command{
			Use:   name,
			Short: run.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				status, body, err := client.do(cmd.Context(), http.MethodPost, "/api/v1/admin/batch/"+name)
				if err != nil {
					return err
				}
				if status >= http.StatusBadRequest {
					return fmt.Errorf("batch %s failed (status %d): %s", name, status, truncate(string(body), 512))
				}
				return printBody(cmd.OutOrStdout(), body)
			},
		})
	}

	return cmd
}

func ledgerCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "verify [account-id]",
		Short: "Replay transaction lines and compare them with account balances",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/admin/ledger/verify"
			if len(args) == 1 {
				path += "/" + args[0]
			}

			status, body, err := client.do(cmd.Context(), http.MethodGet, path)
			if err != nil {
				return err
			}

			if err := printBody(cmd.OutOrStdout(), body); err != nil {
				return err
			}

			switch {
			case status == http.StatusConflict:
				return fmt.Errorf("ledger verification FAILED")
			case status != http.StatusOK:
				return fmt.Errorf("ledger verification returned status %d", status)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Ledger verification PASSED")
			return nil
		},
	})

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret string
		admin  bool
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <member-id>",
		Short: "Sign an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(args[0], admin)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC signing secret")
	cmd.Flags().BoolVar(&admin, "admin", false, "Grant access to admin routes")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

// bcryptHash is replaced in tests.
var bcryptHash = auth.HashCredential

func hashCredentialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-credential <credential>",
		Short: "Hash an account credential for storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptHash(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string) (int, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.baseURL, "/")+path, nil)
	if err != nil {
		return 0, nil, err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else if c.memberID != "" {
		req.Header.Set("X-Member-ID", c.memberID)
	}

	resp, err := (&http.Client{Timeout: c.timeout}).Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// printBody pretty prints a JSON body, or prints it raw when it is not JSON.
func printBody(w io.Writer, body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		_, err = fmt.Fprintln(w, string(body))
		return err
	}
	return printJSON(w, v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
