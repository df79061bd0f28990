package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"snowflake-admin/internal/security"
)

func (a *app) tokenCmd() *cobra.Command {
	var (
		secret string
		roles  []string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <username>",
		Short: "Mint a JWT for the admin API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := a.loadConfig()
				if err != nil {
					return fmt.Errorf("no --secret given and config unavailable: %w", err)
				}
				secret = cfg.Security.JWTSecret
				if ttl == 0 {
					ttl = cfg.Security.JWTExpiration
				}
			}
			if secret == "" {
				return errors.New("jwt secret is empty")
			}
			if ttl <= 0 {
				ttl = 24 * time.Hour
			}

			token, err := security.NewJWTManager(secret, ttl).GenerateToken(args[0], roles)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default security.jwt_secret from config)")
	cmd.Flags().StringSliceVar(&roles, "role", []string{security.RoleViewer}, "roles to embed: admin, viewer")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default security.jwt_expiration)")
	return cmd
}
