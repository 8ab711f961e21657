package cli

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

// newTokenCmd mints an HS256 development JWT whose subject matches a
// principal's external id. Useless against an OIDC-configured server.
func newTokenCmd() *cobra.Command {
	var (
		secret string
		name   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token SUBJECT",
		Short: "Mint a development JWT for the given subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("a signing secret is required (--secret or JWT_SECRET)")
			}

			now := time.Now()
			claims := jwt.MapClaims{
				"sub": args[0],
				"iat": now.Unix(),
				"exp": now.Add(ttl).Unix(),
			}
			if name != "" {
				claims["name"] = name
			}

			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", envOr("JWT_SECRET", ""), "HS256 signing secret")
	cmd.Flags().StringVar(&name, "name", "", "name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
