package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/user"
	"github.com/spf13/cobra"
)

type tokenOutput struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

func newTokenCmd(open Opener) *cobra.Command {
	var (
		userID string
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a service account",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := user.Role(role)
			switch r {
			case user.RoleOwner, user.RoleManager, user.RoleEmployee:
			default:
				return fmt.Errorf("invalid role %q: must be owner, manager or employee", role)
			}

			return withServices(cmd, open, func(ctx context.Context, s *Services) error {
				token, expiresAt, err := s.Tokens.GenerateAccessToken(userID, r)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), tokenOutput{
					AccessToken: token,
					ExpiresAt:   time.Unix(expiresAt, 0).UTC().Format(time.RFC3339),
				})
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "kpictl", "Subject user ID")
	cmd.Flags().StringVar(&role, "role", string(user.RoleManager), "Role claim: owner, manager or employee")
	return cmd
}
