package cli

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"snowflake-admin/internal/model"
	"snowflake-admin/internal/snowflake"
)

func (a *app) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var spec snowflake.UserSpec
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a user who must change the password at first login",
		Args:  cobra.ExactArgs(1),
		RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
			spec.Name = args[0]
			if err := validator.New().Struct(spec); err != nil {
				return "", err
			}
			return client.User.Create(ctx, spec)
		}),
	}
	create.Flags().StringVar(&spec.Password, "password", "", "initial password")
	create.Flags().StringVar(&spec.Email, "email", "", "email address")
	create.Flags().StringVar(&spec.Role, "role", "", "default role")
	create.Flags().StringVar(&spec.DefaultWarehouse, "default-warehouse", "", "default warehouse")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List users",
			Args:  cobra.NoArgs,
			RunE: a.frameRunE(func(ctx context.Context, client *snowflake.Client, args []string) (*model.Frame, error) {
				return client.User.All(ctx)
			}),
		},
		&cobra.Command{
			Use:   "describe <name>",
			Short: "Show a user's properties",
			Args:  cobra.ExactArgs(1),
			RunE: a.frameRunE(func(ctx context.Context, client *snowflake.Client, args []string) (*model.Frame, error) {
				return client.User.Describe(ctx, args[0])
			}),
		},
		create,
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Drop a user",
			Args:  cobra.ExactArgs(1),
			RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
				return client.User.Remove(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "reset-password <name>",
			Short: "Issue a password reset link",
			Args:  cobra.ExactArgs(1),
			RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
				return client.User.ResetPassword(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "add-role <name> <role>",
			Short: "Grant a role to a user",
			Args:  cobra.ExactArgs(2),
			RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
				return client.User.AddRole(ctx, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "remove-role <name> <role>",
			Short: "Revoke a role from a user",
			Args:  cobra.ExactArgs(2),
			RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
				return client.User.RemoveRole(ctx, args[0], args[1])
			}),
		},
	)
	return cmd
}
