package cli

import (
	"context"

	"github.com/spf13/cobra"

	"snowflake-admin/internal/model"
	"snowflake-admin/internal/snowflake"
)

func (a *app) roleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage roles and privilege grants",
	}

	var spec snowflake.RoleSpec
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a role",
		Args:  cobra.ExactArgs(1),
		RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
			spec.Name = args[0]
			return client.Role.Create(ctx, spec)
		}),
	}
	create.Flags().StringVar(&spec.Comment, "comment", "", "role comment")
	create.Flags().StringToStringVar(&spec.Tags, "tag", nil, "tag assignment, name=value (repeatable)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List roles",
			Args:  cobra.NoArgs,
			RunE: a.frameRunE(func(ctx context.Context, client *snowflake.Client, args []string) (*model.Frame, error) {
				return client.Role.All(ctx)
			}),
		},
		create,
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Drop a role",
			Args:  cobra.ExactArgs(1),
			RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
				return client.Role.Remove(ctx, args[0])
			}),
		},
		a.privilegeCmd("grant", "Grant a privilege on an object to a role", (*snowflake.Role).GrantPrivilege),
		a.privilegeCmd("revoke", "Revoke a privilege on an object from a role", (*snowflake.Role).RevokePrivilege),
		&cobra.Command{
			Use:   "grant-all-tables <role> <privilege> <schema>",
			Short: "Grant a privilege on every table in a schema",
			Args:  cobra.ExactArgs(3),
			RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
				return client.Role.GrantPrivilegeToAllTables(ctx, args[1], args[2], args[0])
			}),
		},
		&cobra.Command{
			Use:   "grant-imported <role> <database>",
			Short: "Grant imported privileges on a shared database",
			Args:  cobra.ExactArgs(2),
			RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
				return client.Role.GrantImportedPrivileges(ctx, args[1], args[0])
			}),
		},
	)
	return cmd
}

type privilegeFunc func(r *snowflake.Role, ctx context.Context, privilege, objectName string, objectType model.ObjectType, role string) (string, error)

func (a *app) privilegeCmd(use, short string, fn privilegeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <role> <privilege> <object-type> <object-name>",
		Short: short,
		Args:  cobra.ExactArgs(4),
		RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
			objectType, err := model.ParseObjectType(args[2])
			if err != nil {
				return "", err
			}
			return fn(client.Role, ctx, args[1], args[3], objectType, args[0])
		}),
	}
}
