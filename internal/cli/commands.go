package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snowflake-admin/internal/model"
	"snowflake-admin/internal/snowflake"
)

// statusRunE adapts a status-returning operation to a command body
func (a *app) statusRunE(fn func(ctx context.Context, client *snowflake.Client, args []string) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return a.withClient(cmd, func(ctx context.Context, client *snowflake.Client) error {
			status, err := fn(ctx, client, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, status)
			return nil
		})
	}
}

func (a *app) frameRunE(fn func(ctx context.Context, client *snowflake.Client, args []string) (*model.Frame, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return a.withClient(cmd, func(ctx context.Context, client *snowflake.Client) error {
			frame, err := fn(ctx, client, args)
			if err != nil {
				return err
			}
			printFrame(a.out, frame)
			return nil
		})
	}
}

func (a *app) queryCmd() *cobra.Command {
	var returnType string
	cmd := &cobra.Command{
		Use:   "query <statement | file.sql>",
		Short: "Run a statement; a path ending in .sql runs the file's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := model.ParseReturnType(returnType)
			if err != nil {
				return err
			}
			return a.withClient(cmd, func(ctx context.Context, client *snowflake.Client) error {
				result, err := client.Query(ctx, args[0], rt)
				if err != nil {
					return err
				}
				printResult(a.out, result)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&returnType, "return", "r", "df", "result shape: df, list or log")
	return cmd
}

func (a *app) useCmd() *cobra.Command {
	var warehouse, database, schema string
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Switch warehouse, database or schema and print the resulting context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, client *snowflake.Client) error {
				if err := client.Use(ctx, warehouse, database, schema); err != nil {
					return err
				}
				current, err := client.Warehouse(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "warehouse=%s database=%s schema=%s\n", current, client.Database(), client.Schema())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&warehouse, "warehouse", "", "warehouse to use")
	cmd.Flags().StringVar(&database, "database", "", "database to use")
	cmd.Flags().StringVar(&schema, "schema", "", "schema to use")
	cmd.MarkFlagsOneRequired("warehouse", "database", "schema")
	return cmd
}

func (a *app) warehouseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warehouse",
		Short: "Print the account's default warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, client *snowflake.Client) error {
				if err := client.Connect(ctx); err != nil {
					return err
				}
				name, err := client.Warehouse(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, name)
				return nil
			})
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the account, user, role and namespace of the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd, func(ctx context.Context, client *snowflake.Client) error {
				info, err := client.AccountInfo(ctx)
				if err != nil {
					return err
				}
				printAccountInfo(a.out, info)
				return nil
			})
		},
	}
}

func (a *app) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <type> <definition.json>",
		Short: "Create an object (table, view, task, ...) from a JSON definition",
		Args:  cobra.ExactArgs(2),
		RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
			objectType, err := model.ParseObjectType(args[0])
			if err != nil {
				return "", err
			}
			return client.CreateFromJSON(ctx, args[1], objectType)
		}),
	}
}

func (a *app) renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <type> <definition.json>",
		Short: "Print the CREATE statement for a JSON definition without connecting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			objectType, err := model.ParseObjectType(args[0])
			if err != nil {
				return err
			}
			def, err := model.LoadObjectDefinition(args[1])
			if err != nil {
				return err
			}
			client, err := a.offline()
			if err != nil {
				return err
			}
			stmt, err := client.RenderCreate(def, objectType)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, stmt)
			return nil
		},
	}
}

func (a *app) dropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop <type> <name>",
		Short: "Drop an object if it exists",
		Args:  cobra.ExactArgs(2),
		RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
			objectType, err := model.ParseObjectType(args[0])
			if err != nil {
				return "", err
			}
			return client.Drop(ctx, args[1], objectType)
		}),
	}
}

func (a *app) truncateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "truncate <table>",
		Short: "Remove all rows from a table",
		Args:  cobra.ExactArgs(1),
		RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
			return client.TruncateTable(ctx, args[0])
		}),
	}
}

func (a *app) insertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert <table> <rows.json>",
		Short: `Append rows from a file shaped {"columns": [...], "rows": [[...], ...]}`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var req model.InsertRowsRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("%w: %w", model.ErrInvalidDefinition, err)
			}
			return a.withClient(cmd, func(ctx context.Context, client *snowflake.Client) error {
				n, err := client.InsertData(ctx, args[0], req.Frame())
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%d rows inserted\n", n)
				return nil
			})
		},
	}
}

func (a *app) createContainerCmd(use, short string, create func(*snowflake.Client, context.Context, string, bool) (string, error)) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: a.statusRunE(func(ctx context.Context, client *snowflake.Client, args []string) (string, error) {
			return create(client, ctx, args[0], replace)
		}),
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace an existing object")
	return cmd
}

func (a *app) templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the SQL templates in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.offline()
			if err != nil {
				return err
			}
			names, err := client.Template.List()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "# %s\n", client.Template.Folder())
			for _, name := range names {
				fmt.Fprintln(a.out, name)
			}
			return nil
		},
	}
}
