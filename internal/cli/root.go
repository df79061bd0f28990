package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"snowflake-admin/internal/config"
	"snowflake-admin/internal/logger"
	"snowflake-admin/internal/snowflake"
	"snowflake-admin/internal/sqltemplate"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

var errNoConnection = errors.New("this command does not connect to Snowflake")

// app holds what subcommands share. The client is built by withClient and
// closed when the command's work is done.
type app struct {
	configPath  string
	templateDir string
	verbose     bool

	out    io.Writer
	cfg    *config.Config
	client *snowflake.Client
}

func Run() ExitCode {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

// NewRootCmd builds the sfctl command tree writing results to out
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:           "sfctl",
		Short:         "Administer a Snowflake account: objects, users, roles and grants.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default ./configs/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&a.templateDir, "templates", "t", "", "SQL template folder (default ./templates or the built-in set)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		a.queryCmd(),
		a.useCmd(),
		a.warehouseCmd(),
		a.whoamiCmd(),
		a.createCmd(),
		a.renderCmd(),
		a.dropCmd(),
		a.truncateCmd(),
		a.insertCmd(),
		a.createContainerCmd("create-schema", "Create a schema in the current database", (*snowflake.Client).CreateSchema),
		a.createContainerCmd("create-database", "Create a database", (*snowflake.Client).CreateDatabase),
		a.templatesCmd(),
		a.userCmd(),
		a.roleCmd(),
		a.tokenCmd(),
	)
	return rootCmd
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

func (a *app) logger() zerolog.Logger {
	cfg := config.LoggingConfig{Level: "warn", Format: "console"}
	if a.verbose {
		cfg.Level = "debug"
	}
	return logger.New(cfg)
}

func (a *app) templateFolder(cfg *config.Config) string {
	if a.templateDir != "" || cfg == nil {
		return a.templateDir
	}
	return cfg.Templates.Dir
}

// snowflake returns the connected-on-demand client built from config
func (a *app) snowflake() (*snowflake.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	sfCfg, err := cfg.Snowflake.ToSnowflakeConfig()
	if err != nil {
		return nil, err
	}

	client, err := snowflake.NewFromConfig(sfCfg, snowflake.Options{
		TemplateFolder:  a.templateFolder(cfg),
		InsertBatchSize: cfg.Snowflake.InsertBatchSize,
		Logger:          a.logger(),
	})
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

// offline returns a client that renders templates but never connects. The
// template folder follows the same precedence as connected commands. Config
// errors only matter when --config was given explicitly.
func (a *app) offline() (*snowflake.Client, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		if a.configPath != "" {
			return nil, err
		}
		cfg = nil
	}

	return snowflake.New(func(context.Context) (*sql.DB, error) {
		return nil, errNoConnection
	}, snowflake.Options{
		Template: sqltemplate.New(a.templateFolder(cfg)),
		Logger:   a.logger(),
	}), nil
}

// withClient runs fn against the configured client and closes it afterwards
func (a *app) withClient(cmd *cobra.Command, fn func(ctx context.Context, client *snowflake.Client) error) (err error) {
	client, err := a.snowflake()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.close())
	}()
	return fn(cmd.Context(), client)
}

func (a *app) close() error {
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}
