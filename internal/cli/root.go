// Package cli implements the outline-fit command line: headless placement
// rendering, sample product creation and config management.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"outline-fit/internal/config"
	"outline-fit/internal/logging"
	"outline-fit/internal/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// GUIFunc starts the desktop application. It blocks until the window closes.
type GUIFunc func(cfg *config.Config, configPath string, logger *zap.Logger) error

// runtime carries state resolved in PersistentPreRunE to the subcommands.
type runtime struct {
	configPath string
	logLevel   string

	cfg     *config.Config
	logger  *zap.Logger
	cleanup func()
}

// NewRootCommand builds the command tree. With a nil gui the root command
// prints help.
func NewRootCommand(gui GUIFunc) *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "outline-fit",
		Short:         "Fit a photo to a body outline and create sample products",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			rt.close()
		},
	}
	root.SetVersionTemplate(version.String() + "\n")
	root.PersistentFlags().StringVarP(&rt.configPath, "config", "c", config.DefaultPath(), "path to config.yaml")
	root.PersistentFlags().StringVar(&rt.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	if gui != nil {
		root.RunE = func(cmd *cobra.Command, args []string) error {
			return gui(rt.cfg, rt.configPath, rt.logger)
		}
	}

	root.AddCommand(
		newPlaceCommand(rt),
		newCreateProductCommand(rt),
		newConfigCommand(rt),
		newVersionCommand(),
	)
	return root
}

func (rt *runtime) init() error {
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return err
	}
	if rt.logLevel != "" {
		cfg.Logging.Level = rt.logLevel
	}
	logger, cleanup, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	rt.cfg = cfg
	rt.logger = logger
	rt.cleanup = cleanup
	logger.Debug("configuration loaded", zap.String("path", rt.configPath))
	return nil
}

func (rt *runtime) close() {
	if rt.cleanup != nil {
		rt.cleanup()
		rt.cleanup = nil
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// The version command needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func newConfigCommand(rt *runtime) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to --config",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && fileExists(rt.configPath) {
				return fmt.Errorf("%s already exists (use --force to overwrite)", rt.configPath)
			}
			if err := config.DefaultConfig().Save(rt.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", rt.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfig(cmd.OutOrStdout(), rt.cfg)
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}

// printConfig writes cfg as YAML with the access token masked.
func printConfig(w io.Writer, cfg *config.Config) error {
	masked := *cfg
	if masked.Shop.AccessToken != "" {
		masked.Shop.AccessToken = "********"
	}
	data, err := yaml.Marshal(&masked)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Execute runs root until it returns or the process is interrupted, printing
// any error to stderr. It returns the process exit code.
func Execute(root *cobra.Command) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}
