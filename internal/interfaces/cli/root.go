// Package cli implements the nebulactl command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nebulahq/hacknebula/internal/config"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/client"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type cliContextKey struct{}

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Timeout      time.Duration
	ServerAddr   string
	UserID       string
	UserName     string
	Roles        []string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Client       *client.Client
	OutputFormat string
}

// NewRootCommand builds the root command with global flags and all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "nebulactl",
		Short:   "nebulactl controls a HackNebula hackathon from the terminal",
		Long:    "nebulactl is the command line client for the HackNebula platform.\nIt talks to the API server with the same identity headers the web\nclient uses, so any operation the API allows is available here.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./configs/config.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "request timeout")
	pf.StringVar(&opts.ServerAddr, "server", "", "API server address (default from config)")
	pf.StringVar(&opts.UserID, "as-user", os.Getenv("NEBULA_USER_ID"), "user ID to act as")
	pf.StringVar(&opts.UserName, "as-name", os.Getenv("NEBULA_USER_NAME"), "display name to act as")
	pf.StringSliceVar(&opts.Roles, "roles", nil, "roles to act with (participant, organizer, judge, investor)")

	cmd.AddCommand(
		newTeamsCmd(),
		newMapCmd(),
		newScheduleCmd(),
		newFeedCmd(),
	)

	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:      opts.LogLevel,
		Format:     "console",
		OutputPath: "stderr",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	addr := opts.ServerAddr
	if addr == "" {
		addr = "http://" + cfg.Server.Addr()
	}
	userID := opts.UserID
	if userID == "" {
		return fmt.Errorf("no identity: set --as-user or NEBULA_USER_ID")
	}

	api, err := client.NewClient(addr, client.Identity{
		UserID: userID,
		Name:   opts.UserName,
		Roles:  opts.Roles,
	}, client.WithTimeout(opts.Timeout))
	if err != nil {
		return fmt.Errorf("init API client: %w", err)
	}

	ctx := context.WithValue(cmd.Context(), cliContextKey{}, &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Client:       api,
		OutputFormat: opts.OutputFormat,
	})
	cmd.SetContext(ctx)
	return nil
}

// cliContext extracts the CLIContext stored by persistentPreRun.
func cliContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("command context is nil")
	}
	c, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || c == nil {
		return nil, fmt.Errorf("CLI context not initialized")
	}
	return c, nil
}

// printResult renders data in the configured output format.
func printResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := cliContext(cmd)
	if err == nil && strings.EqualFold(cliCtx.OutputFormat, "json") {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	switch v := data.(type) {
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	case fmt.Stringer:
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", v)
	}
	return nil
}

// Execute runs the CLI.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
