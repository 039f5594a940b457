// Package cli implements the CLI adapter for docker-local-proxy.
// The root command runs one sync pass and prints a summary.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bnema/docker-local-proxy/internal/app"
	"github.com/bnema/docker-local-proxy/internal/config"
	"github.com/bnema/docker-local-proxy/internal/domain"
	"github.com/bnema/docker-local-proxy/internal/logging"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// runFunc performs the sync once configuration and logging are ready.
type runFunc func(ctx context.Context, cfg config.Config, log zerolog.Logger) (*domain.Report, error)

// flagBindings maps plain flags onto config keys.
var flagBindings = map[string]string{
	"filterName":  "discovery.filter_name",
	"networkOnly": "mode.network_only",
	"hostsOnly":   "mode.hosts_only",
	"dry-run":     "mode.dry_run",
	"project-dir": "project.dir",
}

// Execute runs the CLI and returns the process exit code.
func Execute(version, commit, date string) int {
	SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_ = cliWriteLine(rootCmd.ErrOrStderr(), cliRenderError(err.Error()))
		return 1
	}
	return 0
}

// NewRootCmd creates the root command for the docker-local-proxy CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(app.Run)
}

func newRootCmd(run runFunc) *cobra.Command {
	var (
		configPath string
		httpPorts  string
		tcpPorts   string
	)
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "docker-local-proxy",
		Short: "Route local hostnames and ports to running containers",
		Long: `docker-local-proxy discovers running containers whose name contains a filter,
gives each one a hostname, and keeps an nginx proxy in sync with them.

It regenerates the proxy's HTTP and TCP configs, updates a marked region of
/etc/hosts, rewrites the published ports of the proxy service in the compose
manifest and runs "docker compose up -d" for the proxy project.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := setPortFlag(cmd, v, "httpPort", httpPorts, "ports.http"); err != nil {
				return err
			}
			if err := setPortFlag(cmd, v, "tcpPort", tcpPorts, "ports.tcp"); err != nil {
				return err
			}

			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}
			return runSync(cmd, cfg, run)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&httpPorts, "httpPort", "p", "80", "HTTP ports the proxy listens on, comma-separated")
	flags.StringVarP(&tcpPorts, "tcpPort", "q", "5432", "TCP base ports, comma-separated; container i listens on base+i")
	flags.StringP("filterName", "f", config.DefaultFilterName, "Only route containers whose name contains this value")
	flags.BoolP("networkOnly", "n", false, "Only create the proxy network")
	flags.BoolP("hostsOnly", "o", false, "Only update the hosts file")
	flags.Bool("dry-run", false, "Print the generated configs without writing anything")
	flags.String("project-dir", ".", "Directory holding the proxy compose manifest and generated configs")
	flags.StringVarP(&configPath, "config", "c", "", "Path to config file (default: docker-local-proxy.toml in the project directory)")
	rootCmd.MarkFlagsMutuallyExclusive("networkOnly", "hostsOnly")

	for flag, key := range flagBindings {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setPortFlag overrides key with the parsed port list when the flag was given.
func setPortFlag(cmd *cobra.Command, v *viper.Viper, flag, raw, key string) error {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	ports, err := config.ParsePortList(raw)
	if err != nil {
		return fmt.Errorf("invalid --%s: %w", flag, err)
	}
	v.Set(key, ports)
	return nil
}

func runSync(cmd *cobra.Command, cfg config.Config, run runFunc) error {
	log, cleanup, err := logging.New(cfg.LogConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer cleanup()

	report, runErr := run(cmd.Context(), cfg, log)
	if report != nil {
		if err := renderReport(cmd.OutOrStdout(), report); err != nil {
			log.Warn().Err(err).Msg("failed to print summary")
		}
	}
	if runErr != nil {
		log.Error().Err(runErr).Msg("sync failed")
	}
	return runErr
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("docker-local-proxy %s\n", Version)
			cmd.Printf("Commit: %s\n", Commit)
			cmd.Printf("Build Date: %s\n", BuildDate)
		},
	}
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(version, commit, date string) {
	if version != "" {
		Version = version
	}
	if commit != "" {
		Commit = commit
	}
	if date != "" {
		BuildDate = date
	}
}
