// Package main provides the entry point for the swcr CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/dgallion1/swcr/internal/config"
	"github.com/dgallion1/swcr/internal/logging"
	"github.com/dgallion1/swcr/internal/output"
)

// Build info set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swcr",
		Short: "Build source listings for software copyright filings",
		Long: `swcr collects source files, strips comments and blank lines, and lays the
code out as a paginated DOCX or PDF with a running header, ready to attach
to a software copyright registration.

Settings are read from built-in defaults, then the --config YAML file, then
SWCR_* environment variables, then command-line flags.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				err := output.NewUserError("no command specified. Run 'swcr --help' for usage")
				newPrinter(cmd).Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().String("config", "", "YAML settings file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug detail")
	cmd.PersistentFlags().String("log-format", logging.FormatText, "Log format: text or json")
	cmd.PersistentFlags().Bool("json", false, "Print results as JSON")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always or never")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newManualCmd())
	cmd.AddCommand(newInspectCmd())
	return cmd
}

// lookupFlag finds a flag on cmd or among the root's persistent flags.
func lookupFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

func isJSONMode(cmd *cobra.Command) bool {
	return lookupFlag(cmd, "json") == "true"
}

func newPrinter(cmd *cobra.Command) *output.Printer {
	w := cmd.OutOrStdout()
	color := output.ResolveColorMode(lookupFlag(cmd, "color"), output.IsTTY(w))
	return output.NewPrinter(w, isJSONMode(cmd), color).WithStderr(cmd.ErrOrStderr())
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	w := cmd.ErrOrStderr()
	color := output.ResolveColorMode(lookupFlag(cmd, "color"), output.IsTTY(w))
	log, err := logging.New(w, lookupFlag(cmd, "log-format"), lookupFlag(cmd, "verbose") == "true", color)
	if err != nil {
		return nil, output.NewUserErrorWithCause("invalid --log-format", err)
	}
	return log, nil
}

// loadConfig returns the defaults overlaid with the --config file and the
// environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if path := lookupFlag(cmd, "config"); path != "" {
		if err := config.LoadFile(&cfg, path); err != nil {
			return cfg, output.NewUserErrorWithCause("load config", err)
		}
	}
	config.ApplyEnv(&cfg)
	return cfg, nil
}
