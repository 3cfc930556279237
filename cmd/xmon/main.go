// xmon is a terminal dashboard that polls one X/Twitter account and
// shows new posts, rolling counters, and an activity log in real time.
//
// Without a bearer token it runs against a built-in demo feed, so the
// dashboard is fully usable offline.
//
// Usage:
//
//	xmon                          # Monitor the default account
//	xmon -u nasa                  # Monitor @nasa
//	xmon -i 30                    # Poll every 30 seconds
//	xmon --range-start "2026-01-26 09:00" --range-end "2026-01-26 18:00"
//	xmon --log-file xmon.log      # Structured logs without touching the TUI
//	xmon --version                # Print version and exit
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/twbecker/xmon/internal/config"
	"github.com/twbecker/xmon/internal/logging"
	"github.com/twbecker/xmon/internal/monitor"
	"github.com/twbecker/xmon/internal/xapi"
)

// Version is set via ldflags at build time (e.g. -X main.Version=v0.1.0).
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "xmon: %v\n", err)
		os.Exit(1)
	}
}

// boundFlags are the flag names carried into the configuration layer.
// Each one shadows the environment variable of the same setting.
var boundFlags = []string{"username", "interval", "range-start", "range-end", "log-file", "log-level"}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:           "xmon",
		Short:         "X/Twitter account monitor",
		Long:          "Terminal dashboard that polls an X/Twitter account and surfaces new posts as they land.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range boundFlags {
				if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
					return fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
			return run(v)
		},
	}

	flags := cmd.Flags()
	flags.StringP("username", "u", config.DefaultUsername, "account to monitor (without @)")
	flags.IntP("interval", "i", config.DefaultInterval, "update interval in seconds")
	flags.String("range-start", "", "custom range start (e.g. '2026-01-26 09:00')")
	flags.String("range-end", "", "custom range end (e.g. '2026-01-26 18:00')")
	flags.String("log-file", "", "append structured logs to this file")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	return cmd
}

func run(v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log, closeLog, err := logging.New(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closeLog()

	src := xapi.New(cfg.BearerToken, logging.Component(log, "xapi"))

	printBanner(os.Stdout, cfg)
	time.Sleep(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mon := monitor.New(ctx, monitor.Config{
		Username:   cfg.Username,
		Interval:   cfg.Interval,
		RangeStart: cfg.RangeStart,
		RangeEnd:   cfg.RangeEnd,
	}, src, logging.Component(log, "monitor"))
	go mon.Run(ctx)

	p := tea.NewProgram(newModel(mon), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	cancel()

	fmt.Println(stoppedStyle.Render("Monitor stopped."))
	return nil
}

var (
	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#89DCEB")).
			Padding(0, 2)

	bannerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#89DCEB"))

	stoppedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF"))
)

// printBanner announces the session before the alternate screen takes
// over, so the target and cadence stay visible in scrollback.
func printBanner(w io.Writer, cfg *config.Settings) {
	body := fmt.Sprintf("%s\nMonitoring: @%s\nUpdate interval: %ds",
		bannerTitleStyle.Render("X Tweet Monitor"),
		cfg.Username,
		int(cfg.Interval.Seconds()))
	fmt.Fprintln(w, bannerStyle.Render(body))
}
