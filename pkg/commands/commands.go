// Package commands wires the podbridge CLI command tree.
package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/podbridge-dev/podbridge/pkg/docker"
	"github.com/podbridge-dev/podbridge/pkg/logging"
)

var Version = "dev"

// DefaultOperatorNamespace is where the podbridge operator and its
// BridgeIntent resources live.
const DefaultOperatorNamespace = "podbridge"

// NewApp returns the root CLI command with all subcommands registered.
func NewApp() *cli.Command {
	var cleanupLogs func()
	return &cli.Command{
		Name:    "podbridge",
		Usage:   "Bridge cluster traffic to local containers",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("PODBRIDGE_LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cleanup, err := logging.Setup(parseLogLevel(c.String("log-level")))
			if err != nil {
				slog.Warn("File logging unavailable", "error", err)
			}
			cleanupLogs = cleanup
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if cleanupLogs != nil {
				cleanupLogs()
			}
			return nil
		},
		Commands: []*cli.Command{
			Bridge(),
			Unbridge(),
		},
	}
}

// clusterFlags are shared by every subcommand that talks to the cluster.
func clusterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "kube-context",
			Usage:   "kubectl context to use (defaults to the current context)",
			Sources: cli.EnvVars("PODBRIDGE_KUBE_CONTEXT"),
		},
		&cli.StringFlag{
			Name:    "operator-namespace",
			Usage:   "Namespace the podbridge operator runs in",
			Value:   DefaultOperatorNamespace,
			Sources: cli.EnvVars("PODBRIDGE_OPERATOR_NAMESPACE"),
		},
		&cli.StringFlag{
			Name:    "network",
			Usage:   "Docker network bridged containers are attached to",
			Value:   docker.DefaultNetwork,
			Sources: cli.EnvVars("PODBRIDGE_NETWORK"),
		},
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
