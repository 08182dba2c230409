package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/devbridge/pkg/bridge"
	"github.com/charlie0129/devbridge/pkg/client"
	"github.com/charlie0129/devbridge/pkg/utils/env"
	"github.com/charlie0129/devbridge/pkg/version"
)

var (
	logLevel       = "info"
	unixSocketPath = "/var/run/devbridge.sock"
	configPath     = "/etc/devbridge.json"
)

var (
	gQuery        = "Query:"
	gAdvanced     = "Advanced:"
	gInstallation = "Installation:"
	commandGroups = []string{
		gQuery,
		gAdvanced,
		gInstallation,
	}
)

var apiClient *client.Client

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: devbridge daemon is not running")
		fmt.Fprintln(os.Stderr, "Is the daemon running? Have you installed it?")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(os.Stderr, "  - Or reinstall the daemon with the '--allow-non-root-access' flag to grant permissions to your user")
	case client.IsUnavailable(err):
		fmt.Fprintln(os.Stderr, "\nError: "+bridge.ErrUnavailable.Message)
		fmt.Fprintln(os.Stderr, "This device has no battery the OS can read.")
	}
}

func main() {
	// devbridge does not need to use much.
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(2)
	}

	// Flag defaults may come from DEVBRIDGE_* variables in a .env file.
	_ = env.Ensure()

	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devbridge",
		Short: "devbridge reports device model, OS version and battery level",
		Long: `devbridge reports device model, OS version and battery level.

A daemon answers queries on the platform channel and streams battery level
changes on the battery channel. The other commands talk to that daemon.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			err := setupLogger()
			if err != nil {
				return err
			}
			if p := env.LoadedPath(); p != "" {
				logrus.WithField("dotenv", p).Debug("flag defaults loaded from .env")
			}

			apiClient = client.NewClient(unixSocketPath)

			// The daemon itself and local-only commands have nobody to compare with.
			if cmd.Annotations["local"] == "true" {
				return nil
			}

			if daemonVersion, err := apiClient.GetVersion(); err == nil {
				if daemonVersion != version.Version {
					logrus.WithFields(logrus.Fields{
						"clientVersion": version.Version,
						"daemonVersion": daemonVersion,
					}).Warn("Version mismatch between client and daemon. devbridge may not work as expected.")
				}
			} else if errors.Is(err, client.ErrNotFound) {
				logrus.Error("devbridge daemon is too old to report its version.")
			}

			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", env.String("LOG_LEVEL", logLevel), "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", env.String("CONFIG", configPath), "config file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", env.String("SOCKET", unixSocketPath), "devbridge daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewModelCommand(),
		NewOSVersionCommand(),
		NewBatteryCommand(),
		NewWatchCommand(),
		NewStatusCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}
