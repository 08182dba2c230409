package main

import (
	"fmt"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/devbridge/pkg/config"
	daemonutils "github.com/charlie0129/devbridge/pkg/utils/daemon"
)

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	allowNonRootAccess := false

	cmd := &cobra.Command{
		Use:         "install",
		Short:       "Install devbridge daemon (system-wide)",
		GroupID:     gInstallation,
		Annotations: map[string]string{"local": "true"},
		Long: `Install devbridge daemon to launchd (macOS) or systemd (Linux).

This makes devbridge run in the background and automatically start on boot. You must run this command as root.

By default, only root user is allowed to access the devbridge daemon. If you want to allow non-root users to query the daemon, use the --allow-non-root-access flag.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}

			conf.SetAllowNonRootAccess(allowNonRootAccess)
			if allowNonRootAccess {
				logrus.Info("non-root users are allowed to access the devbridge daemon.")
			} else {
				logrus.Info("only root user is allowed to access the devbridge daemon.")
			}

			// The daemon reads the config on start, so it must exist first.
			err = conf.Save()
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to save config")
			}

			err = daemonutils.Install()
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to install daemon: %v. Are you root?", err)
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()

			cmd.Printf("The init system will use current binary (%s) at startup so please make sure you do not move this binary. Once this binary is moved or deleted, you will need to run ``devbridge install'' again.\n", exePath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&allowNonRootAccess, "allow-non-root-access", false, "Allow non-root users to access devbridge daemon.")

	return cmd
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "uninstall",
		Short:       "Uninstall devbridge daemon (system-wide)",
		GroupID:     gInstallation,
		Annotations: map[string]string{"local": "true"},
		Long: `Uninstall devbridge daemon from launchd (macOS) or systemd (Linux).

You must run this command as root.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := daemonutils.Uninstall()
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to uninstall daemon: %v", err)
			}

			fmt.Println("successfully uninstalled")

			cmd.Printf("Your config is kept in %s, in case you want to use `devbridge' again. If you want a complete uninstall, you can remove both config file and devbridge itself manually.\n", configPath)

			return nil
		},
	}
}
