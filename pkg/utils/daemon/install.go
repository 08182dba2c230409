package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// exePlaceholder is replaced with the devbridge binary path in service files.
const exePlaceholder = "/path/to/devbridge"

// service describes how the host init system runs the daemon.
type service struct {
	// path is where the service file is written.
	path string
	// template is the service file, referring to the binary as exePlaceholder.
	template string
	// start and stop are run after writing and before removing the file.
	start [][]string
	stop  [][]string
}

func (s service) render(exePath string) string {
	return strings.ReplaceAll(s.template, exePlaceholder, exePath)
}

func run(cmds [][]string) error {
	for _, c := range cmds {
		logrus.Debugf("running %s", strings.Join(c, " "))
		if out, err := exec.Command(c[0], c[1:]...).CombinedOutput(); err != nil {
			return fmt.Errorf("%s: %w: %s", strings.Join(c, " "), err, strings.TrimSpace(string(out)))
		}
	}
	return nil
}

// Install registers the current executable with the init system and starts it.
func Install() error {
	svc, err := hostService()
	if err != nil {
		return err
	}

	// Get the path to the current executable
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get the path to the current executable: %w", err)
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("failed to get the absolute path to the current executable: %w", err)
	}

	err = os.Chmod(exePath, 0755)
	if err != nil {
		return fmt.Errorf("failed to chmod the current executable to 0755: %w", err)
	}

	logrus.Infof("current executable path: %s", exePath)

	dir := filepath.Dir(svc.path)
	logrus.Infof("writing service file to %s", dir)

	// mkdir -p
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	// warn if the file already exists
	_, err = os.Stat(svc.path)
	if err == nil {
		logrus.Warnf("%s already exists, overwriting", svc.path)
	}

	err = os.WriteFile(svc.path, []byte(svc.render(exePath)), 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", svc.path, err)
	}

	// chown root
	err = os.Chown(svc.path, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to chown %s: %w", svc.path, err)
	}

	logrus.Infof("starting devbridge")

	if err := run(svc.start); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	return nil
}

// Uninstall stops the daemon and removes its service file.
func Uninstall() error {
	svc, err := hostService()
	if err != nil {
		return err
	}

	logrus.Infof("stopping devbridge")

	if err := run(svc.stop); err != nil {
		return fmt.Errorf("failed to stop daemon: %w. Are you root?", err)
	}

	logrus.Infof("removing service file")

	// if the file doesn't exist, we don't need to remove it
	_, err = os.Stat(svc.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", svc.path, err)
	}

	err = os.Remove(svc.path)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w. Are you root?", svc.path, err)
	}

	return nil
}
