package env

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Prefix is prepended to every variable devbridge reads.
const Prefix = "DEVBRIDGE_"

var (
	loadOnce   sync.Once
	loadedPath string
	loadErr    error
)

// Ensure loads the first .env file found from the current working directory up
// to the filesystem root. Variables already set in the environment win.
// Subsequent calls are no-ops.
func Ensure() error {
	// Keep tests hermetic unless asked otherwise.
	if runningUnderGoTest() && os.Getenv("GOTEST_LOAD_DOTENV") != "1" {
		return nil
	}
	loadOnce.Do(func() {
		path, err := findDotEnv()
		if err != nil {
			loadErr = err
			logrus.Debugf("failed to search .env: %v", err)
			return
		}
		if path == "" {
			return
		}
		if err := godotenv.Load(path); err != nil {
			loadErr = err
			logrus.WithField("dotenv", path).Warnf("failed to load .env: %v", err)
			return
		}
		loadedPath = path
		logrus.WithField("dotenv", path).Debug("loaded .env")
	})
	return loadErr
}

// LoadedPath returns the resolved .env path if one was loaded, otherwise "".
func LoadedPath() string {
	return loadedPath
}

// String returns DEVBRIDGE_<key>, or def if it is unset or empty.
func String(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(Prefix + key)); v != "" {
		return v
	}
	return def
}

// Bool returns DEVBRIDGE_<key> parsed as a bool, or def if it is unset or
// malformed.
func Bool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(Prefix + key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Warnf("ignoring %s%s=%q: %v", Prefix, key, v, err)
		return def
	}
	return b
}

func runningUnderGoTest() bool {
	if strings.HasSuffix(os.Args[0], ".test") {
		return true
	}
	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return false
}

func findDotEnv() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(wd, ".env")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return "", nil
		}
		wd = parent
	}
}
