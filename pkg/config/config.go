package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Platform names.
const (
	PlatformHost = "host"
	PlatformMock = "mock"
)

type Config interface {
	// PollInterval is how often the battery is sampled for changes.
	PollInterval() time.Duration
	// ModelTablePath is an optional TOML file with hardware identifier
	// overrides. Empty means built-in names only.
	ModelTablePath() string
	AllowNonRootAccess() bool
	// TCPListenAddr, if set, serves the channels on TCP as well as on the
	// unix socket.
	TCPListenAddr() string
	// Platform is PlatformHost or PlatformMock.
	Platform() string
	// ChannelPrefix prefixes the channel names, e.g. "devbridge/platform".
	ChannelPrefix() string

	SetPollInterval(time.Duration)
	SetModelTablePath(string)
	SetAllowNonRootAccess(bool)
	SetTCPListenAddr(string)
	SetPlatform(string)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error

	LogrusFields() logrus.Fields
}
