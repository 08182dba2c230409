package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/devbridge/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		PollIntervalMs:     ptr.To(5000),
		ModelTablePath:     ptr.To(""),
		AllowNonRootAccess: ptr.To(false),
		TCPListenAddr:      ptr.To(""),
		Platform:           ptr.To(PlatformHost),
		ChannelPrefix:      ptr.To("devbridge"),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	PollIntervalMs     *int    `json:"pollIntervalMs,omitempty"`
	ModelTablePath     *string `json:"modelTablePath,omitempty"`
	AllowNonRootAccess *bool   `json:"allowNonRootAccess,omitempty"`
	TCPListenAddr      *string `json:"tcpListenAddr,omitempty"`
	Platform           *string `json:"platform,omitempty"`
	ChannelPrefix      *string `json:"channelPrefix,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		PollIntervalMs:     ptr.To(int(c.PollInterval() / time.Millisecond)),
		ModelTablePath:     ptr.To(c.ModelTablePath()),
		AllowNonRootAccess: ptr.To(c.AllowNonRootAccess()),
		TCPListenAddr:      ptr.To(c.TCPListenAddr()),
		Platform:           ptr.To(c.Platform()),
		ChannelPrefix:      ptr.To(c.ChannelPrefix()),
	}

	return rawConfig, nil
}

// valueOr returns *v, or *def if v is nil.
func valueOr[T any](v, def *T) T {
	if v != nil {
		return *v
	}
	return *def
}

func (f *File) PollInterval() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		panic("config is nil")
	}

	ms := valueOr(f.c.PollIntervalMs, defaultFileConfig.PollIntervalMs)
	if ms <= 0 {
		ms = *defaultFileConfig.PollIntervalMs
	}

	return time.Duration(ms) * time.Millisecond
}

func (f *File) ModelTablePath() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		panic("config is nil")
	}

	return valueOr(f.c.ModelTablePath, defaultFileConfig.ModelTablePath)
}

func (f *File) AllowNonRootAccess() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		panic("config is nil")
	}

	return valueOr(f.c.AllowNonRootAccess, defaultFileConfig.AllowNonRootAccess)
}

func (f *File) TCPListenAddr() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		panic("config is nil")
	}

	return valueOr(f.c.TCPListenAddr, defaultFileConfig.TCPListenAddr)
}

func (f *File) Platform() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		panic("config is nil")
	}

	return valueOr(f.c.Platform, defaultFileConfig.Platform)
}

func (f *File) ChannelPrefix() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		panic("config is nil")
	}

	return valueOr(f.c.ChannelPrefix, defaultFileConfig.ChannelPrefix)
}

func (f *File) SetPollInterval(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.c == nil {
		panic("config is nil")
	}
	f.c.PollIntervalMs = ptr.To(int(d / time.Millisecond))
}

func (f *File) SetModelTablePath(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.c == nil {
		panic("config is nil")
	}
	f.c.ModelTablePath = &p
}

func (f *File) SetAllowNonRootAccess(b bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.c == nil {
		panic("config is nil")
	}

	f.c.AllowNonRootAccess = &b
}

func (f *File) SetTCPListenAddr(addr string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.c == nil {
		panic("config is nil")
	}

	f.c.TCPListenAddr = &addr
}

func (f *File) SetPlatform(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.c == nil {
		panic("config is nil")
	}

	f.c.Platform = &p
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}

	if conf.Platform != nil && *conf.Platform != PlatformHost && *conf.Platform != PlatformMock {
		return pkgerrors.Errorf("invalid platform %q in %s, must be %q or %q", *conf.Platform, f.filepath, PlatformHost, PlatformMock)
	}

	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

// LogrusFields takes the read lock once per field, so a concurrent Load may
// interleave between fields.
func (f *File) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"pollInterval":       f.PollInterval(),
		"modelTablePath":     f.ModelTablePath(),
		"allowNonRootAccess": f.AllowNonRootAccess(),
		"tcpListenAddr":      f.TCPListenAddr(),
		"platform":           f.Platform(),
		"channelPrefix":      f.ChannelPrefix(),
	}
}
