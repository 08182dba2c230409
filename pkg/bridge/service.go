package bridge

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/devbridge/pkg/device"
)

// Handler handles platform channel calls.
type Handler interface {
	Handle(ctx context.Context, req Request) Result
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(ctx context.Context, req Request) Result

// Handle calls f(ctx, req).
func (f HandlerFunc) Handle(ctx context.Context, req Request) Result {
	return f(ctx, req)
}

// Service answers point-in-time device queries. Nothing is cached: every call
// reads the platform again.
type Service struct {
	platform device.Platform
	models   *device.ModelTable
}

var _ Handler = &Service{}

// NewService returns a Service reading from p. models resolves hardware
// identifiers to marketing names; nil leaves them unresolved.
func NewService(p device.Platform, models *device.ModelTable) *Service {
	return &Service{
		platform: p,
		models:   models,
	}
}

// GetDeviceModel returns a human-readable device model. It never fails.
func (s *Service) GetDeviceModel() string {
	return s.platform.Identity().DisplayName(s.models)
}

// GetOSVersion returns the formatted OS version. It never fails.
func (s *Service) GetOSVersion() string {
	return s.platform.OSVersion().String()
}

// GetBatteryLevel returns the battery level in [0,100], or ErrUnavailable.
func (s *Service) GetBatteryLevel() (int, error) {
	pct, err := s.platform.BatteryPercentage()
	if err != nil {
		logrus.WithError(err).Debug("battery level not available")
		return 0, toBridgeError(err)
	}
	return pct, nil
}

// Handle implements Handler.
func (s *Service) Handle(_ context.Context, req Request) Result {
	switch req.(type) {
	case GetDeviceModel:
		return Success(s.GetDeviceModel())
	case GetOSVersion:
		return Success(s.GetOSVersion())
	case GetBatteryLevel:
		pct, err := s.GetBatteryLevel()
		if err != nil {
			return Failure(toBridgeError(err))
		}
		return Success(pct)
	default:
		logrus.WithField("method", req.Method()).Debug("method not implemented")
		return NotImplemented()
	}
}
