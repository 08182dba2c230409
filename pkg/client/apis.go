package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/devbridge/pkg/bridge"
)

// InvokeMethod calls method on the platform channel and decodes the result
// into out. Errors reported by the bridge are returned as *bridge.Error.
func (c *Client) InvokeMethod(ctx context.Context, method string, out any) error {
	payload, err := json.Marshal(bridge.MethodCall{Method: method})
	if err != nil {
		return err
	}

	code, body, err := c.do(ctx, http.MethodPost, "/channels/"+bridge.PlatformChannel, string(payload))
	if err != nil {
		return err
	}
	if code == http.StatusNotFound {
		return fmt.Errorf("/channels/%s: %w", bridge.PlatformChannel, ErrNotFound)
	}

	var resp bridge.MethodResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("got %d: %s", code, string(body))
	}

	switch {
	case resp.NotImplemented:
		return fmt.Errorf("%s: %w", method, ErrNotImplemented)
	case resp.Error != nil:
		return resp.Error
	case code < 200 || code > 299:
		return fmt.Errorf("got %d: %s", code, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal result of %s", method)
	}
	return nil
}

func (c *Client) GetDeviceModel(ctx context.Context) (string, error) {
	var model string
	if err := c.InvokeMethod(ctx, string(bridge.MethodGetDeviceModel), &model); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get device model")
	}
	return model, nil
}

func (c *Client) GetOSVersion(ctx context.Context) (string, error) {
	var v string
	if err := c.InvokeMethod(ctx, string(bridge.MethodGetOSVersion), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get os version")
	}
	return v, nil
}

// GetBatteryLevel returns the battery level. When the device has no readable
// battery the returned error satisfies errors.Is(err, bridge.ErrUnavailable).
func (c *Client) GetBatteryLevel(ctx context.Context) (int, error) {
	var level int
	if err := c.InvokeMethod(ctx, string(bridge.MethodGetBatteryLevel), &level); err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to get battery level")
	}
	return level, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}
	return v, nil
}

func (c *Client) GetSubscription() (*bridge.SubscriptionInfo, error) {
	ret, err := c.Get("/subscription")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get subscription")
	}
	var info bridge.SubscriptionInfo
	if err := json.Unmarshal([]byte(ret), &info); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal subscription")
	}
	return &info, nil
}

// GetChannels returns the qualified channel names keyed by channel.
func (c *Client) GetChannels() (map[string]string, error) {
	ret, err := c.Get("/channels")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get channels")
	}
	channels := map[string]string{}
	if err := json.Unmarshal([]byte(ret), &channels); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal channels")
	}
	return channels, nil
}

// IsUnavailable reports whether err means the battery could not be read.
func IsUnavailable(err error) bool {
	return errors.Is(err, bridge.ErrUnavailable)
}
