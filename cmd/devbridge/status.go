package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/charlie0129/devbridge/pkg/bridge"
	"github.com/charlie0129/devbridge/pkg/client"
)

type statusData struct {
	version      string
	model        string
	osVersion    string
	battery      int
	batteryErr   error
	channels     map[string]string
	subscription *bridge.SubscriptionInfo
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData(ctx context.Context) (*statusData, error) {
	v, err := apiClient.GetVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get daemon version: %w", err)
	}

	model, err := apiClient.GetDeviceModel(ctx)
	if err != nil {
		return nil, err
	}

	osVersion, err := apiClient.GetOSVersion(ctx)
	if err != nil {
		return nil, err
	}

	// A missing battery is part of the status, not a failure.
	battery, batteryErr := apiClient.GetBatteryLevel(ctx)
	if batteryErr != nil && !client.IsUnavailable(batteryErr) {
		return nil, batteryErr
	}

	channels, err := apiClient.GetChannels()
	if err != nil {
		return nil, err
	}

	sub, err := apiClient.GetSubscription()
	if err != nil {
		return nil, err
	}

	return &statusData{
		version:      v,
		model:        model,
		osVersion:    osVersion,
		battery:      battery,
		batteryErr:   batteryErr,
		channels:     channels,
		subscription: sub,
	}, nil
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gQuery,
		Short:   "Get the current status of devbridge",
		Long:    `Get device info, battery level and the state of the daemon channels.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Println(bold("Device:"))
			cmd.Printf("  Model: %s\n", bold("%s", data.model))
			cmd.Printf("  OS: %s\n", bold("%s", data.osVersion))
			cmd.Println()

			cmd.Println(bold("Battery:"))
			if data.batteryErr != nil {
				cmd.Printf("  Level: %s\n", color.YellowString("not available"))
			} else {
				cmd.Printf("  Level: %s\n", levelText(data.battery))
			}
			cmd.Println()

			cmd.Println(bold("Daemon:"))
			cmd.Printf("  Version: %s\n", bold("%s", data.version))
			cmd.Printf("  Platform channel: %s\n", bold("%s", data.channels[bridge.PlatformChannel]))
			cmd.Printf("  Battery channel: %s\n", bold("%s", data.channels[bridge.BatteryChannel]))
			cmd.Printf("  Battery subscriber: %s\n", bool2Text(data.subscription.Active))
			if data.subscription.Active {
				cmd.Printf("    ID: %s\n", data.subscription.ID)
				cmd.Printf("    Since: %s\n", data.subscription.Since.Format(time.DateTime))
			}

			return nil
		},
	}
}

func levelText(level int) string {
	var c *color.Color
	switch {
	case level <= 20:
		c = color.New(color.Bold, color.FgRed)
	case level <= 50:
		c = color.New(color.Bold, color.FgYellow)
	default:
		c = color.New(color.Bold, color.FgGreen)
	}
	return c.Sprintf("%d%%", level)
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
