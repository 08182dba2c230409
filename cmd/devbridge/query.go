package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newQueryCommand returns a command printing the value get returns, as JSON
// when --json is given.
func newQueryCommand(use, short, long string, get func(ctx context.Context) (any, error)) *cobra.Command {
	asJSON := false

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    long,
		GroupID: gQuery,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := get(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				b, err := json.Marshal(v)
				if err != nil {
					return err
				}
				cmd.Println(string(b))
				return nil
			}
			cmd.Println(fmt.Sprint(v))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON.")

	return cmd
}

func NewModelCommand() *cobra.Command {
	return newQueryCommand(
		"model",
		"Print the device model",
		`Print the human-readable device model, e.g. "iPhone 15 Pro" or "Google Pixel 8".`,
		func(ctx context.Context) (any, error) { return apiClient.GetDeviceModel(ctx) },
	)
}

func NewOSVersionCommand() *cobra.Command {
	return newQueryCommand(
		"os-version",
		"Print the operating system version",
		`Print the operating system name and version, with the API level where the OS has one, e.g. "Android 14 (API 34)".`,
		func(ctx context.Context) (any, error) { return apiClient.GetOSVersion(ctx) },
	)
}

func NewBatteryCommand() *cobra.Command {
	return newQueryCommand(
		"battery",
		"Print the battery level",
		`Print the current battery level as a percentage from 0 to 100.

Fails with "Battery level not available." when the device has no battery the OS can read.`,
		func(ctx context.Context) (any, error) { return apiClient.GetBatteryLevel(ctx) },
	)
}
