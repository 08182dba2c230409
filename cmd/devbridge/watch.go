package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/devbridge/pkg/events"
)

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Print battery level changes as they happen",
		GroupID: gQuery,
		Args:    cobra.NoArgs,
		Long: `Subscribe to the battery channel and print every battery level change until interrupted.

The daemon serves one subscriber at a time. Starting another watch ends this one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ch, err := apiClient.SubscribeBattery(ctx)
			if err != nil {
				return err
			}

			for ev := range ch {
				ts := time.Now().Format(time.TimeOnly)
				switch ev.Name {
				case events.BatteryLevel:
					level, err := events.DecodeAs[int](ev)
					if err != nil {
						logrus.Warnf("malformed battery event %s: %v", ev.Data, err)
						continue
					}
					cmd.Printf("%s  %s\n", ts, levelText(level))
				case events.BatteryError:
					e, err := events.DecodeAs[events.BatteryErrorEvent](ev)
					if err != nil {
						logrus.Warnf("malformed error event %s: %v", ev.Data, err)
						continue
					}
					cmd.Printf("%s  %s\n", ts, color.YellowString("%s (%s)", e.Message, e.Code))
				case events.StreamEnd:
					logrus.Info("stream ended by the daemon, another subscriber may have replaced this one")
					return nil
				default:
					logrus.Debugf("ignoring event %q", ev.Name)
				}
			}

			return nil
		},
	}
}
