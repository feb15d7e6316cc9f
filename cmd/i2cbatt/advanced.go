package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/i2cbatt/pkg/battery"
	"github.com/charlie0129/i2cbatt/pkg/events"
)

func NewRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "refresh",
		Short:   "Make the daemon sample the battery now",
		GroupID: gBasic,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := apiClient.Refresh()
			if err != nil {
				return err
			}

			cmd.Println(bold("Battery:"))
			printReading(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func NewHistoryCommand() *cobra.Command {
	var (
		last   time.Duration
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "Show the readings kept by the daemon",
		GroupID: gAdvanced,
		RunE: func(cmd *cobra.Command, _ []string) error {
			readings, err := apiClient.GetHistory(last)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), readings)
			}

			if len(readings) == 0 {
				cmd.Println("No readings.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tRAW\tVOLTAGE\tLEVEL")
			for _, r := range readings {
				fmt.Fprintf(w, "%s\t%d\t%.2f V\t%s\n", r.Time.Local().Format(time.TimeOnly), r.Raw, r.Voltage, r.Level)
			}
			return w.Flush()
		},
	}

	f := cmd.Flags()
	f.DurationVar(&last, "last", 0, "only show readings taken within this duration, e.g. 10m (default all)")
	f.BoolVar(&asJSON, "json", false, "print readings as JSON")

	return cmd
}

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Print charge level changes as they happen",
		GroupID: gAdvanced,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ch, err := apiClient.SubscribeEvents(ctx)
			if err != nil {
				return err
			}

			for ev := range ch {
				ts := time.Now().Format(time.TimeOnly)
				switch ev.Name {
				case events.LevelChanged:
					payload, err := events.DecodeAs[events.LevelChangedEvent](ev)
					if err != nil {
						logrus.Warnf("failed to decode %s event: %v", ev.Name, err)
						continue
					}
					to, err := battery.ParseChargeLevel(payload.To)
					if err != nil {
						logrus.Warnf("unexpected charge level: %v", err)
						continue
					}
					cmd.Printf("%s  %s (%.2f V)\n", ts, levelText(to), payload.Voltage)
				case events.ReadFailed:
					payload, err := events.DecodeAs[events.ReadFailedEvent](ev)
					if err != nil {
						logrus.Warnf("failed to decode %s event: %v", ev.Name, err)
						continue
					}
					cmd.Printf("%s  sample failed: %s\n", ts, payload.Error)
				default:
					logrus.Debugf("ignoring event %s", ev.Name)
				}
			}

			return nil
		},
	}
}

func NewPollIntervalCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "poll-interval [seconds]",
		Short:   "Set how often the daemon samples the battery",
		GroupID: gAdvanced,
		Long: `Set how often the daemon samples the battery, in seconds.

The new interval is saved to the config file and takes effect immediately.`,
		RunE: func(_ *cobra.Command, args []string) error {
			seconds, err := parseIntArg(args, "poll interval")
			if err != nil {
				return err
			}

			ret, err := apiClient.SetPollInterval(time.Duration(seconds) * time.Second)
			if err != nil {
				return fmt.Errorf("failed to set poll interval: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			logrus.Infof("successfully set poll interval to %ds", seconds)

			return nil
		},
	}
}
