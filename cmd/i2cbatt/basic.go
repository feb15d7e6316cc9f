package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/i2cbatt/pkg/battery"
	"github.com/charlie0129/i2cbatt/pkg/config"
	"github.com/charlie0129/i2cbatt/pkg/i2c"
	"github.com/charlie0129/i2cbatt/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)

			daemonVersion, err := apiClient.GetVersion()
			if err != nil {
				logrus.Debugf("failed to get daemon version: %v", err)
				return
			}
			if daemonVersion != version.Version {
				logrus.WithFields(logrus.Fields{
					"clientVersion": version.Version,
					"daemonVersion": daemonVersion,
				}).Warn("Version mismatch between client and daemon. Reinstall the daemon with this binary.")
			}
		},
	}
}

func NewReadCommand() *cobra.Command {
	var (
		bus     int
		mockRaw int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:     "read",
		Short:   "Sample the battery once, without the daemon",
		GroupID: gBasic,
		Long: `Sample the battery once by talking to the ADC directly.

The bus number comes from the config file unless --bus is given. A negative bus selects the first I2C bus of the host. Do not run this while the daemon polls the same bus if your I2C driver does not serialize access.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("bus") {
				bus = conf.Bus()
			}

			opts := battery.Options{}
			if bus >= 0 {
				opts.Bus = &bus
			}
			if mockRaw >= 0 {
				if mockRaw > 0xFFFF {
					return fmt.Errorf("mock raw value %d does not fit in 16 bits", mockRaw)
				}
				logrus.Warnf("using mock ADC returning %d", mockRaw)
				opts.Opener = i2c.NewMock(map[byte][]byte{
					battery.SampleRegister: {byte(mockRaw >> 8), byte(mockRaw)},
				})
			}
			m, err := battery.New(opts)
			if err != nil {
				return err
			}
			defer func() {
				if err := m.Close(); err != nil {
					logrus.Warnf("failed to close device: %v", err)
				}
			}()

			r, err := m.Read()
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), r)
			}

			cmd.Println(bold("Battery:"))
			printReading(cmd.OutOrStdout(), &r)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&bus, "bus", 1, "I2C bus number (negative for the host default)")
	f.IntVar(&mockRaw, "mock-raw", -1, "use a simulated ADC returning this raw code instead of real hardware")
	f.BoolVar(&asJSON, "json", false, "print the reading as JSON")

	return cmd
}

func NewStatusCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of i2cbatt",
		Long:    `Get the last battery reading and the configuration of the daemon.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := apiClient.GetStatus()
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			rawConf, err := apiClient.GetConfig()
			if err != nil {
				return fmt.Errorf("failed to get config: %w", err)
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"status": status,
					"config": rawConf,
				})
			}

			conf := config.NewFileFromConfig(rawConf, "")

			cmd.Println(bold("Battery status:"))
			if status.Reading != nil {
				printReading(cmd.OutOrStdout(), status.Reading)
				cmd.Printf("  Age: %s\n", bold("%s", time.Since(status.Reading.Time).Round(time.Second)))
			} else {
				cmd.Println("  No reading yet.")
			}
			if status.LastError != "" {
				cmd.Printf("  Last sample failed: %s\n", bold("%s", status.LastError))
			}

			cmd.Println()

			cmd.Println(bold("Daemon configuration:"))
			if conf.Bus() >= 0 {
				cmd.Printf("  I2C bus: %s\n", bold("%d", conf.Bus()))
			} else {
				cmd.Printf("  I2C bus: %s\n", bold("host default"))
			}
			cmd.Printf("  Poll interval: %s\n", bold("%ds", status.PollIntervalSeconds))
			cmd.Printf("  Readings kept: %s\n", bold("%d/%d", status.HistoryLength, conf.HistorySize()))
			cmd.Printf("  Allow non-root users to access the daemon: %s\n", bool2Text(conf.AllowNonRootAccess()))
			m := conf.MQTT()
			cmd.Printf("  Publish to MQTT: %s\n", bool2Text(m.Enabled()))
			if m.Enabled() {
				cmd.Printf("    Topics: %s\n", bold("%s/{level,voltage,status}", m.TopicPrefix))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}
