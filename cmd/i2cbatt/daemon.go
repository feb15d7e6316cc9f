package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/i2cbatt/pkg/battery"
	"github.com/charlie0129/i2cbatt/pkg/daemon"
	"github.com/charlie0129/i2cbatt/pkg/i2c"
	"github.com/charlie0129/i2cbatt/pkg/version"
)

var (
	// alwaysAllowNonRootAccess indicates whether to always allow non-root users to access the daemon.
	alwaysAllowNonRootAccess = false
	daemonMockRaw            = -1
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Hidden:  true,
		Short:   "Run i2cbatt daemon in the foreground",
		GroupID: gAdvanced,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("i2cbatt daemon starting")

			opts := daemon.Options{
				ConfigPath:         configPath,
				UnixSocketPath:     unixSocketPath,
				AllowNonRootAccess: alwaysAllowNonRootAccess,
			}
			if daemonMockRaw >= 0 {
				if daemonMockRaw > 0xFFFF {
					return fmt.Errorf("mock raw value %d does not fit in 16 bits", daemonMockRaw)
				}
				logrus.Warnf("using mock ADC returning %d", daemonMockRaw)
				opts.Opener = i2c.NewMock(map[byte][]byte{
					battery.SampleRegister: {byte(daemonMockRaw >> 8), byte(daemonMockRaw)},
				})
			}

			return daemon.Run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()

	f.BoolVar(&alwaysAllowNonRootAccess, "always-allow-non-root-access", false,
		"Always allow non-root users to access the daemon.")
	f.IntVar(&daemonMockRaw, "mock-raw", -1, "use a simulated ADC returning this raw code instead of real hardware")

	return cmd
}
