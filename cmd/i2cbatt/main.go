package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/i2cbatt/pkg/client"
)

var (
	logLevel       = "info"
	unixSocketPath = "/run/i2cbatt.sock"
	configPath     = "/etc/i2cbatt.json"
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	gInstallation = "Installation:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
		gInstallation,
	}
)

var apiClient *client.Client

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(w io.Writer, err error) {
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(w, "\nError: i2cbatt daemon is not running")
		fmt.Fprintln(w, "Is the daemon running? Have you installed it?")
		fmt.Fprintln(w, "  - Use 'i2cbatt read' to sample the battery without the daemon")
	} else if errors.Is(err, client.ErrPermissionDenied) {
		fmt.Fprintln(w, "\nError: Permission Denied")
		fmt.Fprintln(w, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(w, "  - Or reinstall the daemon with 'i2cbatt install --allow-non-root-access' to grant permissions to your user")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(os.Stderr, err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "i2cbatt",
		Short: "i2cbatt reports the charge level of a battery behind an I2C ADC",
		Long: `i2cbatt reports the charge level of a battery behind an I2C ADC.

It samples the pack voltage from the ADC at address 0x1B and classifies it as
Battery_High, Battery_Medium, Battery_Low or Battery_Empty. Sample once with
'i2cbatt read', or run the daemon to poll continuously and serve readings to
other commands.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			err := setupLogger()
			if err != nil {
				return err
			}

			apiClient = client.NewClient(unixSocketPath)

			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path (.json, .yaml or .yml)")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "i2cbatt daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewReadCommand(),
		NewStatusCommand(),
		NewRefreshCommand(),
		NewHistoryCommand(),
		NewWatchCommand(),
		NewPollIntervalCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}
