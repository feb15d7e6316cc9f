package daemon

import (
	"fmt"
	"strings"
)

var (
	unitPath = "/etc/systemd/system/i2cbatt.service"
	unitName = "i2cbatt.service"
)

const unitTemplate = `[Unit]
Description=i2cbatt battery monitor daemon
After=local-fs.target

[Service]
Type=simple
ExecStart=/path/to/i2cbatt daemon --config=/path/to/config --daemon-socket=/path/to/socket
Restart=on-failure
RestartSec=5

[Install]
WantedBy=multi-user.target
`

// RenderUnit returns the systemd unit running exePath as the daemon.
func RenderUnit(exePath, configPath, socketPath string) string {
	return strings.NewReplacer(
		"/path/to/i2cbatt", quote(exePath),
		"/path/to/config", quote(configPath),
		"/path/to/socket", quote(socketPath),
	).Replace(unitTemplate)
}

// quote quotes paths containing spaces the way systemd expects.
func quote(s string) string {
	if strings.ContainsAny(s, " \t") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
