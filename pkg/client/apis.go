package client

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/i2cbatt/pkg/battery"
	"github.com/charlie0129/i2cbatt/pkg/config"
	"github.com/charlie0129/i2cbatt/pkg/types"
)

func (c *Client) GetStatus() (*types.Status, error) {
	ret, err := c.Get("/status")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get status")
	}

	var s types.Status
	if err := json.Unmarshal([]byte(ret), &s); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal status")
	}
	return &s, nil
}

func (c *Client) GetReading() (*battery.Reading, error) {
	ret, err := c.Get("/reading")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get reading")
	}
	return parseReading(ret)
}

func (c *Client) GetLevel() (battery.ChargeLevel, error) {
	ret, err := c.Get("/level")
	if err != nil {
		return battery.Unknown, pkgerrors.Wrapf(err, "failed to get charge level")
	}

	var name string
	if err := json.Unmarshal([]byte(ret), &name); err != nil {
		return battery.Unknown, pkgerrors.Wrapf(err, "failed to unmarshal charge level")
	}
	return battery.ParseChargeLevel(name)
}

func (c *Client) GetVoltage() (float64, error) {
	ret, err := c.Get("/voltage")
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to get voltage")
	}

	v, err := strconv.ParseFloat(ret, 64)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to parse voltage")
	}
	return v, nil
}

// GetHistory returns the readings of the last duration, or all recorded
// readings when last is zero.
func (c *Client) GetHistory(last time.Duration) ([]battery.Reading, error) {
	path := "/history"
	if last > 0 {
		path += "?last=" + url.QueryEscape(last.String())
	}

	ret, err := c.Get(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get history")
	}

	var readings []battery.Reading
	if err := json.Unmarshal([]byte(ret), &readings); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal history")
	}
	return readings, nil
}

// Refresh asks the daemon to sample the battery now.
func (c *Client) Refresh() (*battery.Reading, error) {
	ret, err := c.Post("/refresh", "")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to refresh")
	}
	return parseReading(ret)
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) SetPollInterval(d time.Duration) (string, error) {
	return c.Put("/poll-interval", strconv.Itoa(int(d/time.Second)))
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

func parseReading(s string) (*battery.Reading, error) {
	var r battery.Reading
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal reading")
	}
	return &r, nil
}
