package i2c

import (
	"strconv"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// HostOpener opens devices on the buses of the local host. Host drivers are
// loaded on the first Open, not before.
type HostOpener struct {
	initOnce sync.Once
	initErr  error
}

var _ Opener = &HostOpener{}

// NewHostOpener returns a new HostOpener.
func NewHostOpener() *HostOpener {
	return &HostOpener{}
}

func (o *HostOpener) init() error {
	o.initOnce.Do(func() {
		state, err := host.Init()
		if err != nil {
			o.initErr = pkgerrors.Wrap(err, "failed to initialize host drivers")
			return
		}
		logrus.WithField("loaded", len(state.Loaded)).Debug("host drivers initialized")
	})
	return o.initErr
}

// Open opens the bus (the first available one if bus is nil) and returns
// the device at addr on it. Closing the device closes the bus.
func (o *HostOpener) Open(addr uint16, bus *int) (Device, error) {
	if err := o.init(); err != nil {
		return nil, err
	}

	name := ""
	if bus != nil {
		name = strconv.Itoa(*bus)
	}

	b, err := i2creg.Open(name)
	if err != nil {
		if name == "" {
			return nil, pkgerrors.Wrap(err, "failed to open default I2C bus")
		}
		return nil, pkgerrors.Wrapf(err, "failed to open I2C bus %s", name)
	}

	logrus.WithFields(logrus.Fields{
		"bus":  b.String(),
		"addr": addr,
	}).Debug("opened I2C bus")

	return &dev{
		d:      &i2c.Dev{Bus: b, Addr: addr},
		closer: b.Close,
	}, nil
}
