// Package i2c is the transport boundary between battery monitoring and the
// I2C bus. It does not implement I2C itself; the default implementation is
// backed by periph.io.
package i2c

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
)

// Opener opens a device at addr on the given bus. A nil bus selects the
// opener's default bus.
type Opener interface {
	Open(addr uint16, bus *int) (Device, error)
}

// Device is an open I2C device.
type Device interface {
	// ReadBlock reads n bytes starting at register reg.
	ReadBlock(reg byte, n int) ([]byte, error)
	Close() error
}

// dev adapts a periph.io i2c.Dev to Device.
type dev struct {
	d *i2c.Dev
	// closer is nil when the bus is borrowed from the caller.
	closer func() error
}

var _ Device = &dev{}

func (d *dev) ReadBlock(reg byte, n int) ([]byte, error) {
	if n <= 0 {
		return nil, pkgerrors.Wrapf(ErrInvalidLength, "cannot read %d bytes from register %#02x", n, reg)
	}

	logrus.WithFields(logrus.Fields{
		"addr": fmt.Sprintf("%#02x", d.d.Addr),
		"reg":  fmt.Sprintf("%#02x", reg),
		"len":  n,
	}).Trace("Trying to read from I2C")

	buf := make([]byte, n)
	if err := d.d.Tx([]byte{reg}, buf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read %d bytes from register %#02x of %s", n, reg, d.d.String())
	}

	logrus.WithFields(logrus.Fields{
		"addr": fmt.Sprintf("%#02x", d.d.Addr),
		"reg":  fmt.Sprintf("%#02x", reg),
		"val":  buf,
	}).Trace("Read from I2C succeed")

	return buf, nil
}

func (d *dev) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer()
}
