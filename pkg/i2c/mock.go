package i2c

import (
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Mock is an in-memory Opener. Every device it opens reads from the same
// register map, so values can be changed while a device is in use.
type Mock struct {
	mu        sync.Mutex
	registers map[byte][]byte

	// OpenErr, when set, is returned by Open.
	OpenErr error
	// ReadErr, when set, is returned by every ReadBlock.
	ReadErr error

	// LastAddr and LastBus record the arguments of the last Open.
	LastAddr uint16
	LastBus  *int
	Closed   int
}

var _ Opener = &Mock{}

// NewMock returns a new Mock with prefilled register values.
func NewMock(prefillValues map[byte][]byte) *Mock {
	m := &Mock{registers: make(map[byte][]byte)}
	for reg, value := range prefillValues {
		m.SetRegister(reg, value)
	}
	return m
}

// SetRegister replaces the bytes returned when reading from reg.
func (m *Mock) SetRegister(reg byte, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registers[reg] = append([]byte(nil), value...)
}

// SetReadErr changes the error returned by subsequent reads.
func (m *Mock) SetReadErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadErr = err
}

func (m *Mock) Open(addr uint16, bus *int) (Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastAddr = addr
	m.LastBus = bus
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	return &mockDevice{m: m, addr: addr}, nil
}

type mockDevice struct {
	m    *Mock
	addr uint16
}

func (d *mockDevice) ReadBlock(reg byte, n int) ([]byte, error) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()

	if d.m.ReadErr != nil {
		return nil, d.m.ReadErr
	}
	if n <= 0 {
		return nil, pkgerrors.Wrapf(ErrInvalidLength, "cannot read %d bytes from register %#02x", n, reg)
	}
	v := d.m.registers[reg]
	if len(v) < n {
		return nil, pkgerrors.Wrapf(ErrShortRead, "register %#02x holds %d bytes, want %d", reg, len(v), n)
	}

	logrus.WithFields(logrus.Fields{
		"addr": d.addr,
		"reg":  reg,
		"val":  v[:n],
	}).Trace("Read from mock I2C device")

	return append([]byte(nil), v[:n]...), nil
}

func (d *mockDevice) Close() error {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	d.m.Closed++
	return nil
}
