// Package serial connects the external input device over a serial port.
package serial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/mindlab"
	"github.com/fwojciec/mindlab/frame"
	"github.com/m-mizutani/goerr/v2"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

// DefaultGlobs match the device names USB serial adapters usually get.
var DefaultGlobs = []string{"/dev/ttyACM*", "/dev/ttyUSB*", "/dev/cu.usbmodem*", "/dev/cu.usbserial*"}

// Interface compliance check.
var _ mindlab.Transport = (*Device)(nil)

type openFunc func(path string, mode *serial.Mode) (io.ReadWriteCloser, error)

func openPort(path string, mode *serial.Mode) (io.ReadWriteCloser, error) {
	return serial.Open(path, mode)
}

// Device is a serial port at a fixed path.
type Device struct {
	Path string
	Baud int // zero means frame.BaudRate

	open openFunc
}

// NewDevice returns a Device for path at baud.
func NewDevice(path string, baud int) *Device {
	return &Device{Path: path, Baud: baud}
}

// Open opens the port. Failures wrap mindlab.ErrTransportUnavailable.
func (d *Device) Open(ctx context.Context) (io.ReadWriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	baud := d.Baud
	if baud <= 0 {
		baud = frame.BaudRate
	}
	if d.Path == "" {
		return nil, goerr.Wrap(mindlab.ErrTransportUnavailable, "no serial device configured")
	}
	open := d.open
	if open == nil {
		open = openPort
	}
	port, err := open(d.Path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", mindlab.ErrTransportUnavailable, err),
			"failed to open serial port", goerr.V("path", d.Path), goerr.V("baud", baud))
	}
	return port, nil
}

// Lister enumerates the serial ports present on the system.
type Lister func() ([]string, error)

// SystemPorts lists ports through the serial library.
func SystemPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list serial ports")
	}
	return ports, nil
}

// Discover returns the listed ports matching any of globs, sorted. Nil globs
// means DefaultGlobs.
func Discover(list Lister, globs []string) ([]string, error) {
	if globs == nil {
		globs = DefaultGlobs
	}
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return nil, goerr.New("invalid port pattern", goerr.V("pattern", g))
		}
	}
	ports, err := list()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, p := range ports {
		for _, g := range globs {
			if ok, _ := doublestar.Match(g, p); ok {
				out = append(out, p)
				break
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

// Listen pumps rwc through a framer into router until the stream ends or ctx
// is done. Cancelling ctx closes rwc to unblock the pending read. A
// disconnect is logged and returned; it never touches a running test.
func Listen(ctx context.Context, rwc io.ReadWriteCloser, router *frame.Router, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	framer := frame.New(func(m mindlab.Message) {
		logger.Debug("serial message", zap.String("channel", m.Channel), zap.String("value", m.Value))
		router.Dispatch(m)
	})

	stop := context.AfterFunc(ctx, func() { rwc.Close() })
	err := frame.Pump(ctx, rwc, framer)
	if stop() {
		// The stream ended on its own; release the port.
		rwc.Close()
	}
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		logger.Warn("serial device disconnected", zap.Error(err))
		return goerr.Wrap(errors.Join(mindlab.ErrTransportUnavailable, err), "serial read failed")
	}
	logger.Info("serial stream closed")
	return nil
}
