package serial

import (
	"io"

	"go.bug.st/serial"
)

// NewDeviceWithOpener returns a Device whose port is opened by fn.
func NewDeviceWithOpener(path string, baud int, fn func(path string, baud int) (io.ReadWriteCloser, error)) *Device {
	return &Device{Path: path, Baud: baud, open: func(p string, m *serial.Mode) (io.ReadWriteCloser, error) {
		return fn(p, m.BaudRate)
	}}
}
