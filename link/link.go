/*
Package link opens the byte channels the rasterlink filters read from and
write to.

A name of "-" selects standard input or output. A character device opened
with a non-zero baud rate is configured as a serial port, 8 data bits, no
parity and one stop bit. Anything else is opened as a plain file, which
covers named pipes and framebuffer devices.
*/
package link

import (
	"io"
	"io/ioutil"
	"os"

	"go.bug.st/serial"
)

// Stdio is the name used for standard input or output.
const Stdio = "-"

var openPort = serial.Open

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

func isCharDevice(name string) (bool, error) {
	info, err := os.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode()&os.ModeCharDevice != 0, nil
}

func serialPort(name string, baud int) (serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	return openPort(name, mode)
}

// OpenInput opens name for reading.
func OpenInput(name string, baud int) (io.ReadCloser, error) {
	if name == "" || name == Stdio {
		return ioutil.NopCloser(os.Stdin), nil
	}

	dev, err := isCharDevice(name)
	if err != nil {
		return nil, err
	}
	if dev && baud > 0 {
		return serialPort(name, baud)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OpenOutput opens name for writing, creating it if necessary. Regular files
// are truncated.
func OpenOutput(name string, baud int) (io.WriteCloser, error) {
	if name == "" || name == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}

	dev, err := isCharDevice(name)
	if err != nil {
		return nil, err
	}
	if dev {
		if baud > 0 {
			return serialPort(name, baud)
		}
		return openFile(name, os.O_WRONLY)
	}

	return openFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

func openFile(name string, flag int) (io.WriteCloser, error) {
	f, err := os.OpenFile(name, flag, 0644)
	if err != nil {
		return nil, err
	}
	return f, nil
}
