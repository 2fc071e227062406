package markers

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

const (
	DLPBaudRate   = 9600
	DefaultPulse  = 5 * time.Millisecond
	dlpPing       = 0x27 // '
	dlpPong       = 'Q'
	dlpBinaryMode = 0x5C // \
	dlpLineCount  = 8
	dlpSetLines   = "12345678"
	dlpUnsetLines = "QWERTYUI"
)

type port interface {
	io.ReadWriter
	Close() error
}

// DLPIO8G drives a DLP-IO8-G USB trigger box. A code is raised as a bit
// pattern over lines 1-8 for the pulse width, then lowered.
type DLPIO8G struct {
	port  port
	Pulse time.Duration
	sleep func(time.Duration)
}

func NewDLPIO8G(device string, baudrate int) (*DLPIO8G, error) {
	mode := &serial.Mode{
		BaudRate: baudrate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return newDLP(p)
}

func newDLP(p port) (*DLPIO8G, error) {
	d := &DLPIO8G{port: p, Pulse: DefaultPulse, sleep: time.Sleep}
	if !d.Ping() {
		p.Close()
		return nil, errors.New("device did not respond to ping correctly")
	}
	if _, err := p.Write([]byte{dlpBinaryMode}); err != nil {
		p.Close()
		return nil, err
	}
	return d, nil
}

func (d *DLPIO8G) Ping() bool {
	if _, err := d.port.Write([]byte{dlpPing}); err != nil {
		return false
	}
	buf := make([]byte, 1)
	n, err := d.port.Read(buf)
	return err == nil && n == 1 && buf[0] == dlpPong
}

// Lines returns the set-command characters for the bits of code.
func Lines(code Code) (string, error) {
	if code < 0 || code > 0xFF {
		return "", fmt.Errorf("code %d does not fit on %d lines", code, dlpLineCount)
	}
	var lines []byte
	for bit := 0; bit < dlpLineCount; bit++ {
		if code&(1<<bit) != 0 {
			lines = append(lines, dlpSetLines[bit])
		}
	}
	return string(lines), nil
}

func (d *DLPIO8G) Set(lines string) error {
	_, err := d.port.Write([]byte(lines))
	return err
}

func (d *DLPIO8G) Unset(lines string) error {
	cmd := []byte(lines)
	for i := range cmd {
		if cmd[i] >= '1' && cmd[i] <= '8' {
			cmd[i] = dlpUnsetLines[cmd[i]-'1']
		}
	}
	_, err := d.port.Write(cmd)
	return err
}

func (d *DLPIO8G) Send(m Marker) error {
	lines, err := Lines(m.Code)
	if err != nil {
		return err
	}
	if lines == "" {
		return nil
	}
	if err := d.Set(lines); err != nil {
		return fmt.Errorf("dlp set: %w", err)
	}
	d.sleep(d.Pulse)
	if err := d.Unset(lines); err != nil {
		return fmt.Errorf("dlp unset: %w", err)
	}
	return nil
}

func (d *DLPIO8G) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}
