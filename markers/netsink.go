package markers

import (
	"encoding/json"
	"fmt"
	"net"
	"time"
)

const (
	StreamName = "ProsocialTaskMarkers"
	StreamType = "Markers"
	SourceID   = "ProsocialTask"
)

type wireMarker struct {
	Stream   string `json:"stream"`
	Type     string `json:"type"`
	SourceID string `json:"source_id"`
	Code     int    `json:"code"`
	Event    string `json:"event"`
	Note     string `json:"note,omitempty"`
	UnixNano int64  `json:"t"`
}

// NetSink is a marker outlet: one JSON object per line over TCP, or one
// per datagram over UDP.
type NetSink struct {
	conn    net.Conn
	timeout time.Duration
}

// DialNetSink connects to addr. network is "tcp" or "udp".
func DialNetSink(network, addr string, timeout time.Duration) (*NetSink, error) {
	switch network {
	case "tcp", "udp":
	default:
		return nil, fmt.Errorf("unsupported marker network %q", network)
	}
	conn, err := net.DialTimeout(network, addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial marker outlet %s: %w", addr, err)
	}
	return &NetSink{conn: conn, timeout: timeout}, nil
}

func (s *NetSink) Send(m Marker) error {
	b, err := json.Marshal(wireMarker{
		Stream:   StreamName,
		Type:     StreamType,
		SourceID: SourceID,
		Code:     int(m.Code),
		Event:    m.Code.String(),
		Note:     m.Note,
		UnixNano: m.At.UnixNano(),
	})
	if err != nil {
		return err
	}
	if s.timeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.timeout))
	}
	_, err = s.conn.Write(append(b, '\n'))
	return err
}

func (s *NetSink) Close() error {
	return s.conn.Close()
}
