package markers

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetSinkTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	lines := make(chan string, 2)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			close(lines)
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	sink, err := DialNetSink("tcp", ln.Addr().String(), time.Second)
	require.NoError(t, err)

	at := time.Unix(1700000000, 42)
	require.NoError(t, sink.Send(Marker{Code: ResponseWork, Note: "Response: Work", At: at}))
	require.NoError(t, sink.Close())

	line, ok := <-lines
	require.True(t, ok)
	var got wireMarker
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, wireMarker{
		Stream:   StreamName,
		Type:     StreamType,
		SourceID: SourceID,
		Code:     110,
		Event:    "RESPONSE_WORK",
		Note:     "Response: Work",
		UnixNano: at.UnixNano(),
	}, got)

	_, ok = <-lines
	assert.False(t, ok)
}

func TestNetSinkUDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	sink, err := DialNetSink("udp", pc.LocalAddr().String(), time.Second)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Send(Marker{Code: BlockStart, At: time.Now()}))

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 1024)
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)

	var got wireMarker
	require.NoError(t, json.Unmarshal(buf[:n], &got))
	assert.Equal(t, 200, got.Code)
	assert.Equal(t, "BLOCK_START", got.Event)
	assert.Empty(t, got.Note)
}

func TestDialNetSinkRejectsNetwork(t *testing.T) {
	_, err := DialNetSink("unix", "/tmp/x", time.Second)
	assert.Error(t, err)
}
