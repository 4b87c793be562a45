package printer

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantKind string
		wantErr  bool
	}{
		{"default is none", Config{}, "none", false},
		{"none", Config{Type: "none"}, "none", false},
		{"usb", Config{Type: "usb", USBPath: "/dev/usb/lp0"}, "usb", false},
		{"usb without path", Config{Type: "usb"}, "", true},
		{"network", Config{Type: "network", Address: "127.0.0.1:9100"}, "network", false},
		{"network without address", Config{Type: "network"}, "", true},
		{"unknown", Config{Type: "bluetooth"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, p.Kind())
		})
	}
}

func TestUSBPrinter_WritesToDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lp0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	p, err := New(Config{Type: "usb", USBPath: path})
	require.NoError(t, err)
	assert.True(t, p.IsConnected(context.Background()))

	require.NoError(t, p.Print(context.Background(), []byte("one")))
	require.NoError(t, p.Print(context.Background(), []byte("two")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "onetwo", string(got))
}

func TestUSBPrinter_MissingDevice(t *testing.T) {
	p, err := New(Config{Type: "usb", USBPath: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)
	assert.False(t, p.IsConnected(context.Background()))
	assert.Error(t, p.Print(context.Background(), []byte("x")))
}

func TestNetworkPrinter_SendsJob(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	p, err := New(Config{Type: "network", Address: ln.Addr().String()})
	require.NoError(t, err)
	require.NoError(t, p.Print(context.Background(), []byte("receipt")))
	assert.Equal(t, []byte("receipt"), <-received)
}

func TestNullPrinter(t *testing.T) {
	p, err := New(Config{Type: "none"})
	require.NoError(t, err)
	assert.NoError(t, p.Print(context.Background(), []byte("ignored")))
	assert.False(t, p.IsConnected(context.Background()))
}

func TestDocument_Layout(t *testing.T) {
	doc := NewDocument(20)
	doc.KeyValue("Total:", "Rs.100.00").
		ItemLine("Very long necklace name", "500").
		Wrap("Main Road, Achampet, Telangana")

	out := doc.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{ESC, '@'}))

	lines := bytes.Split(out[2:], []byte{LF})
	assert.Equal(t, "Total:     Rs.100.00", string(lines[0]))
	assert.Equal(t, "Very long neckla 500", string(lines[1]))
	assert.Equal(t, "Main Road, Achampet,", string(lines[2]))
	assert.Equal(t, "Telangana", string(lines[3]))
}

func TestDocument_DefaultWidth(t *testing.T) {
	doc := NewDocument(0)
	assert.Equal(t, 32, doc.Width())
	doc.Separator('=')
	assert.Equal(t, 2+32+1, len(doc.Bytes()))
}
