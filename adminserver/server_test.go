package adminserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestHealthzReportsOK(t *testing.T) {
	port := freePort(t)
	s := New(Config{BindAddress: "127.0.0.1", Port: port, Log: zerolog.Nop()})
	s.Start()
	defer s.Stop(context.Background())

	url := fmt.Sprintf("http://127.0.0.1:%d/healthz", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, time.Second, 10*time.Millisecond)
}

func TestHealthzReportsUnavailableOnFailure(t *testing.T) {
	port := freePort(t)
	s := New(Config{
		BindAddress: "127.0.0.1",
		Port:        port,
		Health:      func() error { return errors.New("bus unreachable") },
		Log:         zerolog.Nop(),
	})
	s.Start()
	defer s.Stop(context.Background())

	url := fmt.Sprintf("http://127.0.0.1:%d/healthz", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusServiceUnavailable
	}, time.Second, 10*time.Millisecond)
}

func TestMetricsEndpointAbsentWithoutHandler(t *testing.T) {
	port := freePort(t)
	s := New(Config{BindAddress: "127.0.0.1", Port: port, Log: zerolog.Nop()})
	s.Start()
	defer s.Stop(context.Background())

	url := fmt.Sprintf("http://127.0.0.1:%d/metrics", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, time.Second, 10*time.Millisecond)
}
