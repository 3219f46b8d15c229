package statsd

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix, name, want string
	}{
		{"annotator_store", "access.decision", "annotator_store.access.decision"},
		{"", " http/request ", "http_request"},
		{"p", "foo..bar.", "p.foo.bar"},
		{"p", "", ""},
		{"p", "..", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, metricName(tt.prefix, tt.name), tt.name)
	}
}

func TestLine(t *testing.T) {
	t.Parallel()

	c := &Client{
		prefix: "annotator_store",
		global: cleanTags(map[string]string{" env ": " prod ", "service": "api"}),
	}

	got := c.line("access.decision", "1", "c", map[string]string{"outcome": "redirect", "": "x", "env": "stage"})
	assert.Equal(t, "annotator_store.access.decision:1|c|#env:stage,outcome:redirect,service:api", got)

	c.global = nil
	assert.Equal(t, "annotator_store.up:1|c", c.line("up", "1", "c", nil))
}

func TestNilAndDisabledClientsAreNoops(t *testing.T) {
	t.Parallel()

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	nilClient.Count("x", 1, nil)
	nilClient.Timing("x", time.Second, nil)
	require.NoError(t, nilClient.Close())

	disabled, err := NewClient(context.Background(), Config{Enabled: false, Address: "127.0.0.1:8125"})
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())
	disabled.Count("x", 1, nil)
	require.NoError(t, disabled.Close())
}

func TestClientWritesDatagrams(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	c, err := NewClient(context.Background(), Config{
		Enabled: true,
		Address: pc.LocalAddr().String(),
		Prefix:  ".annotator_store.",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.True(t, c.Enabled())

	read := func() string {
		buf := make([]byte, 512)
		require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, readErr := pc.ReadFrom(buf)
		require.NoError(t, readErr)
		return string(buf[:n])
	}

	c.Count("http.requests", 3, map[string]string{"status": "2xx"})
	assert.Equal(t, "annotator_store.http.requests:3|c|#status:2xx", read())

	c.Timing("http.request", 1500*time.Microsecond, nil)
	assert.Equal(t, "annotator_store.http.request:1.5|ms", read())

	require.NoError(t, c.Close())
	assert.False(t, c.Enabled())
}
