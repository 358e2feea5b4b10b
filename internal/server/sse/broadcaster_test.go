package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBroadcaster(t *testing.T) (*Broadcaster, context.CancelFunc) {
	t.Helper()
	logger := zerolog.Nop()
	b := NewBroadcaster(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)
	t.Cleanup(cancel)
	return b, cancel
}

func TestBroadcaster_NewBroadcaster(t *testing.T) {
	b := NewBroadcaster(nil)
	require.NotNil(t, b)
	assert.NotNil(t, b.logger)
	assert.Equal(t, 0, b.ClientCount())
}

func TestBroadcaster_BasicOperation(t *testing.T) {
	b, _ := startBroadcaster(t)

	client, release := b.Subscribe(8)
	defer release()
	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	b.Broadcast(Event{Event: "vehicle.added", Data: map[string]any{"id": 3}})

	select {
	case received := <-client:
		assert.Equal(t, "vehicle.added", received.Event)
	case <-time.After(time.Second):
		t.Fatal("client did not receive event")
	}
}

func TestBroadcaster_Shutdown(t *testing.T) {
	b, cancel := startBroadcaster(t)

	client, release := b.Subscribe(8)
	defer release()
	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return b.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-client
	assert.False(t, ok, "client channel should be closed")

	late, lateRelease := b.Subscribe(1)
	lateRelease()
	_, ok = <-late
	assert.False(t, ok, "subscribing after shutdown yields a closed channel")
}

func TestBroadcaster_ServeHTTP(t *testing.T) {
	b, _ := startBroadcaster(t)
	srv := httptest.NewServer(b)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readFrame := func() string {
		var frame strings.Builder
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if line == "\n" {
				return frame.String()
			}
			frame.WriteString(line)
		}
	}

	assert.Contains(t, readFrame(), "event: connected")

	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	b.Broadcast(Event{Event: "vehicle.removed", ID: "1", Data: map[string]int{"id": 12}})

	frame := readFrame()
	assert.Contains(t, frame, "event: vehicle.removed\n")
	assert.Contains(t, frame, "id: 1\n")
	assert.Contains(t, frame, `data: {"id":12}`)
}
