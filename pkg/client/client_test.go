package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/i2cbatt/pkg/battery"
	"github.com/charlie0129/i2cbatt/pkg/events"
)

const readingJSON = `{"raw": 1000, "voltage": 13.000977517106549, "level": "Battery_High", "time": "2026-10-15T10:00:00Z"}`

// serve starts an HTTP server on a unix socket and returns a client for it.
func serve(t *testing.T, h http.Handler) *Client {
	t.Helper()

	socket := filepath.Join(t.TempDir(), "i2cbatt.sock")
	l, err := net.Listen("unix", socket)
	require.NoError(t, err)

	srv := &http.Server{Handler: h}
	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	return NewClient(socket)
}

func TestClientAPIs(t *testing.T) {
	var gotBody, gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/level", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `"Battery_Low"`)
	})
	mux.HandleFunc("/voltage", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `10.5`)
	})
	mux.HandleFunc("/reading", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, readingJSON)
	})
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		fmt.Fprint(w, readingJSON)
	})
	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, "["+readingJSON+"]")
	})
	mux.HandleFunc("/poll-interval", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `"ok"`)
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `"v1.2.3"`)
	})
	mux.HandleFunc("/config", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"bus": 1, "pollIntervalSeconds": 10}`)
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"reading": `+readingJSON+`, "pollIntervalSeconds": 10, "historyLength": 3}`)
	})
	c := serve(t, mux)

	level, err := c.GetLevel()
	require.NoError(t, err)
	assert.Equal(t, battery.BatteryLow, level)

	v, err := c.GetVoltage()
	require.NoError(t, err)
	assert.Equal(t, 10.5, v)

	r, err := c.GetReading()
	require.NoError(t, err)
	assert.Equal(t, uint16(1000), r.Raw)
	assert.Equal(t, battery.BatteryHigh, r.Level)

	r, err = c.Refresh()
	require.NoError(t, err)
	assert.Equal(t, battery.BatteryHigh, r.Level)

	h, err := c.GetHistory(10 * time.Minute)
	require.NoError(t, err)
	assert.Len(t, h, 1)
	assert.Equal(t, "last=10m0s", gotQuery)

	_, err = c.GetHistory(0)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)

	_, err = c.SetPollInterval(30 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "30", gotBody)

	ver, err := c.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", ver)

	conf, err := c.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, 1, *conf.Bus)

	s, err := c.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, s.HistoryLength)
	require.NotNil(t, s.Reading)
	assert.Equal(t, battery.BatteryHigh, s.Reading.Level)
}

func TestClientErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `"battery voltage read failed"`)
	})
	c := serve(t, mux)

	_, err := c.Refresh()
	assert.ErrorContains(t, err, "got 500")

	_, err = c.GetLevel()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientDaemonNotRunning(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"))

	_, err := c.GetLevel()
	assert.ErrorIs(t, err, ErrDaemonNotRunning)
}

func TestReadEvents(t *testing.T) {
	stream := strings.Join([]string{
		": keep-alive",
		"",
		"event:battery.level",
		`data:{"to":"Battery_High","voltage":12.5,"ts":1}`,
		"",
		"event: battery.error",
		`data: {"error":"boom",`,
		`data: "ts":2}`,
		"",
		"event:ignored",
		"data:{}",
		"",
	}, "\n")

	var got []events.Event
	err := readEvents(strings.NewReader(stream), func(ev events.Event) bool {
		got = append(got, ev)
		return len(got) < 2
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, events.LevelChanged, got[0].Name)
	level, err := events.DecodeAs[events.LevelChangedEvent](got[0])
	require.NoError(t, err)
	assert.Equal(t, "Battery_High", level.To)

	assert.Equal(t, events.ReadFailed, got[1].Name)
	failed, err := events.DecodeAs[events.ReadFailedEvent](got[1])
	require.NoError(t, err)
	assert.Equal(t, "boom", failed.Error)
	assert.Equal(t, int64(2), failed.Ts)
}

func TestSubscribeEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event:battery.level\ndata:{\"to\":\"Battery_Low\"}\n\n")
	})
	c := serve(t, mux)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := c.SubscribeEvents(ctx)
	require.NoError(t, err)

	ev, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, events.LevelChanged, ev.Name)

	// The handler returned, so the stream ends and the channel closes.
	_, ok = <-ch
	assert.False(t, ok)
}
