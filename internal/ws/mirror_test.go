package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-rgbcycle/internal/driver/fake"
	"github.com/coreman2200/funtimes-rgbcycle/model"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestMirrorBroadcastsWrites(t *testing.T) {
	drv := &fake.Driver{}
	m := NewMirror(drv, "fake")
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	require.NoError(t, m.Configure(48))
	conn := dial(t, srv)
	assert.Eventually(t, func() bool { return m.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Write(48, model.White))
	m.Publish(0, model.White, nil)
	require.NoError(t, m.Write(48, model.Green))
	m.Publish(3, model.Green, nil)

	f := readFrame(t, conn)
	assert.Equal(t, 0, f.Step)
	assert.Equal(t, 48, f.Pin)
	assert.Equal(t, "#ffffff", f.RGB)
	assert.Empty(t, f.Err)

	f = readFrame(t, conn)
	assert.Equal(t, 3, f.Step)
	assert.Equal(t, "#007f00", f.RGB)

	assert.Equal(t, []model.Color{model.White, model.Green}, drv.Colors())
}

func TestMirrorFrameFields(t *testing.T) {
	drv := &fake.Driver{}
	m := NewMirror(drv, "fake")
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	require.NoError(t, m.Configure(48))
	conn := dial(t, srv)
	assert.Eventually(t, func() bool { return m.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	m.Publish(4, model.Blue, nil)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var raw map[string]any
	require.NoError(t, conn.ReadJSON(&raw))

	assert.Contains(t, raw, "t")
	assert.Equal(t, float64(4), raw["step"])
	assert.Equal(t, float64(48), raw["pin"])
	assert.Equal(t, "#0000ff", raw["rgb"])
	assert.NotContains(t, raw, "err")
}

func TestMirrorReportsFailedWrites(t *testing.T) {
	drv := &fake.Driver{FailWrites: 1}
	m := NewMirror(drv, "fake")
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	require.NoError(t, m.Configure(48))
	conn := dial(t, srv)
	assert.Eventually(t, func() bool { return m.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	err := m.Write(48, model.Red)
	assert.ErrorIs(t, err, fake.ErrInjected)
	m.Publish(1, model.Red, err)

	f := readFrame(t, conn)
	assert.Equal(t, 1, f.Step)
	assert.Equal(t, "#ff0000", f.RGB)
	assert.Equal(t, fake.ErrInjected.Error(), f.Err)
}

func TestMirrorPublishDoesNotWaitForClients(t *testing.T) {
	m := NewMirror(&fake.Driver{}, "fake")
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	require.NoError(t, m.Configure(48))
	// Neither client ever reads.
	dial(t, srv)
	dial(t, srv)
	assert.Eventually(t, func() bool { return m.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	start := time.Now()
	for i := 0; i < 1000; i++ {
		m.Publish(i%5, model.Default.At(i), nil)
	}
	assert.True(t, time.Since(start) < 200*time.Millisecond, "publish took %s", time.Since(start))
}

func TestMirrorDropsClosedClients(t *testing.T) {
	m := NewMirror(&fake.Driver{}, "fake")
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	assert.Eventually(t, func() bool { return m.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return m.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)

	m.Publish(0, model.White, nil)
	require.NoError(t, m.Close())
}

func TestMirrorHealth(t *testing.T) {
	drv := &fake.Driver{}
	m := NewMirror(drv, "fake")
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	require.NoError(t, m.Configure(48))
	require.NoError(t, m.Write(48, model.Blue))

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var h map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, "fake", h["driver"])
	assert.Equal(t, float64(48), h["pin"])
	assert.Equal(t, float64(1), h["writes"])
	assert.Equal(t, "#0000ff", h["last"])
}

func TestMirrorCloseClosesDriver(t *testing.T) {
	drv := &fake.Driver{}
	m := NewMirror(drv, "fake")
	require.NoError(t, m.Close())
	assert.True(t, drv.Closed())
}

func TestMirrorConfigureError(t *testing.T) {
	drv := &fake.Driver{ConfigureErr: assert.AnError}
	m := NewMirror(drv, "fake")
	assert.ErrorIs(t, m.Configure(48), assert.AnError)
}
