package realtime

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gabinete-digital/internal/models"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func startHub(t *testing.T) (*Hub, *httptest.Server, func()) {
	t.Helper()

	hub := NewHub(nil, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r, "u1", models.RoleStaff)
	}))

	stop := func() {
		cancel()
		<-stopped
		srv.Close()
	}
	return hub, srv, stop
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Clients() == n }, 2*time.Second, 10*time.Millisecond)
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, srv, stop := startHub(t)
	defer stop()

	conn := dial(t, srv)
	defer conn.Close()
	waitClients(t, hub, 1)

	hub.Broadcast(models.Notification{Type: models.NotificationDemandCreated, EntityID: "d1", Title: "Nova demanda"})

	msg := readMessage(t, conn)
	assert.Equal(t, models.NotificationDemandCreated, msg.Type)
	data, ok := msg.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "d1", data["entity_id"])
}

func TestHub_SubscribeFiltersTypes(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, srv, stop := startHub(t)
	defer stop()

	conn := dial(t, srv)
	defer conn.Close()
	waitClients(t, hub, 1)

	require.NoError(t, conn.WriteJSON(Message{Type: "subscribe", Data: []string{models.NotificationMessageReceived}}))
	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	assert.Equal(t, "pong", readMessage(t, conn).Type)

	hub.Broadcast(models.Notification{Type: models.NotificationDemandCreated})
	hub.Broadcast(models.Notification{Type: models.NotificationMessageReceived, EntityID: "m1"})

	assert.Equal(t, models.NotificationMessageReceived, readMessage(t, conn).Type)
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, srv, stop := startHub(t)
	defer stop()

	conn := dial(t, srv)
	waitClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitClients(t, hub, 0)
}

func TestHub_StopClosesConnections(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, srv, stop := startHub(t)
	conn := dial(t, srv)
	defer conn.Close()
	waitClients(t, hub, 1)

	stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	assert.NotPanics(t, func() {
		hub.Broadcast(models.Notification{Type: models.NotificationDemandCreated})
	})
}
