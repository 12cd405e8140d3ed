package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"account-research-report/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestStreamStatusHandler_UnknownTask(t *testing.T) {
	router, _ := newTestRouter(t, &fakeGenerator{}, nil)
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/status/unknown-task"), nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "unknown tasks are rejected before the upgrade")
}

func TestStreamStatusHandler_SnapshotsUntilTerminal(t *testing.T) {
	prev := streamInterval
	streamInterval = 5 * time.Millisecond
	defer func() { streamInterval = prev }()

	gen := &fakeGenerator{hold: true, release: make(chan struct{})}
	router, _ := newTestRouter(t, gen, nil)
	srv := httptest.NewServer(router)
	defer srv.Close()

	w := postGenerate(t, router, `{"targetCompany":"Acme","userCompany":"Globex","sections":["basic"]}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	var resp models.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/status/"+resp.TaskID), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	// The first snapshot arrives while the generator is held, so the task
	// cannot be terminal yet.
	var snap models.Task
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, resp.TaskID, snap.ID)
	assert.False(t, snap.Status.Terminal())

	close(gen.release)

	// Snapshots keep flowing until a terminal one is pushed.
	for !snap.Status.Terminal() {
		require.NoError(t, conn.ReadJSON(&snap))
	}
	assert.Equal(t, models.TaskStatusCompleted, snap.Status)
	assert.Equal(t, 100, snap.Progress)

	// After the terminal snapshot the server closes normally.
	err = conn.ReadJSON(&snap)
	require.Error(t, err)
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
}
