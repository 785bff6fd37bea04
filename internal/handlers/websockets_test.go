package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"toonbridge/internal/models"

	"github.com/gorilla/websocket"
)

func dialWS(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) (wsEnvelope, models.ThermostatState) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env wsEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	raw, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	var st models.ThermostatState
	if err := json.Unmarshal(raw, &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return env, st
}

func TestWSStreamsState(t *testing.T) {
	router := newTestRouter(&mockClimate{}, &mockMonitoring{state: testState()}, &mockEventLog{})
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn := dialWS(t, srv, "/ws?interval=100ms")
	defer conn.Close()

	// First frame arrives immediately, then on the ticker.
	env, st := readEnvelope(t, conn)
	if env.Type != "state" {
		t.Fatalf("type=%q, want state", env.Type)
	}
	if st.Mode != "AUTO" || st.TargetTempC != 19.5 {
		t.Fatalf("unexpected state %+v", st)
	}

	if _, st = readEnvelope(t, conn); !st.Online {
		t.Fatalf("second frame missing online state: %+v", st)
	}
}

func TestWSNoAuthRequired(t *testing.T) {
	router := newTestRouter(&mockClimate{}, &mockMonitoring{state: testState()}, &mockEventLog{})
	srv := httptest.NewServer(router)
	defer srv.Close()

	// No Authorization header on purpose.
	conn := dialWS(t, srv, "/ws")
	defer conn.Close()

	env, _ := readEnvelope(t, conn)
	if env.Type != "state" {
		t.Fatalf("type=%q, want state", env.Type)
	}
}
