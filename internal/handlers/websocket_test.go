package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"focus_engine/internal/models"
	"focus_engine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func TestWebSocket_SnapshotStream_InitialAndPeriodic(t *testing.T) {
	started := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	focus := &mockFocus{snapshot: service.Snapshot{
		Timer: models.TimerState{
			Mode:                 models.ModePomodoro,
			Phase:                models.PhaseRunning,
			TimeRemainingSeconds: 1200,
			TotalSeconds:         1500,
			IsRunning:            true,
			StartedAt:            &started,
		},
		Posture: models.PostureStatus{IsGoodPosture: true, Message: models.StatusReadingGood},
		Metrics: models.PostureMetrics{PitchRatio: 1.1},
	}}
	s := &service.Service{Focus: focus}

	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	q := u.Query()
	q.Set("interval_ms", "20") // fast ticks for the test
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "snapshot" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var snap snapshotPayload
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.Timer.Mode != models.ModePomodoro || snap.Timer.TimeRemainingSeconds != 1200 || !snap.Timer.IsRunning {
		t.Fatalf("unexpected timer: %+v", snap.Timer)
	}
	if !snap.Posture.IsGoodPosture || snap.Metrics.PitchRatio != 1.1 {
		t.Fatalf("unexpected posture: %+v %+v", snap.Posture, snap.Metrics)
	}

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "snapshot" {
		t.Fatalf("expected type=snapshot, got %+v", env)
	}
}
