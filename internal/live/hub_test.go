package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lalith-99/eventboard/internal/models"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestHub_BroadcastsChanges(t *testing.T) {
	hub := NewHub([]string{"*"}, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, "client registration", func() bool { return hub.Clients() == 1 })

	want := models.Change{
		Entity: models.EntityGuest,
		Action: models.ActionCreated,
		ID:     uuid.New(),
		At:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	hub.Publish(context.Background(), want)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got models.Change
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("decode %s: %v", msg, err)
	}
	if got.Entity != want.Entity || got.Action != want.Action || got.ID != want.ID || !got.At.Equal(want.At) {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	conn.Close()
	waitFor(t, "client removal", func() bool { return hub.Clients() == 0 })
}

func TestHub_RejectsUnknownOrigin(t *testing.T) {
	hub := NewHub([]string{"https://dashboard.example"}, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Origin": {"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("response = %v, want 403", resp)
	}
}

func TestOriginChecker(t *testing.T) {
	tt := []struct {
		name    string
		origins []string
		origin  string
		want    bool
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "https://a.test", want: true},
		{name: "no list", origins: nil, origin: "https://a.test", want: true},
		{name: "listed", origins: []string{"https://a.test"}, origin: "https://a.test", want: true},
		{name: "unlisted", origins: []string{"https://a.test"}, origin: "https://b.test", want: false},
		{name: "no origin header", origins: []string{"https://a.test"}, origin: "", want: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/live", nil)
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}
			if got := originChecker(tc.origins)(r); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
