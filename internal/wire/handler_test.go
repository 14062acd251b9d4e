package wire

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/shearsapp/shears/internal/fields"
	"github.com/shearsapp/shears/internal/record"
	"github.com/shearsapp/shears/internal/session"
	"github.com/shearsapp/shears/internal/widget"
)

func dialTestHandler(t *testing.T) (*session.Manager, *websocket.Conn, context.Context) {
	t.Helper()
	sessions := session.NewManager()
	h := NewHandler(sessions, record.NewMemoryStore(), fields.DefaultCatalog(), widget.NewResolver())
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	ws, _, err := websocket.Dial(ctx, srv.URL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.CloseNow() })
	return sessions, ws, ctx
}

// openRecordType opens a fresh record and consumes the "session" and
// "record" replies so later assertions see a settled handler.
func openRecordType(t *testing.T, ctx context.Context, ws *websocket.Conn, id, recordType string) {
	t.Helper()
	data, err := json.Marshal(OpenData{RecordType: recordType})
	if err != nil {
		t.Fatalf("marshal open data: %v", err)
	}
	if err := wsjson.Write(ctx, ws, ClientMessage{Type: "open", ID: id, Data: data}); err != nil {
		t.Fatalf("write open: %v", err)
	}
	for i := 0; i < 2; i++ {
		var msg ServerMessage
		if err := wsjson.Read(ctx, ws, &msg); err != nil {
			t.Fatalf("read open reply: %v", err)
		}
		if msg.Type == "error" {
			t.Fatalf("open %q failed: %+v", recordType, msg.Data)
		}
	}
}

func TestReopenReplacesSession(t *testing.T) {
	sessions, ws, ctx := dialTestHandler(t)

	openRecordType(t, ctx, ws, "1", "client")
	if n := sessions.Count(); n != 1 {
		t.Fatalf("after open, %d live sessions, want 1", n)
	}

	openRecordType(t, ctx, ws, "2", "appointment")
	if n := sessions.Count(); n != 1 {
		t.Errorf("after re-open, %d live sessions, want 1", n)
	}
}

func TestFailedReopenDropsOldSession(t *testing.T) {
	sessions, ws, ctx := dialTestHandler(t)

	openRecordType(t, ctx, ws, "1", "client")

	data, err := json.Marshal(OpenData{RecordType: "starship"})
	if err != nil {
		t.Fatalf("marshal open data: %v", err)
	}
	if err := wsjson.Write(ctx, ws, ClientMessage{Type: "open", ID: "2", Data: data}); err != nil {
		t.Fatalf("write open: %v", err)
	}
	var msg ServerMessage
	if err := wsjson.Read(ctx, ws, &msg); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if msg.Type != "error" {
		t.Fatalf("reply type = %q, want error", msg.Type)
	}
	if n := sessions.Count(); n != 0 {
		t.Errorf("after failed re-open, %d live sessions, want 0", n)
	}
}
