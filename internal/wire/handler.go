package wire

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/shearsapp/shears/internal/fieldpath"
	"github.com/shearsapp/shears/internal/fields"
	"github.com/shearsapp/shears/internal/form"
	"github.com/shearsapp/shears/internal/record"
	"github.com/shearsapp/shears/internal/session"
	"github.com/shearsapp/shears/internal/types"
	"github.com/shearsapp/shears/internal/widget"
)

const linkResultLimit = 10

// Handler manages WebSocket connections for live form sessions.
type Handler struct {
	sessions *session.Manager
	store    record.Store
	catalog  *fields.Catalog
	widgets  *widget.Resolver
}

// NewHandler creates a WebSocket handler with all dependencies.
func NewHandler(sessions *session.Manager, store record.Store, catalog *fields.Catalog, widgets *widget.Resolver) *Handler {
	return &Handler{sessions: sessions, store: store, catalog: catalog, widgets: widgets}
}

// conn wraps a connection with a write lock: link-search results arrive
// from goroutines while the message loop writes its own responses.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) send(ctx context.Context, msg ServerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := wsjson.Write(ctx, c.ws, msg); err != nil {
		log.Printf("wire: write: %v", err)
	}
}

func (c *conn) sendError(ctx context.Context, requestID, code, message string) {
	c.send(ctx, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data:      ErrorData{Code: code, Message: message},
	})
}

// ServeHTTP upgrades to WebSocket and runs the message loop. The first
// message must be "open"; everything else operates on the opened session.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("wire: websocket accept: %v", err)
		return
	}
	defer ws.CloseNow()

	c := &conn{ws: ws}
	ctx := r.Context()
	var sess *session.Session
	defer func() {
		if sess != nil {
			h.sessions.Remove(sess.ID)
		}
	}()

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, ws, &msg); err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("wire: connection closed: %v", websocket.CloseStatus(err))
			}
			return
		}

		if msg.Type == "ping" {
			c.send(ctx, ServerMessage{Type: "pong", RequestID: msg.ID})
			continue
		}
		if msg.Type == "open" {
			// A re-open replaces the connection's session; drop the old
			// one from the manager first so it never lingers until the
			// idle prune.
			if sess != nil {
				h.sessions.Remove(sess.ID)
			}
			sess = h.handleOpen(ctx, c, msg)
			continue
		}
		if sess == nil {
			c.sendError(ctx, msg.ID, "no_session", "open a record before sending "+msg.Type)
			continue
		}
		sess.Touch()

		switch msg.Type {
		case "edit":
			h.handleEdit(ctx, c, sess, msg)
		case "append":
			h.handleAppend(ctx, c, sess, msg)
		case "remove":
			h.handleRemove(ctx, c, sess, msg)
		case "link_search":
			h.handleLinkSearch(ctx, c, sess, msg)
		case "save":
			h.handleSave(ctx, c, sess, msg)
		default:
			c.sendError(ctx, msg.ID, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (h *Handler) handleOpen(ctx context.Context, c *conn, msg ClientMessage) *session.Session {
	var data OpenData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		c.sendError(ctx, msg.ID, "invalid_data", "invalid open data")
		return nil
	}

	mode := form.ModeEdit
	if data.Mode == string(form.ModeRead) {
		mode = form.ModeRead
	}

	recordType := data.RecordType
	var rec types.RecordValue
	var recordID string

	if data.RecordID != "" {
		stored, err := h.store.Get(ctx, data.RecordID)
		if err != nil {
			c.sendError(ctx, msg.ID, "not_found", "record not found: "+data.RecordID)
			return nil
		}
		recordType = stored.RecordType
		recordID = stored.ID
		// Edit mode uses the stored document as-is; missing keys default
		// at read time in the walker instead of being merged in here.
		rec = stored.FieldsData
	}

	list, ok := h.catalog.Merged(recordType)
	if !ok {
		c.sendError(ctx, msg.ID, "unknown_type", "unknown record type: "+recordType)
		return nil
	}
	if rec == nil {
		rec = form.DefaultRecord(list)
	}

	sess := session.New(recordType, mode, list, rec)
	sess.RecordID = recordID
	h.sessions.Add(sess)

	c.send(ctx, ServerMessage{
		Type:      "session",
		RequestID: msg.ID,
		Data: SessionData{
			SessionID:  sess.ID,
			RecordType: sess.RecordType,
			Mode:       string(sess.Mode),
		},
	})
	h.pushRecord(ctx, c, sess, msg.ID)
	return sess
}

func (h *Handler) handleEdit(ctx context.Context, c *conn, sess *session.Session, msg ClientMessage) {
	if !h.requireEditMode(ctx, c, sess, msg) {
		return
	}
	var data EditData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		c.sendError(ctx, msg.ID, "invalid_data", "invalid edit data")
		return
	}
	path := fieldpath.Parse(data.Path)
	if len(path) == 0 {
		c.sendError(ctx, msg.ID, "invalid_path", "empty field path")
		return
	}
	fieldpath.Set(sess.Record, path, data.Value)
	h.recomputeAndPush(ctx, c, sess, msg.ID)
}

func (h *Handler) handleAppend(ctx context.Context, c *conn, sess *session.Session, msg ClientMessage) {
	if !h.requireEditMode(ctx, c, sess, msg) {
		return
	}
	var data AppendData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		c.sendError(ctx, msg.ID, "invalid_data", "invalid append data")
		return
	}
	path := fieldpath.Parse(data.Path)
	def := form.FindDefinition(sess.Fields, path)
	if def == nil || def.ArrayConfig == nil {
		c.sendError(ctx, msg.ID, "invalid_path", "not an array field: "+data.Path)
		return
	}
	fieldpath.Append(sess.Record, path, form.DefaultEntry(def.ArrayConfig.Object))
	h.recomputeAndPush(ctx, c, sess, msg.ID)
}

func (h *Handler) handleRemove(ctx context.Context, c *conn, sess *session.Session, msg ClientMessage) {
	if !h.requireEditMode(ctx, c, sess, msg) {
		return
	}
	var data RemoveData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		c.sendError(ctx, msg.ID, "invalid_data", "invalid remove data")
		return
	}
	fieldpath.RemoveAt(sess.Record, fieldpath.Parse(data.Path), data.Index)
	h.recomputeAndPush(ctx, c, sess, msg.ID)
}

// handleLinkSearch runs the picker query off the message loop. The
// sequence check runs again just before sending so a response overtaken
// by a newer query is dropped, never delivered out of order.
func (h *Handler) handleLinkSearch(ctx context.Context, c *conn, sess *session.Session, msg ClientMessage) {
	var data LinkSearchData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		c.sendError(ctx, msg.ID, "invalid_data", "invalid link_search data")
		return
	}
	seq := sess.NextLinkQuery()

	go func() {
		records, _, err := h.store.List(ctx, record.Filter{
			RecordType: data.RecordType,
			Search:     data.Query,
			Limit:      linkResultLimit,
		})
		if err != nil {
			log.Printf("wire: link search: %v", err)
			return
		}
		if sess.IsStaleLinkQuery(seq) {
			return
		}
		items := make([]types.LinkValue, 0, len(records))
		for _, r := range records {
			name, _ := r.FieldsData["name"].(string)
			items = append(items, types.LinkValue{ID: r.ID, Name: name, Raw: r.FieldsData})
		}
		c.send(ctx, ServerMessage{
			Type:      "link_results",
			RequestID: msg.ID,
			Data:      LinkResultsData{Path: data.Path, Seq: seq, Items: items},
		})
	}()
}

// handleSave persists the working copy. On failure the in-memory record
// is untouched, so the client can retry without losing edits.
func (h *Handler) handleSave(ctx context.Context, c *conn, sess *session.Session, msg ClientMessage) {
	if !h.requireEditMode(ctx, c, sess, msg) {
		return
	}
	var (
		saved types.Record
		err   error
	)
	if sess.RecordID == "" {
		saved, err = h.store.Create(ctx, sess.RecordType, sess.Record)
	} else {
		saved, err = h.store.Update(ctx, sess.RecordID, sess.Record)
	}
	if err != nil {
		c.sendError(ctx, msg.ID, "save_failed", err.Error())
		return
	}
	sess.RecordID = saved.ID
	c.send(ctx, ServerMessage{
		Type:      "saved",
		RequestID: msg.ID,
		Data:      SavedData{RecordID: saved.ID},
	})
}

func (h *Handler) requireEditMode(ctx context.Context, c *conn, sess *session.Session, msg ClientMessage) bool {
	if sess.Mode != form.ModeEdit {
		c.sendError(ctx, msg.ID, "read_only", "session is read-only")
		return false
	}
	return true
}

// recomputeAndPush runs the derivation pass and sends the derived
// aggregates plus the refreshed render nodes.
func (h *Handler) recomputeAndPush(ctx context.Context, c *conn, sess *session.Session, requestID string) {
	agg := sess.Engine.Recompute(sess.Record)
	c.send(ctx, ServerMessage{
		Type:      "derived",
		RequestID: requestID,
		Data:      DerivedData{Aggregates: agg},
	})
	h.pushRecord(ctx, c, sess, requestID)
}

func (h *Handler) pushRecord(ctx context.Context, c *conn, sess *session.Session, requestID string) {
	nodes := form.Walk(sess.Fields, sess.Record, sess.Mode)
	h.widgets.Annotate(nodes)
	c.send(ctx, ServerMessage{
		Type:      "record",
		RequestID: requestID,
		Data: RecordData{
			Record: sess.Record,
			Nodes:  nodes,
		},
	})
}
