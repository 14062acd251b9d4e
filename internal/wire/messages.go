// Package wire defines the WebSocket protocol for live form sessions.
// Each connection opens one record, streams field edits to the server,
// and receives the recomputed render nodes and derived aggregates after
// every mutation.
package wire

import (
	"encoding/json"

	"github.com/shearsapp/shears/internal/form"
	"github.com/shearsapp/shears/internal/types"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string          `json:"type"` // "open", "edit", "append", "remove", "link_search", "save", "ping"
	ID   string          `json:"id"`   // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// OpenData is the payload for "open": either an existing record by id, or
// a new record of the given type initialized from its field list.
type OpenData struct {
	RecordID   string `json:"recordId,omitempty"`
	RecordType string `json:"recordType,omitempty"`
	Mode       string `json:"mode,omitempty"` // "read" or "edit"; defaults to edit
}

// EditData is the payload for "edit": a write-through of one field value.
type EditData struct {
	Path  string `json:"path"` // dot/bracket path, e.g. "services[2].price"
	Value any    `json:"value"`
}

// AppendData is the payload for "append": push a default entry onto an
// array field.
type AppendData struct {
	Path string `json:"path"`
}

// RemoveData is the payload for "remove": splice one entry out of an
// array field.
type RemoveData struct {
	Path  string `json:"path"`
	Index int    `json:"index"`
}

// LinkSearchData is the payload for "link_search": a remote-picker query
// for a link-select field.
type LinkSearchData struct {
	Path       string `json:"path"`
	RecordType string `json:"recordType"`
	Query      string `json:"query"`
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type      string `json:"type"`                 // "session", "record", "derived", "link_results", "saved", "error", "pong"
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// SessionData carries session information after "open".
type SessionData struct {
	SessionID  string `json:"session_id"`
	RecordType string `json:"record_type"`
	Mode       string `json:"mode"`
}

// RecordData carries the working record and its render nodes. Sent after
// open and after every mutating message.
type RecordData struct {
	Record types.RecordValue `json:"record"`
	Nodes  []form.RenderNode `json:"nodes"`
}

// DerivedData carries the aggregates recomputed after a mutation.
type DerivedData struct {
	Aggregates types.Aggregates `json:"aggregates"`
}

// LinkResultsData carries link-select picker results. Seq matches the
// query that produced them; clients ignore results older than their
// latest query, as does the server before sending.
type LinkResultsData struct {
	Path  string            `json:"path"`
	Seq   int64             `json:"seq"`
	Items []types.LinkValue `json:"items"`
}

// SavedData acknowledges a successful save.
type SavedData struct {
	RecordID string `json:"record_id"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
