// Package record provides the record store: an opaque JSON-document store
// keyed by id. Records carry a record type and a fields_data document
// whose shape is governed by the field catalogs, never by the store.
package record

import (
	"context"
	"errors"

	"github.com/shearsapp/shears/internal/types"
)

// ErrNotFound is returned when no record exists for the requested id.
var ErrNotFound = errors.New("record not found")

// Filter narrows a List call. FieldEquals matches top-level keys of the
// fields_data document by string equality; Search matches a substring of
// any top-level string value (used by link-select pickers).
type Filter struct {
	RecordType  string
	FieldEquals map[string]string
	Search      string
	Limit       int
	Offset      int
}

// Store is the record-fetch/record-save capability the field engine is
// written against. Implementations treat fields_data as opaque: no
// validation against any field list happens here.
type Store interface {
	List(ctx context.Context, f Filter) ([]types.Record, int, error)
	Get(ctx context.Context, id string) (types.Record, error)
	Create(ctx context.Context, recordType string, fieldsData types.RecordValue) (types.Record, error)
	Update(ctx context.Context, id string, fieldsData types.RecordValue) (types.Record, error)
	Delete(ctx context.Context, id string) error
}
