package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shearsapp/shears/internal/fields"
	"github.com/shearsapp/shears/internal/form"
)

// SchemaHandler serves merged field lists so clients render forms from
// the same catalogs the server derives against.
type SchemaHandler struct {
	catalog *fields.Catalog
}

// NewSchemaHandler creates a handler over the given catalog.
func NewSchemaHandler(catalog *fields.Catalog) *SchemaHandler {
	return &SchemaHandler{catalog: catalog}
}

// ListRecordTypes handles GET /v1/schema.
func (h *SchemaHandler) ListRecordTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"recordTypes": h.catalog.RecordTypeNames(),
	})
}

// GetRecordType handles GET /v1/schema/{recordType}: the merged field
// list plus the add-mode default document.
func (h *SchemaHandler) GetRecordType(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "recordType")
	list, ok := h.catalog.Merged(name)
	if !ok {
		writeError(w, http.StatusNotFound, "UNKNOWN_TYPE", "unknown record type: "+name)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recordType": name,
		"fields":     list,
		"defaults":   form.DefaultRecord(list),
	})
}
