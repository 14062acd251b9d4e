// Package handler implements the REST surface over the record store and
// the field catalogs. Handlers stay thin: field semantics live in the
// fields/form/derive packages, persistence in the record package.
package handler

import (
	"net/http"
	"strings"

	"github.com/shearsapp/shears/internal/derive"
	"github.com/shearsapp/shears/internal/fields"
	"github.com/shearsapp/shears/internal/form"
	"github.com/shearsapp/shears/internal/record"
	"github.com/shearsapp/shears/internal/types"
	"github.com/shearsapp/shears/internal/widget"
)

// RecordHandler serves record CRUD and form rendering.
type RecordHandler struct {
	store   record.Store
	catalog *fields.Catalog
	widgets *widget.Resolver
}

// NewRecordHandler creates a handler over the given store and catalog.
func NewRecordHandler(store record.Store, catalog *fields.Catalog, widgets *widget.Resolver) *RecordHandler {
	return &RecordHandler{store: store, catalog: catalog, widgets: widgets}
}

type recordListResponse struct {
	Records []types.Record `json:"records"`
	Total   int            `json:"total"`
}

// ListRecords handles GET /v1/records. Filters: record_type, q (substring
// search for link-select pickers), and field.<key>=<value> equality
// params.
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	p := parsePagination(r)
	f := record.Filter{
		RecordType: r.URL.Query().Get("record_type"),
		Search:     r.URL.Query().Get("q"),
		Limit:      p.Limit,
		Offset:     p.Offset,
	}
	for key, vals := range r.URL.Query() {
		if name, ok := strings.CutPrefix(key, "field."); ok && len(vals) > 0 {
			if f.FieldEquals == nil {
				f.FieldEquals = make(map[string]string)
			}
			f.FieldEquals[name] = vals[0]
		}
	}

	records, total, err := h.store.List(r.Context(), f)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if records == nil {
		records = []types.Record{}
	}
	writeJSON(w, http.StatusOK, recordListResponse{Records: records, Total: total})
}

// GetRecord handles GET /v1/records/{id}.
func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CreateRecord handles POST /v1/records. A missing fieldsData document is
// initialized from the record type's merged field list (add-mode policy);
// a provided document is stored as-is after one derivation pass.
func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	type createReq struct {
		RecordType string            `json:"recordType"`
		FieldsData types.RecordValue `json:"fieldsData,omitempty"`
	}
	var req createReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.RecordType == "" {
		writeError(w, http.StatusBadRequest, "MISSING_TYPE", "recordType is required")
		return
	}

	if req.FieldsData == nil {
		if list, ok := h.catalog.Merged(req.RecordType); ok {
			req.FieldsData = form.DefaultRecord(list)
		} else {
			req.FieldsData = types.RecordValue{}
		}
	}
	// A fresh engine has no auto-write history, so this fills the amount
	// only when it is empty — a caller-provided amount survives.
	derive.NewEngine().Recompute(req.FieldsData)

	rec, err := h.store.Create(r.Context(), req.RecordType, req.FieldsData)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// UpdateRecord handles PATCH /v1/records/{id}, replacing the fields_data
// document wholesale. The derivation pass runs before the write; a store
// failure leaves the stored record untouched.
func (h *RecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	type updateReq struct {
		FieldsData types.RecordValue `json:"fieldsData"`
	}
	var req updateReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.FieldsData == nil {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "fieldsData is required")
		return
	}
	derive.NewEngine().Recompute(req.FieldsData)

	rec, err := h.store.Update(r.Context(), id, req.FieldsData)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteRecord handles DELETE /v1/records/{id}.
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// RenderForm handles GET /v1/records/{id}/form?mode=read|edit: the stored
// record walked against its merged field list.
func (h *RecordHandler) RenderForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	list, known := h.catalog.Merged(rec.RecordType)
	if !known {
		writeError(w, http.StatusNotFound, "UNKNOWN_TYPE", "no field list for record type "+rec.RecordType)
		return
	}
	mode := form.ModeRead
	if r.URL.Query().Get("mode") == string(form.ModeEdit) {
		mode = form.ModeEdit
	}
	nodes := form.Walk(list, rec.FieldsData, mode)
	h.widgets.Annotate(nodes)
	writeJSON(w, http.StatusOK, map[string]any{
		"recordType": rec.RecordType,
		"mode":       mode,
		"nodes":      nodes,
	})
}
