package consultation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"receta-digital/internal/catalog"
	"receta-digital/internal/platform/whatsapp"
)

// DocumentRenderer projects a consultation snapshot into the printable
// document and the share message. Defined here to decouple from the concrete
// report implementation.
type DocumentRenderer interface {
	RecipePDF(c Consultation) ([]byte, error)
	ShareText(c Consultation) string
}

type Handler struct {
	svc         *Service
	renderer    DocumentRenderer
	countryCode string
}

func NewHandler(svc *Service, renderer DocumentRenderer, countryCode string) *Handler {
	return &Handler{svc: svc, renderer: renderer, countryCode: countryCode}
}

type fieldUpdateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type appendRequest struct {
	Text string `json:"text"`
}

type autofillRequest struct {
	Name string `json:"name"`
}

func (h *Handler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	writeJSON(w, snap)
}

func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req fieldUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.svc.SetField(req.Field, req.Value); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, h.svc.Snapshot())
}

func (h *Handler) AppendDiagnosis(w http.ResponseWriter, r *http.Request) {
	h.appendLine(w, r, h.svc.AppendDiagnosis)
}

func (h *Handler) AppendExam(w http.ResponseWriter, r *http.Request) {
	h.appendLine(w, r, h.svc.AppendExam)
}

func (h *Handler) appendLine(w http.ResponseWriter, r *http.Request, appendFn func(string)) {
	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "Missing text", http.StatusBadRequest)
		return
	}
	appendFn(req.Text)
	writeJSON(w, h.svc.Snapshot())
}

func (h *Handler) AddMedication(w http.ResponseWriter, r *http.Request) {
	index := h.svc.AddMedication()
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]int{"index": index})
}

func (h *Handler) RemoveMedication(w http.ResponseWriter, r *http.Request) {
	index, ok := medIndex(w, r)
	if !ok {
		return
	}
	if err := h.svc.RemoveMedication(index); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, h.svc.Snapshot())
}

func (h *Handler) UpdateMedication(w http.ResponseWriter, r *http.Request) {
	index, ok := medIndex(w, r)
	if !ok {
		return
	}
	var req fieldUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.svc.UpdateMedication(index, req.Field, req.Value); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrIndexOutOfRange) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, h.svc.Snapshot())
}

func (h *Handler) AutofillMedication(w http.ResponseWriter, r *http.Request) {
	index, ok := medIndex(w, r)
	if !ok {
		return
	}
	var req autofillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.svc.AutofillMedication(index, req.Name); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, h.svc.Snapshot())
}

func (h *Handler) RequestSuggestions(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RequestSuggestions(r.Context()); err != nil {
		switch {
		case errors.Is(err, ErrSuggestionInFlight):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ErrEmptyNotes):
			http.Error(w, "Escribe algunas notas en 'Subjetivo' primero.", http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"status": "analyzing"})
}

func (h *Handler) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	var results []string
	switch chi.URLParam(r, "kind") {
	case "medications":
		results = catalog.SearchMedications(q)
	case "diagnoses":
		results = catalog.Search(catalog.Diagnoses, q)
	case "exams":
		results = catalog.Search(catalog.Exams, q)
	default:
		http.Error(w, "Unknown catalog", http.StatusNotFound)
		return
	}
	if results == nil {
		results = []string{}
	}
	writeJSON(w, results)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Save(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "saved"})
}

func (h *Handler) RecipePDF(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	data, err := h.renderer.RecipePDF(snap)
	if err != nil {
		http.Error(w, "Rendering failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="receta_`+snap.Folio+`.pdf"`)
	w.Write(data)
}

func (h *Handler) ShareLink(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	text := h.renderer.ShareText(snap)
	writeJSON(w, map[string]string{
		"text": text,
		"url":  whatsapp.Link(h.countryCode, snap.Patient.Phone, text),
	})
}

func medIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "Invalid medication index", http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/consultation", h.GetConsultation)
	r.Patch("/consultation", h.UpdateField)
	r.Post("/consultation/diagnoses", h.AppendDiagnosis)
	r.Post("/consultation/exams", h.AppendExam)
	r.Post("/consultation/medications", h.AddMedication)
	r.Patch("/consultation/medications/{index}", h.UpdateMedication)
	r.Delete("/consultation/medications/{index}", h.RemoveMedication)
	r.Post("/consultation/medications/{index}/catalog", h.AutofillMedication)
	r.Post("/consultation/suggest", h.RequestSuggestions)
	r.Post("/consultation/save", h.Save)
	r.Get("/consultation/recipe.pdf", h.RecipePDF)
	r.Get("/consultation/share", h.ShareLink)
	r.Get("/catalog/{kind}", h.SearchCatalog)
}
