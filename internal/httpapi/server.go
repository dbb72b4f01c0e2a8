// Package httpapi exposes the assessment engine over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crediflow/invoice-risk/internal/risk"
	"github.com/crediflow/invoice-risk/internal/store"
)

// Assessor runs one assessment end to end.
type Assessor interface {
	Assess(ctx context.Context, inv risk.InvoiceData) risk.RiskAssessment
}

// AssessmentStore reads and writes persisted assessments.
type AssessmentStore interface {
	Save(ctx context.Context, a risk.RiskAssessment) error
	Get(ctx context.Context, id string) (risk.RiskAssessment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]risk.RiskAssessment, error)
}

type Server struct {
	assessor Assessor
	store    AssessmentStore
	log      *zap.Logger
}

func NewServer(assessor Assessor, st AssessmentStore, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{assessor: assessor, store: st, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/assessments", s.handleAssessments)
	mux.HandleFunc("/v1/assessments/", s.handleAssessmentByID)
	mux.HandleFunc("/v1/invoices/", s.handleInvoiceAssessments)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": map[string]any{"message": message},
	})
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func (s *Server) handleAssessments(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var inv risk.InvoiceData
	if err := json.Unmarshal(blob, &inv); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := validateInvoice(inv); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	assessment := s.assessor.Assess(r.Context(), inv)
	if err := s.store.Save(r.Context(), assessment); err != nil {
		// The caller still gets the finalized assessment.
		s.log.Error("failed to persist assessment",
			zap.String("assessment_id", assessment.ID), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleAssessmentByID(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/assessments/")
	id = strings.TrimSuffix(id, "/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	a, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleInvoiceAssessments(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/v1/invoices/")
	if !strings.HasSuffix(path, "/assessments") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	invoiceID := strings.TrimSuffix(strings.TrimSuffix(path, "/assessments"), "/")
	if invoiceID == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	list, err := s.store.ListByInvoice(r.Context(), invoiceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []risk.RiskAssessment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"invoice_id":  invoiceID,
		"assessments": list,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

func validateInvoice(inv risk.InvoiceData) error {
	switch {
	case strings.TrimSpace(inv.ID) == "":
		return errors.New("id is required")
	case inv.Amount <= 0:
		return errors.New("amount must be positive")
	case strings.TrimSpace(inv.Buyer.Name) == "":
		return errors.New("buyer_info.name is required")
	case strings.TrimSpace(inv.Seller.Name) == "":
		return errors.New("seller_info.name is required")
	case inv.DueDate.IsZero():
		return errors.New("due_date is required")
	default:
		return nil
	}
}
