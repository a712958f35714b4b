package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/neuroledger/internal/finance"
	"github.com/Dan9191/neuroledger/internal/integrations/llm"
	"github.com/Dan9191/neuroledger/internal/middleware"
	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/Dan9191/neuroledger/internal/service"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors to HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var llmErr *llm.Error
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{err.Error()})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{err.Error()})
	case errors.Is(err, service.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{err.Error()})
	case errors.Is(err, service.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{err.Error()})
	case errors.As(err, &llmErr):
		h.log.Warnf("Chat upstream error: %v", err)
		if llmErr.Code == llm.ErrNotConfigured {
			writeJSON(w, http.StatusInternalServerError, errorResponse{llmErr.Message})
			return
		}
		if llmErr.Status != 0 && len(llmErr.Body) > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(llmErr.Status)
			w.Write(llmErr.Body)
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{"chat service unavailable"})
	default:
		h.log.Errorf("Request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{"internal error"})
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", service.ErrInvalidInput, err)
	}
	return nil
}

func userID(r *http.Request) string {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

func monthParam(r *http.Request) (models.MonthKey, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return models.MonthKey{}, nil
	}
	m, err := models.ParseMonthKey(raw)
	if err != nil {
		return models.MonthKey{}, fmt.Errorf("%w: month must be YYYY-MM", service.ErrInvalidInput)
	}
	return m, nil
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	user, err := h.svc.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	token, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// KeyRate returns the reference interest rate
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.svc.KeyRate(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me returns the caller's account
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Me(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// State returns the caller's whole ledger
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.State(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t models.Transaction
	if err := decode(w, r, &t); err != nil {
		h.writeError(w, err)
		return
	}
	saved, err := h.svc.SaveTransaction(r.Context(), userID(r), t)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTransaction(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var b models.Bill
	if err := decode(w, r, &b); err != nil {
		h.writeError(w, err)
		return
	}
	saved, err := h.svc.SaveBill(r.Context(), userID(r), b)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBill(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var p models.Payment
	if err := decode(w, r, &p); err != nil {
		h.writeError(w, err)
		return
	}
	bill, err := h.svc.AddPayment(r.Context(), userID(r), mux.Vars(r)["id"], p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bill)
}

func (h *Handler) SetBudget(w http.ResponseWriter, r *http.Request) {
	var in struct {
		MonthlyBudget decimal.Decimal `json:"monthlyBudget"`
	}
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.svc.SetBudget(r.Context(), userID(r), in.MonthlyBudget); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var inc models.RecurringIncome
	if err := decode(w, r, &inc); err != nil {
		h.writeError(w, err)
		return
	}
	saved, err := h.svc.SaveIncome(r.Context(), userID(r), inc)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteIncome(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ToggleIncome(w http.ResponseWriter, r *http.Request) {
	inc, err := h.svc.ToggleIncome(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inc)
}

func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var g models.SavingsGoal
	if err := decode(w, r, &g); err != nil {
		h.writeError(w, err)
		return
	}
	saved, err := h.svc.SaveGoal(r.Context(), userID(r), g)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteGoal(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	g, err := h.svc.Deposit(r.Context(), userID(r), mux.Vars(r)["id"], in.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Dashboard returns snapshot, indices, health, tips, cash flow and reminders
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	d, err := h.svc.Dashboard(r.Context(), userID(r), month)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	plan, err := h.svc.Plan(r.Context(), userID(r), month)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) SandboxPlan(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Entries []finance.SandboxEntry `json:"entries"`
	}
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	plan, err := h.svc.SandboxPlan(in.Entries)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Context returns the plain text financial context used by the chat
func (h *Handler) Context(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	text, err := h.svc.Context(r.Context(), userID(r), month)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, text)
}

// Chat streams the model's SSE response back unchanged
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var in service.ChatRequest
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	stream, err := h.svc.Chat(r.Context(), userID(r), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer stream.Close()

	rc := http.NewResponseController(w)
	rc.SetWriteDeadline(time.Now().Add(2 * time.Minute))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	buf := make([]byte, 4096)
	for {
		n, readErr := stream.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				h.log.Warnf("Chat client went away: %v", err)
				return
			}
			rc.Flush()
		}
		if readErr == io.EOF {
			return
		}
		if readErr != nil {
			h.log.Warnf("Chat stream interrupted: %v", readErr)
			return
		}
	}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profile(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var p models.UserProfile
	if err := decode(w, r, &p); err != nil {
		h.writeError(w, err)
		return
	}
	saved, err := h.svc.SaveProfile(r.Context(), userID(r), p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) Remember(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Note string `json:"note"`
	}
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	p, err := h.svc.Remember(r.Context(), userID(r), in.Note)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ExportCSV downloads the ledger as CSV
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="neuroledger-export-%s.csv"`, h.svc.Today()))
	if err := h.svc.ExportCSV(r.Context(), userID(r), w); err != nil {
		w.Header().Del("Content-Disposition")
		h.writeError(w, err)
	}
}

// Report renders the month report as HTML
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.svc.MonthReport(r.Context(), userID(r), month, w); err != nil {
		h.writeError(w, err)
	}
}

// DeleteData removes every ledger entry, the budget and the profile of the caller
func (h *Handler) DeleteData(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteData(r.Context(), userID(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
