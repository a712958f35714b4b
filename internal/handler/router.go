package handler

import (
	"github.com/Dan9191/neuroledger/internal/config"
	"github.com/Dan9191/neuroledger/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires every route; all but the public ones require a bearer token
func NewRouter(h *Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/key-rate", h.KeyRate).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/me", h.Me).Methods("GET")
	authRouter.HandleFunc("/state", h.State).Methods("GET")

	authRouter.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")

	authRouter.HandleFunc("/bills", h.CreateBill).Methods("POST")
	authRouter.HandleFunc("/bills/{id}", h.DeleteBill).Methods("DELETE")
	authRouter.HandleFunc("/bills/{id}/payments", h.AddPayment).Methods("POST")

	authRouter.HandleFunc("/budget", h.SetBudget).Methods("PUT")

	authRouter.HandleFunc("/incomes", h.CreateIncome).Methods("POST")
	authRouter.HandleFunc("/incomes/{id}", h.DeleteIncome).Methods("DELETE")
	authRouter.HandleFunc("/incomes/{id}/toggle", h.ToggleIncome).Methods("POST")

	authRouter.HandleFunc("/goals", h.CreateGoal).Methods("POST")
	authRouter.HandleFunc("/goals/{id}", h.DeleteGoal).Methods("DELETE")
	authRouter.HandleFunc("/goals/{id}/deposit", h.Deposit).Methods("POST")

	authRouter.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	authRouter.HandleFunc("/plan", h.Plan).Methods("GET")
	authRouter.HandleFunc("/sandbox/plan", h.SandboxPlan).Methods("POST")
	authRouter.HandleFunc("/context", h.Context).Methods("GET")
	authRouter.HandleFunc("/chat", h.Chat).Methods("POST")

	authRouter.HandleFunc("/profile", h.GetProfile).Methods("GET")
	authRouter.HandleFunc("/profile", h.SaveProfile).Methods("PUT")
	authRouter.HandleFunc("/profile/memory", h.Remember).Methods("POST")

	authRouter.HandleFunc("/export.csv", h.ExportCSV).Methods("GET")
	authRouter.HandleFunc("/report.html", h.Report).Methods("GET")
	authRouter.HandleFunc("/data", h.DeleteData).Methods("DELETE")
	return r
}
