package routes

import (
	"encoding/json"
	"net/http"
	"plant-advisor/internal/infra/handlers"

	"github.com/gorilla/mux"
)

type Routes struct {
	Mux             *mux.Router
	DiagnoseHandler *handlers.DiagnoseHandlers
}

func NewRoutes(mux *mux.Router, diagnoseHandler *handlers.DiagnoseHandlers) *Routes {
	return &Routes{mux, diagnoseHandler}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/diagnose", r.DiagnoseHandler.Diagnose).Methods(http.MethodPost)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
