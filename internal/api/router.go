package api

import (
	"net/http"
)

func NewRouter(h *APIHandler) http.Handler {

	mux := http.NewServeMux()

	mux.HandleFunc("POST /score", h.HandleScore)

	mux.HandleFunc("POST /analyses", h.HandleCreateAnalysis)

	mux.HandleFunc("GET /analyses/{id}", h.HandleViewAnalysis)

	mux.HandleFunc("GET /healthz", h.HandleHealth)

	return mux
}
