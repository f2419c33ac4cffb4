package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"mock-exam-service/internal/app"
)

type questionResponse struct {
	Round   int      `json:"round"`
	Number  int      `json:"number"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
	Missing bool     `json:"missing,omitempty"`
}

// NewRouter wires the HTTP surface: health, content lookups and the exam websocket.
func NewRouter(service *app.ExamService) *mux.Router {
	ws := NewWSHandler(service)
	content := &contentHandler{service: service}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/rounds", content.listRounds).Methods(http.MethodGet)
	router.HandleFunc("/rounds/{round:[0-9]+}/questions/{number:[0-9]+}", content.getQuestion).Methods(http.MethodGet)
	router.HandleFunc("/ws", ws.ServeWS)
	return router
}

type contentHandler struct {
	service *app.ExamService
}

func (h *contentHandler) listRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.service.Rounds(r.Context())
	if err != nil {
		slog.Error("list rounds failed", "error", err)
		http.Error(w, "content store unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, rounds)
}

// getQuestion answers 404 with a placeholder body when the content is missing,
// so clients can render it the same way the exam screen does.
func (h *contentHandler) getQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	round, _ := strconv.Atoi(vars["round"])
	number, _ := strconv.Atoi(vars["number"])

	q, ok := h.service.LookupQuestion(r.Context(), round, number)
	resp := questionResponse{Round: round, Number: number, Text: q.Text, Choices: q.Choices[:]}
	if !ok || q.Text == "" {
		resp.Text = fmt.Sprintf("Question %d", number)
		resp.Missing = true
		writeJSON(w, http.StatusNotFound, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", "error", err)
	}
}
