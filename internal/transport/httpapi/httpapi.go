package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cnpycalc/internal/usecase/convert"
)

// ConvertFacade — то, что транспорт хочет от use-case (реализовано адаптером).
type ConvertFacade interface {
	Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error)
	Convert(ctx context.Context, req ConvertRequest) (ConvertResponse, error)
	Committees(ctx context.Context) ([]CommitteeDTO, error)
	History(limit int) ([]HistoryItem, error)
}

type Server struct {
	addr   string
	flow   ConvertFacade
	server *http.Server
}

func New(addr string, flow ConvertFacade) *Server { return &Server{addr: addr, flow: flow} }

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/quote", s.handleQuote)
	mux.HandleFunc("/api/orders", s.handleOrders)
	mux.HandleFunc("/api/committees", s.handleCommittees)
	mux.HandleFunc("/api/convert", s.handleConvert)
	mux.HandleFunc("/api/history", s.handleHistory)

	return withCORS(mux)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP server listening", slog.String("addr", s.addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	req.Committee = strings.TrimSpace(req.Committee)
	if req.Committee == "" {
		writeError(w, http.StatusBadRequest, "committee is required")
		return
	}
	// Вырожденный бюджет (<=0, NaN из-за отсутствия поля) — валидный вход:
	// получится пустое превью, это поведение оценщика, а не ошибка запроса.
	if math.IsNaN(req.Budget) || math.IsInf(req.Budget, 0) {
		req.Budget = 0
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := s.flow.Quote(ctx, req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleOrders — текущий борд комитета со скидками: то же превью,
// но с нулевым бюджетом, поэтому ни одна заявка не выбрана.
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	committee := strings.TrimSpace(r.URL.Query().Get("committee"))
	if committee == "" {
		writeError(w, http.StatusBadRequest, "committee is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := s.flow.Quote(ctx, QuoteRequest{Committee: committee, Budget: 0})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleCommittees(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := s.flow.Committees(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"committees": list})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	req.Committee = strings.TrimSpace(req.Committee)
	if req.Committee == "" {
		writeError(w, http.StatusBadRequest, "committee is required")
		return
	}
	if !(req.Amount > 0) {
		writeError(w, http.StatusBadRequest, "amount must be > 0")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := s.flow.Convert(ctx, req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	items, err := s.flow.History(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"conversions": items})
}

// statusFor — сбой лаунчпада это 502, всё остальное — плохой запрос.
func statusFor(err error) int {
	if errors.Is(err, convert.ErrUpstream) {
		return http.StatusBadGateway
	}
	return http.StatusBadRequest
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
