package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"cnpycalc/internal/usecase/convert"
)

type stubFacade struct {
	lastQuote   QuoteRequest
	lastConvert ConvertRequest
	quoteErr    error
	convertErr  error
}

func (s *stubFacade) Quote(_ context.Context, req QuoteRequest) (QuoteResponse, error) {
	s.lastQuote = req
	if s.quoteErr != nil {
		return QuoteResponse{}, s.quoteErr
	}
	return QuoteResponse{
		Committee:    req.Committee,
		Asset:        "CNPY",
		Mode:         "best_price",
		Budget:       req.Budget,
		TotalCost:    40,
		CnpyReceived: 50,
		Gap:          req.Budget - 40,
	}, nil
}

func (s *stubFacade) Convert(_ context.Context, req ConvertRequest) (ConvertResponse, error) {
	s.lastConvert = req
	if s.convertErr != nil {
		return ConvertResponse{}, s.convertErr
	}
	return ConvertResponse{ClientOrderID: "client-1", Status: "accepted"}, nil
}

func (s *stubFacade) Committees(context.Context) ([]CommitteeDTO, error) {
	return []CommitteeDTO{{ID: "cmt-7", Asset: "CNPY", Open: true}}, nil
}

func (s *stubFacade) History(limit int) ([]HistoryItem, error) {
	return []HistoryItem{{ClientOrderID: "client-1", Status: "accepted"}}, nil
}

func testHandler(t *testing.T) (*stubFacade, http.Handler) {
	stub := &stubFacade{}
	return stub, New(":0", stub).routes()
}

func TestHandleQuote(t *testing.T) {
	stub, h := testHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/quote",
		strings.NewReader(`{"committee":"cmt-7","budget":100,"mode":"best_price"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "cmt-7", resp.Committee)
	require.InDelta(t, 40, resp.TotalCost, 1e-9)
	require.Equal(t, QuoteRequest{Committee: "cmt-7", Budget: 100, Mode: "best_price"}, stub.lastQuote)
}

func TestHandleQuoteValidation(t *testing.T) {
	_, h := testHandler(t)

	t.Run("GET запрещён", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quote", nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("пустой committee", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quote",
			strings.NewReader(`{"budget":100}`)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var er ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
		require.Contains(t, er.Error, "committee")
	})

	t.Run("нулевой бюджет проходит", func(t *testing.T) {
		// вырожденный бюджет — валидный вход, ответ с пустым превью
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quote",
			strings.NewReader(`{"committee":"cmt-7","budget":0}`)))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHandleOrdersUsesZeroBudget(t *testing.T) {
	stub, h := testHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders?committee=cmt-7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "cmt-7", stub.lastQuote.Committee)
	require.Zero(t, stub.lastQuote.Budget)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleConvert(t *testing.T) {
	stub, h := testHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/convert",
		strings.NewReader(`{"committee":"cmt-7","amount":123.45,"budget":100,"mode":"best_fill"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "accepted", resp.Status)
	require.InDelta(t, 123.45, stub.lastConvert.Amount, 1e-9)

	t.Run("amount обязателен", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/convert",
			strings.NewReader(`{"committee":"cmt-7","amount":0}`)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpstreamFailureMapsToBadGateway(t *testing.T) {
	stub, h := testHandler(t)
	stub.quoteErr = fmt.Errorf("fetch board cmt-7: %w: connection refused", convert.ErrUpstream)
	stub.convertErr = fmt.Errorf("submit order: %w: status 503", convert.ErrUpstream)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quote",
		strings.NewReader(`{"committee":"cmt-7","budget":100}`)))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders?committee=cmt-7", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/convert",
		strings.NewReader(`{"committee":"cmt-7","amount":10}`)))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	// Ошибки без ErrUpstream остаются плохим запросом.
	stub.quoteErr = fmt.Errorf("committee is required")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quote",
		strings.NewReader(`{"committee":"cmt-7","budget":100}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCommitteesAndHistory(t *testing.T) {
	_, h := testHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/committees", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "cmt-7")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "client-1")
}

func TestCORSPreflight(t *testing.T) {
	_, h := testHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/quote", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
