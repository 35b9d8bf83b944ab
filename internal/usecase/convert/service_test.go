package convert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"cnpycalc/internal/domain"
	"cnpycalc/internal/usecase/estimator"
)

type fakeRepo struct {
	com    domain.Committee
	orders []domain.SellOrder
	err    error
}

func (f *fakeRepo) FetchBoard(_ context.Context, committee string) (domain.Committee, []domain.SellOrder, []string, error) {
	if f.err != nil {
		return domain.Committee{}, nil, nil, f.err
	}
	return f.com, f.orders, []string{"board:ok"}, nil
}

func (f *fakeRepo) ListCommittees(context.Context) ([]domain.Committee, error) {
	return []domain.Committee{f.com}, nil
}

type fakePrices struct {
	price float64
	err   error
}

func (f *fakePrices) SpotPrice(context.Context, string) (float64, error) { return f.price, f.err }

type fakeSubmitter struct {
	gotReq SubmitRequest
	gotID  string
	err    error
}

func (f *fakeSubmitter) SubmitOrder(_ context.Context, req SubmitRequest, clientOrderID string) (Receipt, error) {
	f.gotReq = req
	f.gotID = clientOrderID
	if f.err != nil {
		return Receipt{}, f.err
	}
	return Receipt{ClientOrderID: clientOrderID, Status: "accepted", SubmittedAt: time.Now()}, nil
}

type fakeHistory struct {
	saved []domain.ConversionRecord
}

func (f *fakeHistory) SaveConversion(rec *domain.ConversionRecord) error {
	f.saved = append(f.saved, *rec)
	return nil
}

func (f *fakeHistory) RecentConversions(limit int) ([]domain.ConversionRecord, error) {
	return f.saved, nil
}

func boardRepo() *fakeRepo {
	return &fakeRepo{
		com: domain.Committee{
			ID:         "cmt-7",
			Name:       "Genesis",
			Asset:      "CNPY",
			RoundPrice: decimal.NewFromInt(1),
			Open:       true,
		},
		orders: []domain.SellOrder{
			{ID: "1", Amount: decimal.NewFromInt(100), Price: decimal.RequireFromString("0.9")},
			{ID: "2", Amount: decimal.NewFromInt(50), Price: decimal.RequireFromString("0.8")},
		},
	}
}

func TestQuoteBestPrice(t *testing.T) {
	svc := New(boardRepo(), nil, nil, nil)

	q, err := svc.Quote(context.Background(), Request{Committee: "cmt-7", Budget: 100, Mode: "best_price"})
	require.NoError(t, err)

	require.Equal(t, estimator.BestPrice, q.Mode)
	require.Equal(t, "CNPY", q.Asset)
	require.InDelta(t, 40, q.TotalCost, 1e-9)
	require.InDelta(t, 50, q.Received, 1e-9)
	require.InDelta(t, 60, q.Gap, 1e-9)
	require.False(t, q.FullyFilled)

	// обе заявки видимы, выбрана только дешёвая
	require.Len(t, q.Orders, 2)
	byID := map[string]OrderView{}
	for _, o := range q.Orders {
		byID[o.ID] = o
	}
	require.True(t, byID["2"].Selected)
	require.False(t, byID["1"].Selected)

	// скидки от раундовой цены 1.0
	require.InDelta(t, 10, byID["1"].Discount, 1e-9)
	require.InDelta(t, 20, byID["2"].Discount, 1e-9)
}

func TestQuoteBestFill(t *testing.T) {
	svc := New(boardRepo(), nil, nil, nil)

	q, err := svc.Quote(context.Background(), Request{Committee: "cmt-7", Budget: 100, Mode: "best_fill"})
	require.NoError(t, err)
	require.InDelta(t, 90, q.TotalCost, 1e-9)
	require.InDelta(t, 100, q.Received, 1e-9)
	require.InDelta(t, 10, q.Gap, 1e-9)
}

func TestQuoteDegenerateBudget(t *testing.T) {
	svc := New(boardRepo(), nil, nil, nil)

	// нулевой бюджет — валидный вход, а не ошибка
	q, err := svc.Quote(context.Background(), Request{Committee: "cmt-7", Budget: 0})
	require.NoError(t, err)
	require.Zero(t, q.TotalCost)
	require.Zero(t, q.Received)
	require.Len(t, q.Orders, 2)
	for _, o := range q.Orders {
		require.False(t, o.Selected)
	}
}

func TestQuoteValidation(t *testing.T) {
	svc := New(boardRepo(), nil, nil, nil)

	_, err := svc.Quote(context.Background(), Request{Committee: "  ", Budget: 10})
	require.Error(t, err)

	bad := boardRepo()
	bad.err = errors.New("api down")
	_, err = New(bad, nil, nil, nil).Quote(context.Background(), Request{Committee: "cmt-7", Budget: 10})
	require.ErrorContains(t, err, "api down")
	// сбой борда помечается как внешний, чтобы транспорт вернул 502
	require.ErrorIs(t, err, ErrUpstream)
}

func TestQuoteSpotPriceOverridesRound(t *testing.T) {
	svc := New(boardRepo(), &fakePrices{price: 2}, nil, nil)

	q, err := svc.Quote(context.Background(), Request{Committee: "cmt-7", Budget: 100})
	require.NoError(t, err)
	require.InDelta(t, 2, q.RefPrice, 1e-9)
	require.Contains(t, q.Diagnostics, "refprice:spot")

	// недоступный источник — откат на раундовую цену
	svc = New(boardRepo(), &fakePrices{err: errors.New("not listed")}, nil, nil)
	q, err = svc.Quote(context.Background(), Request{Committee: "cmt-7", Budget: 100})
	require.NoError(t, err)
	require.InDelta(t, 1, q.RefPrice, 1e-9)
	require.Contains(t, q.Diagnostics, "refprice:round")
}

func TestSubmitSendsUserIntent(t *testing.T) {
	sub := &fakeSubmitter{}
	hist := &fakeHistory{}
	svc := New(boardRepo(), nil, sub, hist)

	rcpt, err := svc.Submit(context.Background(), SubmitRequest{
		Committee: "cmt-7",
		Amount:    123.45, // именно намерение пользователя, не итоги превью
		Budget:    100,
		Mode:      "BEST_FILL",
	})
	require.NoError(t, err)
	require.Equal(t, "accepted", rcpt.Status)
	require.NotEmpty(t, rcpt.ClientOrderID)

	require.InDelta(t, 123.45, sub.gotReq.Amount, 1e-9)
	require.Equal(t, "best_fill", sub.gotReq.Mode)
	require.Equal(t, rcpt.ClientOrderID, sub.gotID)

	require.Len(t, hist.saved, 1)
	require.Equal(t, rcpt.ClientOrderID, hist.saved[0].ClientOrderID)
	require.Equal(t, "accepted", hist.saved[0].Status)
}

func TestSubmitValidation(t *testing.T) {
	svc := New(boardRepo(), nil, &fakeSubmitter{}, nil)

	_, err := svc.Submit(context.Background(), SubmitRequest{Committee: "cmt-7", Amount: 0})
	require.Error(t, err)

	_, err = svc.Submit(context.Background(), SubmitRequest{Committee: "", Amount: 5})
	require.Error(t, err)

	// без сконфигурированного Submitter отправка недоступна
	_, err = New(boardRepo(), nil, nil, nil).Submit(context.Background(), SubmitRequest{Committee: "cmt-7", Amount: 5})
	require.Error(t, err)

	// отказ лаунчпада — внешний сбой, а не ошибка валидации
	down := &fakeSubmitter{err: errors.New("status 503")}
	_, err = New(boardRepo(), nil, down, nil).Submit(context.Background(), SubmitRequest{Committee: "cmt-7", Amount: 5})
	require.ErrorIs(t, err, ErrUpstream)
}
