package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"cnpycalc/internal/domain"
	"cnpycalc/internal/usecase/estimator"
)

// ErrUpstream помечает сбои внешнего лаунчпада (борд не получен, заявка
// не ушла). Транспорт по нему отличает 502 от ошибок валидации запроса.
var ErrUpstream = errors.New("launchpad upstream error")

// Service — чистый use-case конверсии: превью через оценщик и отправка
// подтверждённой заявки через внешний API.
type Service struct {
	repo   Repo
	prices PriceSource // может быть nil: скидки от раундовой цены
	submit Submitter   // nil = режим «только превью»
	hist   History     // nil = история не ведётся
}

func New(repo Repo, prices PriceSource, submit Submitter, hist History) *Service {
	return &Service{repo: repo, prices: prices, submit: submit, hist: hist}
}

// Quote — рассчитывает превью заполнения для комитета.
// Вырожденный бюджет (<=0, NaN) — валидный вход: вернём пустое превью,
// это поведение оценщика, а не ошибка запроса.
func (s *Service) Quote(ctx context.Context, in Request) (Quote, error) {
	committee := strings.TrimSpace(in.Committee)
	if committee == "" {
		return Quote{}, fmt.Errorf("committee is required")
	}
	mode := estimator.NormalizeMode(in.Mode)

	com, orders, diags, err := s.repo.FetchBoard(ctx, committee)
	if err != nil {
		return Quote{}, fmt.Errorf("fetch board %s: %w: %w", committee, ErrUpstream, err)
	}

	q := Quote{
		Committee:   com.ID,
		Asset:       com.Asset,
		Mode:        mode,
		Budget:      in.Budget,
		Diagnostics: diags,
		GeneratedAt: nowString(),
	}

	// Референс-цена для скидок: рыночная, если актив уже листингован,
	// иначе раундовая цена комитета.
	ref := com.RoundPrice.InexactFloat64()
	if s.prices != nil {
		if p, perr := s.prices.SpotPrice(ctx, com.Asset); perr == nil && p > 0 {
			ref = p
			q.Diagnostics = append(q.Diagnostics, "refprice:spot")
		} else {
			q.Diagnostics = append(q.Diagnostics, "refprice:round")
		}
	}
	q.RefPrice = ref

	est := make([]estimator.Order, 0, len(orders))
	for _, o := range orders {
		est = append(est, estimator.Order{
			ID:       o.ID,
			Amount:   o.Amount.InexactFloat64(),
			Price:    o.Price.InexactFloat64(),
			Discount: discountPct(o.Price.InexactFloat64(), ref),
		})
	}

	res := estimator.Estimate(est, in.Budget, mode)

	picked := make(map[string]estimator.Pick, len(res.Selected))
	for _, p := range res.Selected {
		picked[p.ID] = p
	}

	q.Orders = make([]OrderView, 0, len(est))
	for _, o := range est {
		v := OrderView{
			ID:       o.ID,
			Amount:   o.Amount,
			Price:    o.Price,
			Discount: round2(o.Discount),
			Cost:     round2(o.Amount * o.Price),
			Savings:  round2(o.Amount - o.Amount*o.Price),
		}
		if _, ok := picked[o.ID]; ok {
			v.Selected = true
		}
		q.Orders = append(q.Orders, v)
	}

	q.TotalCost = round2(res.TotalCost)
	q.TotalSavings = round2(res.TotalSavings)
	q.Received = res.Received
	q.Gap = round2(res.Gap)
	q.FullyFilled = res.FullyFilled
	return q, nil
}

// Submit — отправляет НАМЕРЕНИЕ пользователя (его объём и бюджет) во
// внешний API. Итоги превью сюда не попадают: они устаревают к моменту
// подтверждения и матчится всё равно сервер лаунчпада.
func (s *Service) Submit(ctx context.Context, in SubmitRequest) (Receipt, error) {
	if s.submit == nil {
		return Receipt{}, fmt.Errorf("order submission is not configured")
	}
	committee := strings.TrimSpace(in.Committee)
	if committee == "" {
		return Receipt{}, fmt.Errorf("committee is required")
	}
	if !(in.Amount > 0) || math.IsInf(in.Amount, 0) {
		return Receipt{}, fmt.Errorf("amount must be > 0")
	}
	in.Committee = committee
	in.Mode = string(estimator.NormalizeMode(in.Mode))

	clientOrderID := uuid.NewString()
	rcpt, err := s.submit.SubmitOrder(ctx, in, clientOrderID)
	if err != nil {
		return Receipt{}, fmt.Errorf("submit order: %w: %w", ErrUpstream, err)
	}

	if s.hist != nil {
		rec := &domain.ConversionRecord{
			ClientOrderID: rcpt.ClientOrderID,
			Committee:     committee,
			Amount:        in.Amount,
			Budget:        in.Budget,
			Mode:          in.Mode,
			Status:        rcpt.Status,
			CreatedAt:     rcpt.SubmittedAt,
		}
		// Журнал — вспомогательный: принятая лаунчпадом заявка не должна
		// падать из-за локальной записи.
		if herr := s.hist.SaveConversion(rec); herr != nil {
			slog.Warn("conversion history save failed", slog.Any("error", herr))
		}
	}
	return rcpt, nil
}

// Committees — список известных комитетов (для выбора рынка в UI/CLI).
func (s *Service) Committees(ctx context.Context) ([]domain.Committee, error) {
	return s.repo.ListCommittees(ctx)
}

// History — последние записанные конверсии.
func (s *Service) History(limit int) ([]domain.ConversionRecord, error) {
	if s.hist == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return s.hist.RecentConversions(limit)
}

// discountPct — на сколько процентов цена заявки ниже референса.
func discountPct(price, ref float64) float64 {
	if ref <= 0 {
		return 0
	}
	return (1 - price/ref) * 100
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
