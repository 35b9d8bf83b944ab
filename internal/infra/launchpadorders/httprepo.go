package launchpadorders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"cnpycalc/internal/domain"
	"cnpycalc/internal/shared/retry"
	"cnpycalc/internal/usecase/convert"
)

// HTTPRepo реализует convert.Repo и convert.Submitter поверх REST API
// лаунчпада. Цены и объёмы приходят строками — парсим их как decimal
// и отбрасываем испорченные уровни прямо на границе.
type HTTPRepo struct {
	base      string
	http      *http.Client
	limiter   *rate.Limiter
	pageLimit int
}

func NewHTTPRepo(baseURL string, pageLimit int, perSec float64, burst int) *HTTPRepo {
	if pageLimit <= 0 {
		pageLimit = 100
	}
	if perSec <= 0 {
		perSec = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &HTTPRepo{
		base:      strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 8 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(perSec), burst),
		pageLimit: pageLimit,
	}
}

// ====== Вспомогалки ======

func (r *HTTPRepo) doGET(ctx context.Context, url string, target any) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	req, _ := http.NewRequestWithContext(ctx, "GET", url, nil)
	req.Header.Set("User-Agent", "cnpycalc/httprepo")
	res, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return fmt.Errorf("http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(target)
}

func (r *HTTPRepo) doPOST(ctx context.Context, url string, body, target any) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, _ := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(raw))
	req.Header.Set("User-Agent", "cnpycalc/httprepo")
	req.Header.Set("Content-Type", "application/json")
	res, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return fmt.Errorf("http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(target)
}

// ====== Wire-структуры API ======

type committeeDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Asset      string `json:"asset"`
	RoundPrice string `json:"roundPrice"`
	Status     string `json:"status"` // open | closed
}

type orderDTO struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	Price     string `json:"price"`
	CreatedAt int64  `json:"createdAt"` // unix millis
}

type ordersPageDTO struct {
	Orders  []orderDTO `json:"orders"`
	HasMore bool       `json:"hasMore"`
}

// ====== Реализация convert.Repo ======

// maxPages — страховка от бесконечной пагинации при кривом hasMore.
const maxPages = 50

func (r *HTTPRepo) FetchBoard(ctx context.Context, committee string) (domain.Committee, []domain.SellOrder, []string, error) {
	var cdto committeeDTO
	url := fmt.Sprintf("%s/api/v1/committees/%s", r.base, committee)
	if err := r.doGET(ctx, url, &cdto); err != nil {
		return domain.Committee{}, nil, nil, fmt.Errorf("committee %s: %w", committee, err)
	}
	com := toCommittee(cdto)

	var orders []domain.SellOrder
	var skipped int
	for page := 1; page <= maxPages; page++ {
		var pg ordersPageDTO
		url := fmt.Sprintf("%s/api/v1/committees/%s/orders?status=open&page=%d&limit=%d",
			r.base, committee, page, r.pageLimit)
		if err := r.doGET(ctx, url, &pg); err != nil {
			return domain.Committee{}, nil, nil, fmt.Errorf("orders %s page %d: %w", committee, page, err)
		}
		for _, o := range pg.Orders {
			so, ok := toSellOrder(o)
			if !ok {
				skipped++
				continue
			}
			orders = append(orders, so)
		}
		if !pg.HasMore || len(pg.Orders) == 0 {
			break
		}
	}

	diags := []string{fmt.Sprintf("board:%s:orders:%d", committee, len(orders))}
	if skipped > 0 {
		diags = append(diags, fmt.Sprintf("board:%s:skipped:%d", committee, skipped))
	}
	return com, orders, diags, nil
}

func (r *HTTPRepo) ListCommittees(ctx context.Context) ([]domain.Committee, error) {
	var raw struct {
		Committees []committeeDTO `json:"committees"`
	}
	if err := r.doGET(ctx, r.base+"/api/v1/committees", &raw); err != nil {
		return nil, fmt.Errorf("list committees: %w", err)
	}
	out := make([]domain.Committee, 0, len(raw.Committees))
	for _, c := range raw.Committees {
		out = append(out, toCommittee(c))
	}
	return out, nil
}

// ====== Реализация convert.Submitter ======

type submitDTO struct {
	Committee     string `json:"committee"`
	Amount        string `json:"amount"`
	Budget        string `json:"budget"`
	Mode          string `json:"mode"`
	ClientOrderID string `json:"clientOrderId"`
}

type submitResponseDTO struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

func (r *HTTPRepo) SubmitOrder(ctx context.Context, req convert.SubmitRequest, clientOrderID string) (convert.Receipt, error) {
	body := submitDTO{
		Committee:     req.Committee,
		Amount:        decimal.NewFromFloat(req.Amount).String(),
		Budget:        decimal.NewFromFloat(req.Budget).String(),
		Mode:          req.Mode,
		ClientOrderID: clientOrderID,
	}

	var resp submitResponseDTO
	url := fmt.Sprintf("%s/api/v1/committees/%s/orders/convert", r.base, req.Committee)
	// Отправка идемпотентна по clientOrderId, поэтому повтор безопасен.
	err := retry.WithBackoff(ctx, 2, 500*time.Millisecond, func() error {
		return r.doPOST(ctx, url, body, &resp)
	})
	if err != nil {
		return convert.Receipt{}, fmt.Errorf("convert order %s: %w", req.Committee, err)
	}

	status := resp.Status
	if status == "" {
		status = "accepted"
	}
	return convert.Receipt{
		ClientOrderID: clientOrderID,
		Status:        status,
		SubmittedAt:   time.Now(),
	}, nil
}

// ====== Маппинг wire -> домен ======

func toCommittee(c committeeDTO) domain.Committee {
	price, err := decimal.NewFromString(c.RoundPrice)
	if err != nil {
		price = decimal.Zero
	}
	return domain.Committee{
		ID:         c.ID,
		Name:       c.Name,
		Asset:      strings.ToUpper(strings.TrimSpace(c.Asset)),
		RoundPrice: price,
		Open:       strings.EqualFold(c.Status, "open"),
	}
}

func toSellOrder(o orderDTO) (domain.SellOrder, bool) {
	amount, err1 := decimal.NewFromString(o.Amount)
	price, err2 := decimal.NewFromString(o.Price)
	if err1 != nil || err2 != nil || amount.Sign() <= 0 || price.Sign() <= 0 {
		return domain.SellOrder{}, false
	}
	return domain.SellOrder{
		ID:        o.ID,
		Amount:    amount,
		Price:     price,
		CreatedAt: time.UnixMilli(o.CreatedAt),
	}, true
}
