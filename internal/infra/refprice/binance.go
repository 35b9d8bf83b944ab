package refprice

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	gbinance "github.com/adshao/go-binance/v2"
)

// Binance — best-effort источник спотовой цены для активов, которые уже
// листингованы на бирже. Реализует convert.PriceSource; для нелистингованных
// токенов возвращает ошибку, и скидки считаются от раундовой цены.
type Binance struct {
	client *gbinance.Client
	quote  string // валюта котировки на споте, обычно USDT
}

func NewBinance(quote string) *Binance {
	client := gbinance.NewClient("", "")
	// Чуть мягче таймаут: не висим долго, но и не рвём слишком быстро
	client.HTTPClient = &http.Client{Timeout: 7 * time.Second}
	if quote == "" {
		quote = "USDT"
	}
	return &Binance{client: client, quote: strings.ToUpper(quote)}
}

func (b *Binance) SpotPrice(ctx context.Context, asset string) (float64, error) {
	symbol := strings.ToUpper(strings.TrimSpace(asset)) + b.quote

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(cctx)
	if err != nil {
		return 0, fmt.Errorf("binance: цена %s: %w", symbol, err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("binance: %s не торгуется", symbol)
	}
	p, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil || p <= 0 {
		return 0, fmt.Errorf("binance: некорректная цена %q для %s", prices[0].Price, symbol)
	}
	return p, nil
}
