package orderstream

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"cnpycalc/internal/domain"
	"cnpycalc/internal/usecase/convert"
)

const (
	maxRetries   = 10
	baseDelay    = 1 * time.Second
	maxDelay     = 60 * time.Second
	pingInterval = 30 * time.Second
	readTimeout  = 60 * time.Second
)

// Watcher держит живой снапшот борда одного комитета через WebSocket,
// чтобы превью на каждый ввод пользователя не ходило в REST. Реализует
// convert.Repo: пока снапшот не прогрет (и для чужих комитетов) запросы
// делегируются REST-репозиторию.
type Watcher struct {
	wsURL     string
	committee string
	fallback  convert.Repo

	mu     sync.RWMutex
	com    domain.Committee
	orders []domain.SellOrder
	warm   bool

	writeMu sync.Mutex
	conn    *websocket.Conn
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewWatcher(wsURL, committee string, fallback convert.Repo) *Watcher {
	return &Watcher{wsURL: wsURL, committee: committee, fallback: fallback}
}

// Start запускает цикл переподключения в фоне.
func (w *Watcher) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

// ====== convert.Repo ======

func (w *Watcher) FetchBoard(ctx context.Context, committee string) (domain.Committee, []domain.SellOrder, []string, error) {
	if committee == w.committee {
		w.mu.RLock()
		if w.warm {
			com := w.com
			orders := make([]domain.SellOrder, len(w.orders))
			copy(orders, w.orders)
			w.mu.RUnlock()
			return com, orders, []string{fmt.Sprintf("board:%s:live:%d", committee, len(orders))}, nil
		}
		w.mu.RUnlock()
	}
	return w.fallback.FetchBoard(ctx, committee)
}

func (w *Watcher) ListCommittees(ctx context.Context) ([]domain.Committee, error) {
	return w.fallback.ListCommittees(ctx)
}

// ====== Соединение ======

func (w *Watcher) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			slog.Warn("orderstream connection failed",
				slog.Any("error", err), slog.Int("retry", retryCount))
			delay := backoffDelay(retryCount)
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		} else {
			retryCount = 0
			w.readLoop(ctx)
			// после обрыва снапшот недостоверен
			w.mu.Lock()
			w.warm = false
			w.mu.Unlock()
		}
	}
}

func (w *Watcher) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, w.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	sub := map[string]string{"op": "subscribe", "channel": "orders", "committee": w.committee}
	w.writeMu.Lock()
	err = conn.WriteJSON(sub)
	w.writeMu.Unlock()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("subscribe failed: %w", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()
	return nil
}

// ====== Сообщения фида ======

type wsOrder struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	Price     string `json:"price"`
	CreatedAt int64  `json:"createdAt"`
}

type wsMessage struct {
	Type      string `json:"type"` // snapshot | update | pong
	Committee struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Asset      string `json:"asset"`
		RoundPrice string `json:"roundPrice"`
		Status     string `json:"status"`
	} `json:"committee"`
	Orders  []wsOrder `json:"orders"`
	Added   []wsOrder `json:"added"`
	Removed []string  `json:"removed"`
}

func (w *Watcher) readLoop(ctx context.Context) {
	w.mu.RLock()
	conn := w.conn
	w.mu.RUnlock()
	if conn == nil {
		return
	}
	defer conn.Close()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ping.C:
				w.writeMu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
				w.writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			slog.Warn("orderstream read failed", slog.Any("error", err))
			return
		}
		w.handle(msg)
	}
}

func (w *Watcher) handle(msg wsMessage) {
	switch msg.Type {
	case "snapshot":
		com := domain.Committee{
			ID:   msg.Committee.ID,
			Name: msg.Committee.Name,
			// актив нормализуем как в REST-маппинге: тикер идёт в символ
			// референс-цены и не должен зависеть от регистра фида
			Asset:      strings.ToUpper(strings.TrimSpace(msg.Committee.Asset)),
			RoundPrice: parseDec(msg.Committee.RoundPrice),
			Open:       msg.Committee.Status == "open",
		}
		orders := make([]domain.SellOrder, 0, len(msg.Orders))
		for _, o := range msg.Orders {
			if so, ok := toSellOrder(o); ok {
				orders = append(orders, so)
			}
		}
		w.mu.Lock()
		w.com = com
		w.orders = orders
		w.warm = true
		w.mu.Unlock()

	case "update":
		w.mu.Lock()
		if !w.warm {
			// обновление без снапшота применять не к чему
			w.mu.Unlock()
			return
		}
		if len(msg.Removed) > 0 {
			gone := make(map[string]struct{}, len(msg.Removed))
			for _, id := range msg.Removed {
				gone[id] = struct{}{}
			}
			kept := w.orders[:0]
			for _, o := range w.orders {
				if _, ok := gone[o.ID]; !ok {
					kept = append(kept, o)
				}
			}
			w.orders = kept
		}
		for _, o := range msg.Added {
			if so, ok := toSellOrder(o); ok {
				w.orders = append(w.orders, so)
			}
		}
		w.mu.Unlock()
	}
}

func toSellOrder(o wsOrder) (domain.SellOrder, bool) {
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

func parseDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func backoffDelay(retry int) time.Duration {
	d := time.Duration(float64(baseDelay) * math.Pow(2, float64(retry)))
	if d > maxDelay {
		d = maxDelay
	}
	return d
}
