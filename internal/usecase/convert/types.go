package convert

import (
	"context"
	"time"

	"cnpycalc/internal/domain"
	"cnpycalc/internal/usecase/estimator"
)

// ====== Чистые типы use-case (не зависят от HTTP и конкретного API лаунчпада) ======

// Request — вход для расчёта превью конверсии.
type Request struct {
	Committee string  // идентификатор комитета/рынка
	Budget    float64 // сколько USDC готовы потратить
	Mode      string  // best_price | best_fill
}

// OrderView — заявка борда глазами UI: стоимость и скидка посчитаны,
// выбранные жадным проходом помечены флагом.
type OrderView struct {
	ID       string
	Amount   float64
	Price    float64
	Discount float64 // % ниже референс-цены
	Cost     float64
	Savings  float64
	Selected bool
}

// Quote — превью конверсии. Только рекомендация: авторитетный матчинг
// выполняет лаунчпад при фактической отправке заявки.
type Quote struct {
	Committee    string
	Asset        string
	Mode         estimator.SortMode
	Budget       float64
	RefPrice     float64 // референс-цена, от которой считались скидки
	Orders       []OrderView
	TotalCost    float64
	TotalSavings float64
	Received     float64
	Gap          float64
	FullyFilled  bool
	Diagnostics  []string
	GeneratedAt  string // "15:04 02.01.2006"
}

// SubmitRequest — подтверждённое пользователем намерение. Сюда попадает
// именно введённый пользователем объём, а не итоги превью.
type SubmitRequest struct {
	Committee string
	Amount    float64 // сколько CNPY пользователь хочет получить
	Budget    float64 // сколько USDC он готов потратить
	Mode      string
}

// Receipt — ответ лаунчпада на отправленную заявку.
type Receipt struct {
	ClientOrderID string
	Status        string // accepted | rejected
	SubmittedAt   time.Time
}

// Repo — доступ к борду заявок (реализация в инфраструктуре).
type Repo interface {
	// FetchBoard возвращает комитет и его открытые sell-заявки.
	FetchBoard(ctx context.Context, committee string) (domain.Committee, []domain.SellOrder, []string, error)
	// ListCommittees возвращает известные комитеты лаунчпада.
	ListCommittees(ctx context.Context) ([]domain.Committee, error)
}

// PriceSource — best-effort рыночная цена актива для расчёта скидок.
// Ошибка или нулевая цена означают «не листингован», тогда скидки
// считаются от раундовой цены комитета.
type PriceSource interface {
	SpotPrice(ctx context.Context, asset string) (float64, error)
}

// Submitter — внешний API создания заявок (реализация в инфраструктуре).
type Submitter interface {
	SubmitOrder(ctx context.Context, req SubmitRequest, clientOrderID string) (Receipt, error)
}

// History — журнал принятых конверсий.
type History interface {
	SaveConversion(rec *domain.ConversionRecord) error
	RecentConversions(limit int) ([]domain.ConversionRecord, error)
}

func nowString() string { return time.Now().Format("15:04 02.01.2006") }
