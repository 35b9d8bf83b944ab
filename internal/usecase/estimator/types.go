package estimator

import "strings"

// ====== Чистые типы оценщика (не зависят от HTTP и доменных сущностей) ======

// SortMode — критерий ранжирования заявок перед жадным проходом.
type SortMode string

const (
	BestPrice SortMode = "best_price" // дешёвые заявки первыми
	BestFill  SortMode = "best_fill"  // крупные заявки первыми
)

// NormalizeMode — неизвестный режим сводим к best_price, а не роняем запрос.
func NormalizeMode(s string) SortMode {
	if strings.EqualFold(strings.TrimSpace(s), string(BestFill)) {
		return BestFill
	}
	return BestPrice
}

// Order — снимок одной заявки на продажу, видимой оценщику.
type Order struct {
	ID       string
	Amount   float64 // сколько CNPY предлагает заявка
	Price    float64 // USDC за 1 CNPY
	Discount float64 // процент ниже референс-цены; только для отображения
}

// Pick — принятая заявка с её стоимостью и "скидкой" в USDC.
type Pick struct {
	Order
	Cost    float64 // Amount * Price
	Savings float64 // Amount - Cost
}

// Result — превью заполнения. Пересчитывается на каждый ввод, нигде не хранится.
type Result struct {
	Selected     []Pick
	TotalCost    float64 // потратим USDC; всегда <= бюджета
	TotalSavings float64
	Received     float64 // получим CNPY
	Gap          float64 // неиспользованный остаток бюджета
	FullyFilled  bool
}
