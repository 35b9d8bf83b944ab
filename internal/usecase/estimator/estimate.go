package estimator

import (
	"math"
	"sort"
)

// FullFillTolerance — абсолютный допуск "бюджет выбран": остаток меньше
// одной единицы USDC считаем полным заполнением.
const FullFillTolerance = 1.0

// Estimate — жадный однопроходный подбор заявок под бюджет.
// Заявка берётся целиком или пропускается насовсем: частичных заполнений
// и возврата назад нет, поэтому для данного порядка сортировки результат
// детерминирован. Это превью, а не исполнение — авторитетный матчинг
// делает лаунчпад при отправке заявки.
func Estimate(orders []Order, budget float64, mode SortMode) Result {
	if !isFinite(budget) || budget <= 0 {
		return Result{}
	}

	// Работаем с копией, вход не мутируем. Испорченные уровни
	// (NaN/Inf/неположительные) выбрасываем, чтобы не отравить итоги.
	xs := make([]Order, 0, len(orders))
	for _, o := range orders {
		if !isFinite(o.Amount) || !isFinite(o.Price) || o.Amount <= 0 || o.Price <= 0 {
			continue
		}
		xs = append(xs, o)
	}

	// Стабильная сортировка: равные заявки сохраняют исходный порядок.
	switch mode {
	case BestFill:
		sort.SliceStable(xs, func(i, j int) bool { return xs[i].Amount > xs[j].Amount })
	default:
		sort.SliceStable(xs, func(i, j int) bool { return xs[i].Price < xs[j].Price })
	}

	var res Result
	remaining := budget
	for _, o := range xs {
		cost := o.Amount * o.Price
		if cost > remaining {
			continue
		}
		res.Selected = append(res.Selected, Pick{
			Order:   o,
			Cost:    cost,
			Savings: o.Amount - cost,
		})
		res.TotalCost += cost
		res.TotalSavings += o.Amount - cost
		res.Received += o.Amount
		remaining -= cost
	}

	res.Gap = budget - res.TotalCost
	res.FullyFilled = res.Gap < FullFillTolerance
	return res
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
