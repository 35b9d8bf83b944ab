package cli

import (
	"fmt"

	"cnpycalc/internal/shared/format"
	"cnpycalc/internal/usecase/convert"
)

type CLIPresenter struct{}

func NewCLIPresenter() *CLIPresenter { return &CLIPresenter{} }

func (c *CLIPresenter) Infof(f string, args ...any) { fmt.Printf(f, args...) }
func (c *CLIPresenter) Warnf(f string, args ...any) { fmt.Printf(f, args...) }

// ShowQuote — печать превью конверсии: таблица заявок и итоги.
func (c *CLIPresenter) ShowQuote(q convert.Quote) {
	fmt.Printf("\n=== Превью конверсии: %s (%s, %s) ===\n", q.Committee, q.Asset, q.Mode)
	fmt.Printf("Бюджет: %s USDC, референс-цена: %.8f USDC\n", format.Money(q.Budget), q.RefPrice)

	if len(q.Orders) == 0 {
		fmt.Println("Открытых заявок нет.")
		return
	}

	fmt.Println("Заявки борда (✓ = выбрана жадным подбором):")
	for _, o := range q.Orders {
		mark := " "
		if o.Selected {
			mark = "✓"
		}
		fmt.Printf("  [%s] %s: %s %s по %.8f (скидка %.2f%%) = %s USDC\n",
			mark, o.ID, format.Qty(o.Amount), q.Asset, o.Price, o.Discount, format.Money(o.Cost))
	}

	fmt.Printf("Итого: %s %s за %s USDC, экономия %s USDC\n",
		format.Qty(q.Received), q.Asset, format.Money(q.TotalCost), format.Money(q.TotalSavings))
	if q.FullyFilled {
		fmt.Printf("Бюджет выбран полностью (остаток %s USDC)\n", format.Money(q.Gap))
	} else {
		fmt.Printf("Остаток бюджета не размещён: %s USDC\n", format.Money(q.Gap))
	}
	fmt.Printf("Рассчитано: %s. Это превью — итоговый матчинг делает лаунчпад.\n", q.GeneratedAt)
}

// ShowReceipt — результат отправки заявки.
func (c *CLIPresenter) ShowReceipt(r convert.Receipt) {
	fmt.Printf("\nЗаявка отправлена: clientOrderId=%s, статус=%s\n", r.ClientOrderID, r.Status)
}
