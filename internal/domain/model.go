package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Базовые доменные сущности лаунчпада

// SellOrder — открытая заявка на продажу токена в борде комитета.
// Объём и цена хранятся как decimal: именно в таком виде они приходят
// с API, float64 появляется только внутри расчёта превью.
type SellOrder struct {
	ID        string
	Amount    decimal.Decimal // сколько CNPY продаётся
	Price     decimal.Decimal // USDC за 1 CNPY
	CreatedAt time.Time
}

// Committee — рынок (комитет) лаунчпада, внутри которого живут заявки.
type Committee struct {
	ID         string
	Name       string
	Asset      string          // тикер продаваемого токена (обычно CNPY)
	RoundPrice decimal.Decimal // референс-цена текущего раунда, USDC за 1 токен
	Open       bool
}

// ConversionRecord — принятая лаунчпадом заявка пользователя (история конверсий).
type ConversionRecord struct {
	ID            uint   `gorm:"primaryKey"`
	ClientOrderID string `gorm:"uniqueIndex;size:64"`
	Committee     string `gorm:"index;size:64"`
	Amount        float64 // сколько CNPY пользователь хочет получить
	Budget        float64 // сколько USDC он готов потратить
	Mode          string  // best_price | best_fill
	Status        string  // accepted | rejected
	CreatedAt     time.Time
}
