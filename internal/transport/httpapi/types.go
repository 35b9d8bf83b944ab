package httpapi

type QuoteRequest struct {
	Committee string  `json:"committee"`
	Budget    float64 `json:"budget"`
	Mode      string  `json:"mode"` // best_price | best_fill
}

type OrderDTO struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
	Cost     float64 `json:"cost"`
	Savings  float64 `json:"savings"`
	Selected bool    `json:"selected"`
}

type QuoteResponse struct {
	Committee    string     `json:"committee"`
	Asset        string     `json:"asset"`
	Mode         string     `json:"mode"`
	Budget       float64    `json:"budget"`
	RefPrice     float64    `json:"refPrice"`
	Orders       []OrderDTO `json:"orders"`
	TotalCost    float64    `json:"totalCost"`
	TotalSavings float64    `json:"totalSavings"`
	CnpyReceived float64    `json:"cnpyReceived"`
	Gap          float64    `json:"gap"`
	FullyFilled  bool       `json:"isFullyFilled"`
	Diagnostics  []string   `json:"diagnostics,omitempty"`
	GeneratedAt  string     `json:"generatedAt"`
}

type ConvertRequest struct {
	Committee string  `json:"committee"`
	Amount    float64 `json:"amount"` // намерение пользователя, не итоги превью
	Budget    float64 `json:"budget"`
	Mode      string  `json:"mode"`
}

type ConvertResponse struct {
	ClientOrderID string `json:"clientOrderId"`
	Status        string `json:"status"`
	SubmittedAt   string `json:"submittedAt"`
}

type CommitteeDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Asset      string  `json:"asset"`
	RoundPrice float64 `json:"roundPrice"`
	Open       bool    `json:"open"`
}

type HistoryItem struct {
	ClientOrderID string  `json:"clientOrderId"`
	Committee     string  `json:"committee"`
	Amount        float64 `json:"amount"`
	Budget        float64 `json:"budget"`
	Mode          string  `json:"mode"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
