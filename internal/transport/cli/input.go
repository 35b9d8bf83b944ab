package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"cnpycalc/internal/domain"
	"cnpycalc/internal/shared/format"
)

// InputParams — параметры превью, собранные интерактивно в терминале.
type InputParams struct {
	Committee string
	Budget    float64
	Mode      string // best_price | best_fill
}

// GetInteractiveParams — опрос пользователя: комитет, бюджет, критерий.
func GetInteractiveParams(committees []domain.Committee) InputParams {
	reader := bufio.NewReader(os.Stdin)

	var params InputParams

	fmt.Println("В каком комитете считаем конверсию?")
	params.Committee = askCommittee(reader, committees)

	params.Budget = askFloat(reader, "\nСколько у вас USDC? (Enter = 1000.0): ", 1000.0)

	fmt.Println("\nКак ранжировать заявки?")
	fmt.Println("1) По лучшей цене (дешёвые первыми)")
	fmt.Println("2) По лучшему заполнению (крупные первыми)")
	fmt.Print("Ваш выбор [1-2] (Enter = 1): ")
	raw, _ := reader.ReadString('\n')
	if strings.TrimSpace(raw) == "2" {
		params.Mode = "best_fill"
	} else {
		params.Mode = "best_price"
	}

	return params
}

// AskAmount — объём CNPY для заявки. В лаунчпад уходит то, что ввёл
// пользователь: превью лишь подсказывает значение по умолчанию.
func AskAmount(suggested float64) float64 {
	reader := bufio.NewReader(os.Stdin)
	prompt := fmt.Sprintf("\nСколько CNPY заявляем? (Enter = %s из превью): ", format.Qty(suggested))
	return askFloat(reader, prompt, suggested)
}

// AskConfirm — подтверждение отправки заявки (y/N).
func AskConfirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(prompt + " [y/N]: ")
	raw, _ := reader.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(raw))
	return answer == "y" || answer == "yes"
}

func askCommittee(r *bufio.Reader, committees []domain.Committee) string {
	if len(committees) == 0 {
		// списка нет — спрашиваем идентификатор напрямую
		for {
			fmt.Print("Идентификатор комитета: ")
			raw, _ := r.ReadString('\n')
			if id := strings.TrimSpace(raw); id != "" {
				return id
			}
		}
	}

	for i, c := range committees {
		status := "открыт"
		if !c.Open {
			status = "закрыт"
		}
		fmt.Printf("%d) %s — %s (%s)\n", i+1, c.Name, c.Asset, status)
	}
	for {
		fmt.Printf("Ваш выбор [1-%d] (Enter = 1): ", len(committees))
		raw, _ := r.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return committees[0].ID
		}
		n, err := strconv.Atoi(raw)
		if err == nil && n >= 1 && n <= len(committees) {
			return committees[n-1].ID
		}
		fmt.Println("Не понял выбор, попробуйте ещё раз.")
	}
}

func askFloat(r *bufio.Reader, prompt string, def float64) float64 {
	for {
		fmt.Print(prompt)
		raw, _ := r.ReadString('\n')
		raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err == nil && v >= 0 {
			return v
		}
		fmt.Println("Нужно неотрицательное число, попробуйте ещё раз.")
	}
}
