package format

import (
	"strconv"
	"strings"
)

// Money возвращает сумму в виде "1.234.567,89": точки между тысячами,
// запятая перед копейками. Так числа печатает CLI-презентер.
func Money(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	out := groupThousands(parts[0]) + "," + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}

// Qty — количество токенов: до 8 знаков, хвостовые нули обрезаем,
// но хотя бы один знак после запятой оставляем.
func Qty(v float64) string {
	s := strconv.FormatFloat(v, 'f', 8, 64)
	parts := strings.SplitN(s, ".", 2)
	frac := strings.TrimRight(parts[1], "0")
	if frac == "" {
		frac = "0"
	}
	return groupThousands(parts[0]) + "," + frac
}

func groupThousands(intPart string) string {
	var out []byte
	cnt := 0
	for i := len(intPart) - 1; i >= 0; i-- {
		out = append(out, intPart[i])
		cnt++
		if cnt%3 == 0 && i != 0 {
			out = append(out, '.')
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
