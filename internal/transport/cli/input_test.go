package cli

import (
	"bufio"
	"strings"
	"testing"
)

// Объём заявки берётся из ввода пользователя: превью даёт лишь значение
// по умолчанию, которое надо явно принять (Enter) или перебить своим.
func TestAskFloatUserOverridesSuggested(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("250\n"))
	if got := askFloat(r, "amount: ", 123.45); got != 250 {
		t.Fatalf("got=%v want=250", got)
	}
}

func TestAskFloatEnterKeepsSuggested(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\n"))
	if got := askFloat(r, "amount: ", 123.45); got != 123.45 {
		t.Fatalf("got=%v want=123.45", got)
	}
}

func TestAskFloatAcceptsCommaDecimal(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("12,5\n"))
	if got := askFloat(r, "amount: ", 0); got != 12.5 {
		t.Fatalf("got=%v want=12.5", got)
	}
}

func TestAskFloatRetriesOnGarbage(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("abc\n-1\n7\n"))
	if got := askFloat(r, "amount: ", 0); got != 7 {
		t.Fatalf("got=%v want=7", got)
	}
}
