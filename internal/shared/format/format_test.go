package format

import "testing"

func TestMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0,00"},
		{1234567.891, "1.234.567,89"},
		{-1234.5, "-1.234,50"},
		{9.999, "10,00"},
	}
	for _, c := range cases {
		if got := Money(c.in); got != c.want {
			t.Fatalf("Money(%v)=%s want=%s", c.in, got, c.want)
		}
	}
}

func TestQty(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{100, "100,0"},
		{1234.5, "1.234,5"},
		{0.123456789, "0,12345679"},
	}
	for _, c := range cases {
		if got := Qty(c.in); got != c.want {
			t.Fatalf("Qty(%v)=%s want=%s", c.in, got, c.want)
		}
	}
}
