package models

import (
	"encoding/json"
	"testing"
)

func TestMoneyDecimalExactness(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, which float64 cannot do.
	a, err := MoneyFromString("0.1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := MoneyFromString("0.2")
	if err != nil {
		t.Fatal(err)
	}
	sum := a.Add(b)
	want, _ := MoneyFromString("0.3")
	if !sum.Equal(want) {
		t.Errorf("0.1 + 0.2 = %s, want 0.30", sum)
	}

	// Repeated subtraction lands exactly on zero.
	total, _ := MoneyFromString("100")
	installment, _ := MoneyFromString("33.33")
	rest := total.Sub(installment).Sub(installment).Sub(installment)
	tail, _ := MoneyFromString("0.01")
	if !rest.Equal(tail) {
		t.Errorf("100 - 3×33.33 = %s, want 0.01", rest)
	}
	if !rest.Sub(tail).IsZero() {
		t.Error("remainder minus tail must be exactly zero")
	}
}

func TestMoneyFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1500", "1500.00", false},
		{"49.995", "50.00", false},
		{"0", "0.00", false},
		{"-12.5", "-12.50", false},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		m, err := MoneyFromString(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("MoneyFromString(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("MoneyFromString(%q) error: %v", tt.in, err)
			continue
		}
		if m.String() != tt.want {
			t.Errorf("MoneyFromString(%q) = %s, want %s", tt.in, m, tt.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	m, _ := MoneyFromString("1500.5")
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "1500.50" {
		t.Errorf("marshal = %s, want bare number 1500.50", out)
	}

	var back Money
	if err := json.Unmarshal([]byte("1500.50"), &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(m) {
		t.Errorf("round trip = %s, want %s", back, m)
	}

	// Quoted strings are accepted on input.
	var quoted Money
	if err := json.Unmarshal([]byte(`"42.10"`), &quoted); err != nil {
		t.Fatal(err)
	}
	if quoted.String() != "42.10" {
		t.Errorf("quoted input = %s, want 42.10", quoted)
	}
}

func TestMoneyDisplay(t *testing.T) {
	m, _ := MoneyFromString("1500")
	if got := m.Display(); got != "₹1500.00" {
		t.Errorf("Display() = %s, want ₹1500.00", got)
	}
}

func TestMoneyComparisons(t *testing.T) {
	small, _ := MoneyFromString("10")
	big, _ := MoneyFromString("20")

	if !big.GreaterThan(small) || big.LessThan(small) {
		t.Error("20 must compare greater than 10")
	}
	if !big.GreaterThanOrEqual(big) {
		t.Error("GreaterThanOrEqual must hold for equal values")
	}
	if !small.IsPositive() || small.IsZero() {
		t.Error("10 must be positive and nonzero")
	}
	if !ZeroMoney().IsZero() {
		t.Error("ZeroMoney must be zero")
	}
}
