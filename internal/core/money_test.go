package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "dot separator", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "integer amount", input: "50", want: 5000},
		{name: "single fractional digit", input: "7.5", want: 750},
		{name: "third digit rounds down", input: "12.344", want: 1234},
		{name: "third digit rounds up", input: "12.346", want: 1235},
		{name: "leading whitespace", input: "  9,99", want: 999},
		{name: "empty string", input: "", wantErr: true},
		{name: "negative sign rejected", input: "-5", wantErr: true},
		{name: "plus sign rejected", input: "+5", wantErr: true},
		{name: "zero rejected", input: "0", wantErr: true},
		{name: "zero with fraction rejected", input: "0.00", wantErr: true},
		{name: "two separators", input: "1.2.3", wantErr: true},
		{name: "letters rejected", input: "12a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecimalToCents(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		json  string
	}{
		{name: "positive", cents: 1234, json: "1234"},
		{name: "zero", cents: 0, json: "0"},
		{name: "negative balance", cents: -5000, json: "-5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(Money{Cents: tt.cents})
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(b) != tt.json {
				t.Errorf("marshal = %s, want %s", b, tt.json)
			}
			var m Money
			if err := json.Unmarshal(b, &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if m.Cents != tt.cents {
				t.Errorf("round trip = %d, want %d", m.Cents, tt.cents)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 5000}
	b := Money{Cents: 7500}

	if got := a.Add(b); got.Cents != 12500 {
		t.Errorf("Add = %d, want 12500", got.Cents)
	}
	if got := a.Sub(b); got.Cents != -2500 {
		t.Errorf("Sub = %d, want -2500", got.Cents)
	}
	if !a.IsPositive() {
		t.Error("5000 cents should be positive")
	}
	if (Money{}).IsPositive() {
		t.Error("zero should not be positive")
	}
}
