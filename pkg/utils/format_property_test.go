package utils

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"1.5", "$1.50"},
		{"1000", "$1,000.00"},
		{"1234567.89", "$1,234,567.89"},
		{"-42", "-$42.00"},
		{"999", "$999.00"},
	}
	for _, tt := range tests {
		got := FormatUSD(decimal.RequireFromString(tt.in))
		if got != tt.want {
			t.Errorf("FormatUSD(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

// Property: formatting preserves the numeric value and groups digits in
// threes.
func TestProperty_FormatUSDRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatUSD parses back to the same value", prop.ForAll(
		func(cents int64) bool {
			amount := decimal.New(cents, -2)
			formatted := FormatUSD(amount)

			stripped := strings.NewReplacer("$", "", ",", "").Replace(formatted)
			parsed, err := decimal.NewFromString(stripped)
			if err != nil {
				t.Logf("parse %q: %v", formatted, err)
				return false
			}
			return parsed.Equal(amount)
		},
		gen.Int64Range(-1_000_000_000_000, 1_000_000_000_000),
	))

	properties.Property("groups are three digits wide", prop.ForAll(
		func(cents int64) bool {
			formatted := FormatUSD(decimal.New(cents, -2))
			intPart := strings.TrimPrefix(strings.Split(formatted, ".")[0], "$")
			groups := strings.Split(intPart, ",")
			for i, g := range groups {
				if i == 0 {
					if len(g) < 1 || len(g) > 3 {
						return false
					}
					continue
				}
				if len(g) != 3 {
					return false
				}
			}
			return true
		},
		gen.Int64Range(0, 1_000_000_000_000),
	))

	properties.TestingRun(t)
}

func TestFormatQuantity(t *testing.T) {
	if got := FormatQuantity(1234567); got != "1,234,567" {
		t.Errorf("FormatQuantity = %s", got)
	}
	if got := FormatQuantity(-42); got != "-42" {
		t.Errorf("FormatQuantity = %s", got)
	}
	if got := FormatQuantity(0); got != "0" {
		t.Errorf("FormatQuantity = %s", got)
	}
}

func TestFormatNative(t *testing.T) {
	if got := FormatNative(1_500_000_000, 9); got != "1.5" {
		t.Errorf("FormatNative = %s", got)
	}
	if got := FormatNative(1, 6); got != "0.000001" {
		t.Errorf("FormatNative = %s", got)
	}
}
