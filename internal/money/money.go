// Package money extracts numeric amounts from free-form price strings.
package money

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Currency selects display formatting.
type Currency string

const (
	USD Currency = "USD"
	INR Currency = "INR"
)

var leadingAmount = regexp.MustCompile(`^\d+(\.\d+)?`)

var stripper = strings.NewReplacer("$", "", "₹", "", ",", "")

// Parse returns the leading numeric magnitude of s after removing currency
// symbols and thousands separators. Anything unparseable yields 0.
//
//	Parse("$52.00/user")               == 52
//	Parse("₹4,500")                    == 4500
//	Parse("Contact us for E5 pricing") == 0
func Parse(s string) float64 {
	cleaned := strings.TrimSpace(stripper.Replace(s))
	match := leadingAmount.FindString(cleaned)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return v
}

// Format renders an aggregated amount for display: two decimals for USD,
// whole rupees with thousands grouping for INR.
func Format(v float64, c Currency) string {
	switch c {
	case INR:
		return "₹" + group(strconv.FormatFloat(v, 'f', 0, 64))
	default:
		return fmt.Sprintf("$%s", groupDecimal(strconv.FormatFloat(v, 'f', 2, 64)))
	}
}

func groupDecimal(s string) string {
	whole, frac, found := strings.Cut(s, ".")
	if !found {
		return group(whole)
	}
	return group(whole) + "." + frac
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
