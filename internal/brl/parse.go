// Package brl converts between Brazilian-formatted text and numbers.
package brl

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	currencySymbol = "R$"

	nextLine         = '\u0085'
	zeroWidthNoBreak = '\ufeff'
)

// Parse reads a pt-BR amount or percentage such as "148,23" or
// "R$ 1.234,56". It never fails: anything that does not parse to a finite
// number yields 0.
//
// A dot is always a thousands separator, so "148.23" parses as 14823.
// Hexadecimal input such as "0x10" or "0x1p4" yields 0.
func Parse(text string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if isBlank(r) {
			return -1
		}
		return r
	}, text)
	cleaned = strings.Replace(cleaned, currencySymbol, "", 1)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	if cleaned == "" {
		return 0
	}
	if isHex(cleaned) {
		return 0
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// isBlank matches the ECMAScript whitespace set: unicode.IsSpace plus the
// BOM, minus NEL.
func isBlank(r rune) bool {
	if r == zeroWidthNoBreak {
		return true
	}
	return r != nextLine && unicode.IsSpace(r)
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}
