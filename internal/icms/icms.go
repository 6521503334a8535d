// Package icms suggests the interstate ICMS rate for a destination state.
//
// The table is the usual quick reference for goods leaving Santa Catarina:
// South and Southeast states (except ES) take the reduced 12% rate and every
// other state takes 7%. The 4% imported-goods rule depends on the product,
// not the destination, so it is reference text only.
package icms

import "strings"

// UF is a Brazilian federative unit code.
type UF string

const (
	// ReducedRate applies to the South/Southeast bucket.
	ReducedRate = 12.0
	// StandardRate applies to every other destination.
	StandardRate = 7.0
	// ImportedGoodsRate is shown for reference and never suggested.
	ImportedGoodsRate = 4.0
	// ImportedGoodsNote describes when ImportedGoodsRate applies.
	ImportedGoodsNote = "Regra de importados (quando aplicável)"

	// DefaultOrigin is the state the reference table is written for.
	DefaultOrigin UF = "SC"
)

// All lists the 27 federative units.
var All = []UF{
	"AC", "AL", "AM", "AP", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG", "PA", "PB", "PR",
	"PE", "PI", "RJ", "RN", "RO", "RR", "RS", "SC", "SE", "SP", "TO",
}

var reduced = []UF{"PR", "RS", "SC", "SP", "RJ", "MG"}

var reducedSet = func() map[UF]struct{} {
	set := make(map[UF]struct{}, len(reduced))
	for _, uf := range reduced {
		set[uf] = struct{}{}
	}
	return set
}()

// Suggest returns the suggested ICMS rate for shipping to uf. Codes outside
// the reduced bucket, including unknown ones, get StandardRate.
func Suggest(uf UF) float64 {
	if _, ok := reducedSet[uf]; ok {
		return ReducedRate
	}
	return StandardRate
}

// Reduced returns the destinations that take ReducedRate.
func Reduced() []UF {
	return append([]UF(nil), reduced...)
}

// Standard returns the destinations that take StandardRate, in All order.
func Standard() []UF {
	out := make([]UF, 0, len(All)-len(reduced))
	for _, uf := range All {
		if _, ok := reducedSet[uf]; !ok {
			out = append(out, uf)
		}
	}
	return out
}

// Parse normalises s and reports whether it names a federative unit.
func Parse(s string) (UF, bool) {
	uf := UF(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range All {
		if uf == known {
			return uf, true
		}
	}
	return "", false
}

// Join renders a bucket as "PR, RS, SC".
func Join(ufs []UF) string {
	parts := make([]string, len(ufs))
	for i, uf := range ufs {
		parts[i] = string(uf)
	}
	return strings.Join(parts, ", ")
}
