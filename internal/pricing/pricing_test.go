package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioInputs() Inputs {
	return Inputs{
		Cost:   5863,
		ICMS:   12,
		Fixed:  DefaultFixedRates,
		Markup: 15,
	}
}

func TestCompute_Scenario(t *testing.T) {
	result := Compute(scenarioInputs())

	require.True(t, result.Valid)
	assert.InDelta(t, 32.93, result.TotalPercent, 1e-9)
	assert.InDelta(t, 5863, result.Base, 1e-9)
	assert.InDelta(t, 8741.61, result.SalePrice, 0.005)
	assert.InDelta(t, 1048.99, result.Deductions.ICMS, 0.005)
	assert.InDelta(t, 56.82, result.Deductions.PIS, 0.005)
	assert.InDelta(t, 262.25, result.Deductions.COFINS, 0.005)
	assert.InDelta(t, 104.90, result.Deductions.IRPJ, 0.005)
	assert.InDelta(t, 94.41, result.Deductions.CSLL, 0.005)
	assert.InDelta(t, 1567.37, result.TotalTaxes, 0.005)
	assert.InDelta(t, 1311.24, result.MarkupAmount, 0.005)
}

func TestCompute_InversionLaw(t *testing.T) {
	cases := []Inputs{
		scenarioInputs(),
		{Cost: 100, Freight: 10.23, ICMS: 7, Fixed: DefaultFixedRates, Markup: 10},
		{Cost: 0.01, ICMS: 0, Fixed: DefaultFixedRates, Markup: 30},
		{Cost: 1e6, Freight: 5e4, ICMS: 4, Fixed: DefaultFixedRates, Markup: 20},
		{Cost: 50, Freight: 50, ICMS: -2, Markup: 15},
	}

	for _, in := range cases {
		result := Compute(in)
		require.True(t, result.Valid, "%+v", in)

		denom := 1 - result.TotalPercent/100
		assert.InEpsilon(t, result.Base, result.SalePrice*denom, 1e-12, "%+v", in)
	}
}

func TestCompute_DeductionsAreRateTimesSalePrice(t *testing.T) {
	in := Inputs{Cost: 1200, Freight: 35.5, ICMS: 12, Fixed: DefaultFixedRates, Markup: 20}
	result := Compute(in)
	require.True(t, result.Valid)

	sale := result.SalePrice
	assert.Equal(t, sale*(in.ICMS/100), result.Deductions.ICMS)
	assert.Equal(t, sale*(in.Fixed.PIS/100), result.Deductions.PIS)
	assert.Equal(t, sale*(in.Fixed.COFINS/100), result.Deductions.COFINS)
	assert.Equal(t, sale*(in.Fixed.IRPJ/100), result.Deductions.IRPJ)
	assert.Equal(t, sale*(in.Fixed.CSLL/100), result.Deductions.CSLL)
	assert.Equal(t, sale*(in.Markup/100), result.MarkupAmount)
}

func TestCompute_TotalTaxesExcludeMarkup(t *testing.T) {
	result := Compute(scenarioInputs())
	require.True(t, result.Valid)

	d := result.Deductions
	assert.Equal(t, d.ICMS+d.PIS+d.COFINS+d.IRPJ+d.CSLL, result.TotalTaxes)
	assert.InDelta(t, result.Base, result.SalePrice-result.TotalTaxes-result.MarkupAmount, 1e-6)
}

func TestCompute_GrossProfitEqualsMarkup(t *testing.T) {
	result := Compute(scenarioInputs())
	assert.Equal(t, result.MarkupAmount, result.GrossProfit)
}

func TestCompute_FreightAddsToBase(t *testing.T) {
	withoutFreight := Compute(Inputs{Cost: 100, Fixed: DefaultFixedRates, ICMS: 12, Markup: 15})
	withFreight := Compute(Inputs{Cost: 100, Freight: 10.23, Fixed: DefaultFixedRates, ICMS: 12, Markup: 15})

	assert.InDelta(t, 110.23, withFreight.Base, 1e-9)
	assert.Greater(t, withFreight.SalePrice, withoutFreight.SalePrice)
}

func TestCompute_ZeroRatesReturnBase(t *testing.T) {
	result := Compute(Inputs{Cost: 80, Freight: 20})
	require.True(t, result.Valid)
	assert.Equal(t, 100.0, result.SalePrice)
	assert.Zero(t, result.TotalTaxes)
}

func TestCompute_InvalidBase(t *testing.T) {
	for _, in := range []Inputs{
		{Fixed: DefaultFixedRates, ICMS: 12, Markup: 15},
		{Cost: -10, Freight: 5, Fixed: DefaultFixedRates, ICMS: 12, Markup: 15},
		{Cost: math.NaN(), Fixed: DefaultFixedRates, ICMS: 12, Markup: 15},
		{Cost: math.Inf(1), Fixed: DefaultFixedRates, ICMS: 12, Markup: 15},
	} {
		result := Compute(in)
		assert.False(t, result.Valid, "%+v", in)
		assert.Zero(t, result.SalePrice)
		assert.Zero(t, result.TotalTaxes)
		assert.Zero(t, result.MarkupAmount)
	}
}

func TestCompute_InvalidKeepsBase(t *testing.T) {
	result := Compute(Inputs{Cost: 10, Freight: 5, ICMS: 90, Markup: 10})
	assert.False(t, result.Valid)
	assert.Equal(t, 15.0, result.Base)
	assert.Equal(t, 100.0, result.TotalPercent)
}

func TestCompute_RateBoundary(t *testing.T) {
	atLimit := Compute(Inputs{Cost: 100, ICMS: 85, Markup: 15})
	assert.False(t, atLimit.Valid)

	overLimit := Compute(Inputs{Cost: 100, ICMS: 90, Fixed: DefaultFixedRates, Markup: 30})
	assert.False(t, overLimit.Valid)

	nearLimit := Compute(Inputs{Cost: 100, ICMS: 84.999, Markup: 15})
	require.True(t, nearLimit.Valid)
	assert.Greater(t, nearLimit.SalePrice, 9.9e6)
}

func TestCompute_NonFiniteRateIsInvalid(t *testing.T) {
	result := Compute(Inputs{Cost: 100, ICMS: math.NaN(), Markup: 15})
	assert.False(t, result.Valid)
}

func TestCompute_IsDeterministic(t *testing.T) {
	assert.Equal(t, Compute(scenarioInputs()), Compute(scenarioInputs()))
}

func TestResultItems(t *testing.T) {
	in := scenarioInputs()
	items := Compute(in).Items(in)

	require.Len(t, items, 5)
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	assert.Equal(t, []string{"ICMS", "PIS", "COFINS", "IRPJ", "CSLL"}, labels)
	assert.Equal(t, 12.0, items[0].Rate)
	assert.Equal(t, 0.65, items[1].Rate)
}

func TestIsMarkupOption(t *testing.T) {
	for _, v := range []float64{10, 15, 20, 30} {
		assert.True(t, IsMarkupOption(v), v)
	}
	for _, v := range []float64{0, 12.5, 25, 100} {
		assert.False(t, IsMarkupOption(v), v)
	}
	assert.True(t, IsMarkupOption(DefaultMarkup))
}

func TestCompute_OverflowingSalePriceIsInvalid(t *testing.T) {
	in := Inputs{Cost: 1e308, ICMS: 84.99999, Markup: 15}

	r := Compute(in)
	assert.False(t, r.Valid)
	assert.Zero(t, r.SalePrice)
	assert.Zero(t, r.MarkupAmount)
	assert.Equal(t, 1e308, r.Base)
}
