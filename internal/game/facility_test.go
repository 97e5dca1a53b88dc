package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyboard() *Facility {
	return &Facility{ID: "keyboard", Name: "Keyboard", BaseCost: 15, BaseCPS: 0.1, Visual: Covered, ratio: 1.15}
}

func TestFacilityFirstCosts(t *testing.T) {
	f := newKeyboard()
	assert.Equal(t, float64(15), f.NextCost())

	require.True(t, f.ChangeOwnedBy(1))
	assert.Equal(t, float64(18), f.NextCost())

	out := f.CostDelta(-1)
	assert.True(t, out.Exact)
	assert.Equal(t, float64(7), out.Cost)
}

func TestFacilityCostDeltaZero(t *testing.T) {
	f := newKeyboard()
	f.Amount = 7
	assert.Equal(t, CostOutcome{Cost: 0, Exact: true}, f.CostDelta(0))
}

func TestFacilityCostDeltaLargePurchaseIsExact(t *testing.T) {
	f := newKeyboard()
	out := f.CostDeltaFrom(math.MaxInt64, 1)
	assert.True(t, out.Exact, "only sales clamp")
	assert.True(t, math.IsInf(out.Cost, -1))
}

func TestFacilityMarginalCostIsMonotonic(t *testing.T) {
	f := newKeyboard()
	prev := f.NextCost()
	for n := int64(1); n < 200; n++ {
		f.Amount = n
		next := f.NextCost()
		assert.Greater(t, next, prev, "amount %d", n)
		prev = next
	}
}

func TestFacilityRefundAtMostHalf(t *testing.T) {
	f := newKeyboard()
	for base := int64(0); base < 60; base += 3 {
		for k := int64(1); k <= 10; k++ {
			buy := -f.CostDeltaFrom(k, base).Cost
			refund := f.CostDeltaFrom(-k, base+k).Cost
			assert.LessOrEqual(t, refund, buy*0.5, "base %d k %d", base, k)
			assert.GreaterOrEqual(t, refund, float64(0))
		}
	}
}

func TestFacilitySaleClamped(t *testing.T) {
	f := newKeyboard()
	f.Amount = 2

	out := f.CostDelta(-5)
	assert.False(t, out.Exact)
	assert.Equal(t, f.CostDelta(-2).Cost, out.Cost, "clamped to what is held")
	assert.Equal(t, int64(2), f.Amount, "pricing never mutates")
}

func TestFacilityChangeOwnedBy(t *testing.T) {
	f := newKeyboard()
	assert.False(t, f.ChangeOwnedBy(-1))
	assert.Equal(t, int64(0), f.Amount)
	assert.True(t, f.ChangeOwnedBy(3))
	assert.True(t, f.ChangeOwnedBy(-3))
	assert.Equal(t, int64(0), f.Amount)
}

func TestFacilityAttachModifierOnce(t *testing.T) {
	f := newKeyboard()
	f.Amount = 10
	m := Modifier{Source: SourceUpgrade, SourceID: "double", Kind: Multiplicative, Value: 2}

	assert.True(t, f.AttachModifier(m))
	rate := f.ProductionRate()
	assert.False(t, f.AttachModifier(m))
	assert.False(t, f.AttachModifier(Modifier{Source: SourceUpgrade, SourceID: "double", Kind: Additive, Value: 5}))
	assert.Len(t, f.Modifiers, 1)
	assert.InDelta(t, rate, f.ProductionRate(), 1e-12)
	assert.InDelta(t, 2.0, rate, 1e-12)
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name string
		base float64
		mods []Modifier
		want float64
	}{
		{"none", 3, nil, 3},
		{"additive", 1, []Modifier{{Kind: Additive, Value: 0.5}, {Kind: Additive, Value: 0.5}}, 2},
		{"multiplicative", 1, []Modifier{{Kind: Multiplicative, Value: 2}, {Kind: Multiplicative, Value: 3}}, 6},
		{"add before multiply", 1, []Modifier{{Kind: Multiplicative, Value: 2}, {Kind: Additive, Value: 1}}, 4},
		{"zero base", 0, []Modifier{{Kind: Multiplicative, Value: 10}}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Compose(tc.base, tc.mods), 1e-12)
		})
	}
}
