package console

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCookies(t *testing.T) {
	assert.Equal(t, "0 cookies", FormatCookies(0, true))
	assert.Equal(t, "1 cookie", FormatCookies(1.9, true))
	assert.Equal(t, "999", FormatCookies(999.99, false))
	assert.Equal(t, "1.500 thousand cookies", FormatCookies(1500, true))
	assert.Equal(t, "2.000 million", FormatCookies(2e6, false))
	assert.Equal(t, "-3.000 billion cookies", FormatCookies(-3e9, true))
	assert.Equal(t, "1000.000 vigintillion", FormatCookies(1e66, false))
}

func TestFormatCPS(t *testing.T) {
	assert.Equal(t, "0 cps", FormatCPS(0))
	assert.Equal(t, "0.1 cps", FormatCPS(0.1))
	assert.Equal(t, "47 cps", FormatCPS(47))
	assert.Equal(t, "1.234 thousand cps", FormatCPS(1234))
	assert.Equal(t, "-2.5 cps", FormatCPS(-2.5))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "15", FormatCost(15))
	assert.Equal(t, "1,234,567", FormatCost(1234567))
	assert.Equal(t, "12,000", FormatCost(12000.7))
	assert.Equal(t, "more than can be counted", FormatCost(math.Inf(1)))
}
