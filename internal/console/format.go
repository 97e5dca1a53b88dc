package console

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

var suffixes = []string{
	"",
	"thousand",
	"million",
	"billion",
	"trillion",
	"quadrillion",
	"quintillion",
	"sextillion",
	"septillion",
	"octillion",
	"nonillion",
	"decillion",
	"undecillion",
	"duodecillion",
	"tredecillion",
	"quattuordecillion",
	"quindecillion",
	"sexdecillion",
	"septendecillion",
	"octodecillion",
	"novemdecillion",
	"vigintillion",
}

// scale divides v by 1000 until it is below 1000 or the names run out.
func scale(v float64) (float64, string) {
	i := 0
	for v >= 1000 && i < len(suffixes)-1 {
		v /= 1000
		i++
	}
	return v, suffixes[i]
}

// FormatCookies renders a cookie amount, e.g. "12" or "1.500 million".
// Fractions are dropped.
func FormatCookies(v float64, unit bool) string {
	if v < 0 {
		return "-" + FormatCookies(-v, unit)
	}
	whole := math.Trunc(v)

	var s string
	if whole < 1000 {
		s = fmt.Sprintf("%.0f", whole)
	} else {
		scaled, suffix := scale(whole)
		s = fmt.Sprintf("%.3f %s", scaled, suffix)
	}

	if !unit {
		return s
	}
	if whole == 1 {
		return s + " cookie"
	}
	return s + " cookies"
}

// FormatCPS renders a production rate, e.g. "0.1 cps" or "2.340 billion cps".
func FormatCPS(v float64) string {
	if v < 0 {
		return "-" + FormatCPS(-v)
	}
	if v < 1000 {
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0f cps", v)
		}
		return fmt.Sprintf("%.1f cps", v)
	}
	scaled, suffix := scale(v)
	return fmt.Sprintf("%.3f %s cps", scaled, suffix)
}

// FormatCost renders a whole cookie price with thousands separators.
func FormatCost(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "more than can be counted"
	}
	v = math.Trunc(v)
	if math.Abs(v) < 1<<62 {
		return humanize.Comma(int64(v))
	}
	return humanize.Commaf(v)
}
