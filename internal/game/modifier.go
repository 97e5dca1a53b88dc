/*
Package game
File: modifier.go
Description:
    The modifier algebra shared by facilities. Additive modifiers sum into
    the base, multiplicative ones scale the result. Pure.
*/

package game

// Compose applies a list of modifiers to a base value:
//
//	(base + Σ additive) × Π multiplicative
//
// Additive modifiers always combine before multiplicative ones, whatever
// their order in the list.
func Compose(base float64, mods []Modifier) float64 {
	add := 0.0
	mult := 1.0
	for _, m := range mods {
		switch m.Kind {
		case Additive:
			add += m.Value
		case Multiplicative:
			mult *= m.Value
		}
	}
	return (base + add) * mult
}
