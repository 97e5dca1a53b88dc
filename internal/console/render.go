/*
Package console
File: render.go
Description:
    Text views of a game.Snapshot for the terminal. Every view works on a
    snapshot, never on live engine state, so the same code can render for
    any goroutine.
*/

package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/everforgeworks/cookey-typer/internal/game"
)

const rule = 70

func banner(w io.Writer, title string, width int) {
	pad := width - len(title) - 2
	if pad < 2 {
		pad = 2
	}
	left := pad / 2
	fmt.Fprintf(w, "%s %s %s\n", strings.Repeat("=", left), title, strings.Repeat("=", pad-left))
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.Debug)
}

// RenderFacilities lists shown facilities and masks covered ones.
func RenderFacilities(w io.Writer, s *game.Snapshot) {
	banner(w, "Facility List", rule)
	tw := newTable(w)
	fmt.Fprintln(tw, " Name\t Owned\t Cost\t Description")
	for _, f := range s.Facilities {
		switch f.Visual {
		case game.Shown:
			fmt.Fprintf(tw, " %s\t %d\t %s\t %s\n", f.Name, f.Amount, FormatCost(f.NextCost), f.Description)
		case game.Covered:
			fmt.Fprintf(tw, " ---\t -\t %s\t ---\n", FormatCost(f.NextCost))
		}
	}
	tw.Flush()
	fmt.Fprintln(w, strings.Repeat("=", rule))
}

// RenderFacilitiesDetailed adds unit and total production columns.
func RenderFacilitiesDetailed(w io.Writer, s *game.Snapshot) {
	const width = 95
	banner(w, "Facility List", width)
	tw := newTable(w)
	fmt.Fprintln(tw, " Name\t Owned\t Unit CPS\t CPS\t Cost\t Description")
	for _, f := range s.Facilities {
		switch f.Visual {
		case game.Shown:
			fmt.Fprintf(tw, " %s\t %d\t %.1f\t %.1f\t %s\t %s\n",
				f.Name, f.Amount, f.UnitRate, f.ProductionRate, FormatCost(f.NextCost), f.Description)
		case game.Covered:
			fmt.Fprintf(tw, " %s\t -\t -\t -\t %s\t ???\n", f.Name, FormatCost(f.NextCost))
		}
	}
	tw.Flush()
	fmt.Fprintln(w, strings.Repeat("=", width))
}

// RenderFacilityDetail shows one facility. It reports false for hidden
// facilities, which the player must not learn about.
func RenderFacilityDetail(w io.Writer, s *game.Snapshot, id game.FacilityID) bool {
	f, ok := s.Facility(id)
	if !ok || f.Visual == game.Hidden {
		return false
	}

	fmt.Fprintln(w)
	banner(w, "Facility Detail", 61)
	if f.Visual == game.Covered {
		fmt.Fprintln(w, " Name        : ???")
		fmt.Fprintln(w, " Description : ???")
		fmt.Fprintln(w, strings.Repeat("-", 61))
		fmt.Fprintln(w, " Owned       : -")
		fmt.Fprintln(w, " Base CPS    : 0.0 / unit")
		fmt.Fprintln(w, " Total CPS   : 0.0 (Contribution)")
	} else {
		fmt.Fprintf(w, " Name        : %s\n", f.Name)
		fmt.Fprintf(w, " Description : %s\n", f.Description)
		fmt.Fprintln(w, strings.Repeat("-", 61))
		fmt.Fprintf(w, " Owned       : %d\n", f.Amount)
		fmt.Fprintf(w, " Base CPS    : %.1f / unit\n", f.UnitRate)
		fmt.Fprintf(w, " Total CPS   : %s (Contribution)\n", FormatCPS(f.ProductionRate))
		for _, m := range f.Modifiers {
			fmt.Fprintf(w, " Modifier    : %s %s %g\n", m.SourceID, m.Kind, m.Value)
		}
	}
	fmt.Fprintf(w, " Next Cost   : %s cookies\n", FormatCost(f.NextCost))
	if f.Amount > 0 {
		fmt.Fprintf(w, " Sell Value  : %s cookies\n", FormatCost(f.SellValue))
	}
	fmt.Fprintln(w, strings.Repeat("=", 61))
	fmt.Fprintln(w)
	return true
}

// RenderUpgrades lists available upgrades, or with all set every upgrade
// the player has seen (available and purchased).
func RenderUpgrades(w io.Writer, s *game.Snapshot, all bool) {
	banner(w, "Upgrade List", rule)
	tw := newTable(w)
	fmt.Fprintln(tw, " Key\t Name\t Price\t State\t Effects")
	n := 0
	for _, u := range s.Upgrades {
		if u.State == game.Locked || (!all && u.State != game.Available) {
			continue
		}
		n++
		fmt.Fprintf(tw, " %s\t %s\t %s\t %s\t %s\n", u.ID, u.Name, FormatCost(u.Price), u.State, strings.Join(u.Effects, ", "))
	}
	tw.Flush()
	if n == 0 {
		fmt.Fprintln(w, " No upgrades yet. Keep typing!")
	}
	fmt.Fprintln(w, strings.Repeat("=", rule))
}

// RenderUpgradeDetail shows one upgrade the player has seen.
func RenderUpgradeDetail(w io.Writer, s *game.Snapshot, id game.UpgradeID) bool {
	u, ok := s.Upgrade(id)
	if !ok || u.State == game.Locked {
		return false
	}

	fmt.Fprintln(w)
	banner(w, "Upgrade Detail", 61)
	fmt.Fprintf(w, " Name        : %s\n", u.Name)
	fmt.Fprintf(w, " Description : %s\n", u.Description)
	fmt.Fprintln(w, strings.Repeat("-", 61))
	fmt.Fprintf(w, " Price       : %s cookies\n", FormatCost(u.Price))
	fmt.Fprintf(w, " State       : %s\n", u.State)
	for _, e := range u.Effects {
		fmt.Fprintf(w, " Effect      : %s\n", e)
	}
	fmt.Fprintln(w, strings.Repeat("=", 61))
	fmt.Fprintln(w)
	return true
}

const helpText = `
================ CookeyTyper Help ================
[Usage]
  <command> <operation> [target] [amount]

[Commands]
  facility (f, fac) : Manage facilities
    <operations>
      ls         : List owned facilities
      la         : List all available facilities
      buy (b)    : Buy facilities
                   Ex: 'f buy keyboard 10'
      sell (s)   : Sell facilities (50% return)
      detail (d) : Show detailed stats of a facility

  upgrade (u, upg)  : Manage upgrades
    <operations>
      ls         : List available upgrades
      la         : List available and purchased upgrades
      buy (b)    : Buy an upgrade
                   Ex: 'u buy reinforced_index_finger'
      detail (d) : Show the effects of an upgrade

  help (h, ?)       : Show this help message

[Inspectors]
  cc   : Show current Cookie Count
  cps  : Show current Cookies Per Second
  cpt  : Show Cookies Per Type
==================================================
`

// RenderHelp prints the command reference.
func RenderHelp(w io.Writer) {
	fmt.Fprint(w, helpText)
}

// RenderPrompt prints the sentence to type next.
func RenderPrompt(w io.Writer, target string) {
	fmt.Fprintln(w, strings.Repeat("=", rule))
	fmt.Fprintln(w, "Target:")
	fmt.Fprintln(w, target)
}
