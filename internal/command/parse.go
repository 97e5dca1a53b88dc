/*
Package command
File: parse.go
Description:
    Turns a raw input line into a Command. Verbs are matched
    case-insensitively, names resolve against the catalog keys and display
    names, and a trailing integer is the amount.
*/

package command

import (
	"errors"
	"strconv"
	"strings"

	"github.com/everforgeworks/cookey-typer/internal/config"
	"github.com/everforgeworks/cookey-typer/internal/game"
)

// Parse errors. Their text is shown to the player as is.
var (
	ErrInvalidOperation = errors.New("Invalid Operation Argument")
	ErrInvalidFacility  = errors.New("Invalid Facility Name")
	ErrInvalidAmount    = errors.New("Invalid Purchase Amount")
	ErrInvalidUpgrade   = errors.New("Invalid Upgrade Name")
	ErrFacilityUsage    = errors.New("Usage: [facility/fac/f] [buy/sell/detail/ls/la] [facility] [amount]")
	ErrUpgradeUsage     = errors.New("Usage: [upgrade/upg/u] [buy/detail/ls/la] [upgrade_id]")
)

// Parser resolves names against a catalog. Names are static, so one Parser
// serves the whole process.
type Parser struct {
	facilities map[string]game.FacilityID
	upgrades   map[string]game.UpgradeID
}

// NewParser indexes the catalog keys and display names.
func NewParser(cat *config.Catalog) *Parser {
	p := &Parser{
		facilities: make(map[string]game.FacilityID, 2*len(cat.Facilities)),
		upgrades:   make(map[string]game.UpgradeID, 2*len(cat.Upgrades)),
	}
	for _, f := range cat.Facilities {
		p.facilities[normalize(f.Key)] = game.FacilityID(f.Key)
		p.facilities[normalize(f.Name)] = game.FacilityID(f.Key)
	}
	for _, u := range cat.Upgrades {
		p.upgrades[normalize(u.Key)] = game.UpgradeID(u.Key)
		p.upgrades[normalize(u.Name)] = game.UpgradeID(u.Key)
	}
	return p
}

// normalize lowercases and joins words with underscores, so "Wizard Tower",
// "wizard-tower" and "wizard_tower" are the same name.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", "_", " ", "'", "").Replace(s)
	return strings.Join(strings.Fields(s), "_")
}

// Parse turns a raw line into a Command.
func (p *Parser) Parse(raw string) (Command, error) {
	args := strings.Fields(strings.ToLower(raw))
	if len(args) == 0 {
		return UserInput{Content: raw}, nil
	}

	switch args[0] {
	case "facility", "fac", "f":
		return p.parseFacility(args[1:])
	case "upgrade", "upg", "u":
		return p.parseUpgrade(args[1:])
	}

	if len(args) == 1 {
		switch args[0] {
		case "help", "h", "?":
			return Help{}, nil
		case "cc":
			return InspectCookieCount{}, nil
		case "cps":
			return InspectCookiesPerSecond{}, nil
		case "cpt":
			return InspectCookiesPerType{}, nil
		}
	}
	return UserInput{Content: raw}, nil
}

func parseOperation(arg string) (Operation, error) {
	switch arg {
	case "buy", "b":
		return OpBuy, nil
	case "sell", "s":
		return OpSell, nil
	case "detail", "d":
		return OpDetail, nil
	case "ls":
		return OpList, nil
	case "la":
		return OpListAll, nil
	}
	return 0, ErrInvalidOperation
}

func (p *Parser) parseFacility(args []string) (Command, error) {
	// 1. Bare "f" lists
	if len(args) == 0 {
		return Facility{Op: OpList}, nil
	}

	op, err := parseOperation(args[0])
	if err != nil {
		return nil, err
	}
	if op == OpList || op == OpListAll {
		return Facility{Op: op}, nil
	}

	// 2. Everything else needs a target
	rest := args[1:]
	if len(rest) == 0 {
		return nil, ErrFacilityUsage
	}
	if id, ok := p.facilities[normalize(strings.Join(rest, " "))]; ok {
		return Facility{Op: op, Target: id, Amount: 1}, nil
	}

	// 3. Target followed by an amount
	if len(rest) < 2 {
		return nil, ErrInvalidFacility
	}
	id, ok := p.facilities[normalize(strings.Join(rest[:len(rest)-1], " "))]
	if !ok {
		return nil, ErrInvalidFacility
	}
	amount, err := strconv.ParseInt(rest[len(rest)-1], 10, 64)
	if err != nil {
		return nil, ErrInvalidAmount
	}
	return Facility{Op: op, Target: id, Amount: amount}, nil
}

func (p *Parser) parseUpgrade(args []string) (Command, error) {
	if len(args) == 0 {
		return Upgrade{Op: OpList}, nil
	}

	op, err := parseOperation(args[0])
	if err != nil {
		return nil, err
	}
	switch op {
	case OpList, OpListAll:
		return Upgrade{Op: op}, nil
	case OpSell:
		return nil, ErrInvalidOperation
	}

	// Multi-word display names are accepted: "u buy reinforced index finger"
	if len(args) < 2 {
		return nil, ErrUpgradeUsage
	}
	id, ok := p.upgrades[normalize(strings.Join(args[1:], " "))]
	if !ok {
		return nil, ErrInvalidUpgrade
	}
	return Upgrade{Op: op, Target: id}, nil
}
