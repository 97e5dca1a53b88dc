/*
Package console
File: handler.go
Description:
    Executes one input line per call against the engine and prints the
    outcome. HandleLine runs on the tick goroutine, which is what makes it
    safe to call the engine's mutating methods directly.

    Flow:
    1. Parse the line. A line that does not parse still earns a consolation
       cookie, and the target sentence stays the same.
    2. Execute the command. Typing attempts are scored against the target.
    3. Show a new target sentence.
*/

package console

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/everforgeworks/cookey-typer/internal/command"
	"github.com/everforgeworks/cookey-typer/internal/game"
	"github.com/everforgeworks/cookey-typer/internal/typing"
)

// Engine is the part of the game engine the handler drives.
type Engine interface {
	PurchaseFacility(id game.FacilityID, qty int64) (float64, error)
	SellFacility(id game.FacilityID, qty int64) (float64, error)
	PurchaseUpgrade(id game.UpgradeID) error
	CreditCookies(amount float64, source game.CookieSource) bool
	CreditTyping(accuracy int) float64
	Snapshot() game.Snapshot
	Balance() float64
	ProductionRate() float64
	CookiesPerAction() float64
}

// Handler turns input lines into engine calls.
type Handler struct {
	engine Engine
	parser *command.Parser
	prompt *typing.Prompter
	out    io.Writer
	log    *log.Logger
}

// NewHandler wires a handler. A nil logger discards.
func NewHandler(e Engine, p *command.Parser, prompt *typing.Prompter, out io.Writer, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Handler{engine: e, parser: p, prompt: prompt, out: out, log: logger}
}

// Start prints the first target sentence.
func (h *Handler) Start() {
	RenderPrompt(h.out, h.prompt.Current())
}

// HandleLine implements game.LineHandler.
func (h *Handler) HandleLine(line string) {
	cmd, err := h.parser.Parse(line)
	if err != nil {
		fmt.Fprintln(h.out, err)
		RenderPrompt(h.out, h.prompt.Current())
		h.engine.CreditCookies(1, game.SourceTyping)
		return
	}

	h.execute(cmd)
	RenderPrompt(h.out, h.prompt.Next())
}

func (h *Handler) execute(cmd command.Command) {
	switch c := cmd.(type) {
	case command.Help:
		RenderHelp(h.out)
	case command.Facility:
		h.facility(c)
	case command.Upgrade:
		h.upgrade(c)
	case command.InspectCookieCount:
		fmt.Fprintf(h.out, "Current Cookie Count: %s\n", FormatCookies(h.engine.Balance(), true))
	case command.InspectCookiesPerSecond:
		fmt.Fprintf(h.out, "Current Cookie Per Second: %s\n", FormatCPS(h.engine.ProductionRate()))
	case command.InspectCookiesPerType:
		fmt.Fprintf(h.out, "Current Cookie Per Type: %g\n", h.engine.CookiesPerAction())
	case command.UserInput:
		correct, accuracy := typing.Score(h.prompt.Current(), c.Content)
		gain := h.engine.CreditTyping(accuracy)
		fmt.Fprintf(h.out, "You typed %d characters correctly and\n", correct)
		fmt.Fprintf(h.out, "earned %s!\n", FormatCookies(gain, true))
	default:
		h.log.Printf("[INPUT] unhandled command %T", cmd)
	}
}

func (h *Handler) facility(c command.Facility) {
	switch c.Op {
	case command.OpList:
		snap := h.engine.Snapshot()
		RenderFacilities(h.out, &snap)

	case command.OpListAll:
		snap := h.engine.Snapshot()
		RenderFacilitiesDetailed(h.out, &snap)

	case command.OpDetail:
		snap := h.engine.Snapshot()
		if !RenderFacilityDetail(h.out, &snap, c.Target) {
			fmt.Fprintln(h.out, "Invalid Facility Name")
		}

	case command.OpBuy:
		cost, err := h.engine.PurchaseFacility(c.Target, c.Amount)
		if err != nil {
			h.report(err)
			return
		}
		fmt.Fprintf(h.out, "Purchased %d %s for %s cookies\n", c.Amount, h.facilityName(c.Target), FormatCost(cost))

	case command.OpSell:
		refund, err := h.engine.SellFacility(c.Target, c.Amount)
		if err != nil {
			h.report(err)
			return
		}
		fmt.Fprintf(h.out, "Sold %d %s for %s cookies\n", c.Amount, h.facilityName(c.Target), FormatCost(refund))
	}
}

func (h *Handler) upgrade(c command.Upgrade) {
	switch c.Op {
	case command.OpList, command.OpListAll:
		snap := h.engine.Snapshot()
		RenderUpgrades(h.out, &snap, c.Op == command.OpListAll)

	case command.OpDetail:
		snap := h.engine.Snapshot()
		if !RenderUpgradeDetail(h.out, &snap, c.Target) {
			fmt.Fprintln(h.out, "That upgrade is not yet available.")
		}

	case command.OpBuy:
		if err := h.engine.PurchaseUpgrade(c.Target); err != nil {
			h.report(err)
			return
		}
		snap := h.engine.Snapshot()
		u, _ := snap.Upgrade(c.Target)
		fmt.Fprintf(h.out, "Purchased upgrade: %s\n", u.Name)
	}
}

func (h *Handler) facilityName(id game.FacilityID) string {
	snap := h.engine.Snapshot()
	if f, ok := snap.Facility(id); ok {
		return f.Name
	}
	return string(id)
}

// report prints a player-facing message for an engine error.
func (h *Handler) report(err error) {
	var funds *game.InsufficientFundsError
	var owned *game.NotEnoughOwnedError

	switch {
	case errors.As(err, &funds):
		fmt.Fprintln(h.out, "Not enough cookies!")
		fmt.Fprintf(h.out, "Cost: %s\n", FormatCost(funds.Need))
		fmt.Fprintf(h.out, "Current Cookies: %s\n", FormatCost(funds.Have))
	case errors.As(err, &owned):
		fmt.Fprintln(h.out, owned.Error())
	case errors.Is(err, game.ErrUnknownFacility), errors.Is(err, game.ErrFacilityHidden):
		fmt.Fprintln(h.out, "Invalid Facility Name")
	case errors.Is(err, game.ErrQuantityTooLarge):
		fmt.Fprintln(h.out, "Invalid Purchase Amount")
	case errors.Is(err, game.ErrNegativeQuantity):
		fmt.Fprintln(h.out, "Expected a non-negative amount.")
	case errors.Is(err, game.ErrUpgradePurchased):
		fmt.Fprintln(h.out, "That upgrade is already purchased.")
	case errors.Is(err, game.ErrUnknownUpgrade), errors.Is(err, game.ErrUpgradeUnavailable):
		fmt.Fprintln(h.out, "That upgrade is not yet available.")
	default:
		fmt.Fprintln(h.out, err)
		h.log.Printf("[INPUT] unexpected engine error: %v", err)
	}
}
