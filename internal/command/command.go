/*
Package command
File: command.go
Description:
    The closed set of commands a player can type. Parse turns one raw input
    line into exactly one Command; the console handler switches over the
    concrete types.

    Anything that is not a recognised command is a typing attempt
    (UserInput) and is scored against the current prompt.
*/

package command

import "github.com/everforgeworks/cookey-typer/internal/game"

// Command is one parsed input line. The set of implementations is closed.
type Command interface {
	isCommand()
}

// Operation is the verb of a facility or upgrade command.
type Operation int

const (
	OpList Operation = iota + 1 // ls
	OpListAll                   // la
	OpBuy
	OpSell
	OpDetail
)

func (o Operation) String() string {
	switch o {
	case OpList:
		return "ls"
	case OpListAll:
		return "la"
	case OpBuy:
		return "buy"
	case OpSell:
		return "sell"
	case OpDetail:
		return "detail"
	default:
		return "invalid"
	}
}

// Facility manages facilities. Target is empty for list operations.
type Facility struct {
	Op     Operation
	Target game.FacilityID
	Amount int64
}

// Upgrade manages upgrades. Target is empty for list operations.
type Upgrade struct {
	Op     Operation
	Target game.UpgradeID
}

// Help prints the command reference.
type Help struct{}

// InspectCookieCount prints the balance.
type InspectCookieCount struct{}

// InspectCookiesPerSecond prints the aggregate production rate.
type InspectCookiesPerSecond struct{}

// InspectCookiesPerType prints the yield of one accuracy point.
type InspectCookiesPerType struct{}

// UserInput is a typing attempt.
type UserInput struct {
	Content string
}

func (Facility) isCommand()                {}
func (Upgrade) isCommand()                 {}
func (Help) isCommand()                    {}
func (InspectCookieCount) isCommand()      {}
func (InspectCookiesPerSecond) isCommand() {}
func (InspectCookiesPerType) isCommand()   {}
func (UserInput) isCommand()               {}
