/*
Package typing
File: typing.go
Description:
    Scores a typing attempt against the target sentence and picks the next
    target.

    The score uses the same longest-matching-block decomposition as a diff:
    correct is the number of characters in matching blocks, and accuracy
    rewards them while penalising every typed character:

        accuracy = max(0, 2*correct - len(input))

    so typing the sentence exactly scores its length, and mashing keys
    scores nothing.
*/

package typing

import (
	"math/rand"

	"github.com/pmezard/go-difflib/difflib"
)

// Score compares input to target character by character.
func Score(target, input string) (correct, accuracy int) {
	a, b := chars(target), chars(input)

	m := difflib.NewMatcher(a, b)
	for _, block := range m.GetMatchingBlocks() {
		correct += block.Size
	}

	accuracy = 2*correct - len(b)
	if accuracy < 0 {
		accuracy = 0
	}
	return correct, accuracy
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Prompter hands out target sentences. Not safe for concurrent use.
type Prompter struct {
	sentences []string
	rng       *rand.Rand
	current   string
}

// NewPrompter starts on first, which is typically the catalog greeting.
func NewPrompter(sentences []string, first string, seed int64) *Prompter {
	if first == "" && len(sentences) > 0 {
		first = sentences[0]
	}
	return &Prompter{
		sentences: sentences,
		rng:       rand.New(rand.NewSource(seed)),
		current:   first,
	}
}

// Current is the sentence the player should type.
func (p *Prompter) Current() string { return p.current }

// Next replaces the current sentence with a random one and returns it.
func (p *Prompter) Next() string {
	if len(p.sentences) > 0 {
		p.current = p.sentences[p.rng.Intn(len(p.sentences))]
	}
	return p.current
}
