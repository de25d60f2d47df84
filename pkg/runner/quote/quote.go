// Package quote prints a motivational quote.
package quote

import (
	"context"
	"math/rand"
	"time"

	"tableflip.dev/grid/pkg/printers"
	"tableflip.dev/grid/pkg/stats"
)

type Quote struct {
	// Rand picks the quote; seeded from the clock when nil.
	Rand    *rand.Rand
	Printer *printers.PrettyPrint
}

func (n *Quote) Do(_ context.Context) error {
	r := n.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	n.Printer.Info("%s", stats.Quote(r))
	return nil
}
