package build

import (
	"context"
	"strings"

	"cifp_parser/internal/parsers/proc"
	"cifp_parser/internal/parsers/runway"
	"cifp_parser/internal/storage"
)

// appendLeg stores one procedure leg, creating the procedure header the
// first time its (airport, category, ident, transition) key appears. Legs
// keep the source's own sequence number: the assembler preserves order but
// never re-derives it from line order.
func (b *Builder) appendLeg(ctx context.Context, leg *proc.Result) error {
	key := procKey{
		airport:    leg.Airport,
		category:   leg.Category,
		ident:      leg.Procedure,
		transition: leg.Transition,
	}

	id, ok := b.procIDs[key]
	if !ok {
		var err error
		id, err = b.store.InsertProcedure(ctx, storage.Procedure{
			Airport:    leg.Airport,
			Category:   leg.Category,
			Ident:      leg.Procedure,
			Transition: leg.Transition,
			Runway:     runwayFromTransition(leg.Transition),
		})
		if err != nil {
			return err
		}
		b.procIDs[key] = id
	}

	return b.store.InsertLeg(ctx, id, leg)
}

// runwayFromTransition extracts a runway from a transition identifier
// using the RW-prefix convention ("RW08L" -> "08L"). Transitions naming a
// fix instead yield no runway.
func runwayFromTransition(t string) string {
	if !strings.HasPrefix(t, "RW") || len(t) < 3 {
		return ""
	}
	if t[2] < '0' || t[2] > '9' {
		return ""
	}
	return runway.TrimIdent(t)
}
