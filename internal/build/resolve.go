package build

import (
	"context"
)

// resolve back-fills coordinates for procedure legs and airway fixes that
// reference an identifier but carry none inline. It runs strictly after
// the scan so every candidate fix already exists; the lookup map was
// collected during the scan and merges airports (by ICAO), navaids, NDBs
// and waypoints. Unresolved identifiers stay null: some denote entities
// outside the modeled tables (runway-end pseudo-fixes and the like) and
// are a reported, non-fatal gap.
//
// All updates run inside the store's batch transactions and end with one
// flush.
func (b *Builder) resolve(ctx context.Context) error {
	legs, err := b.store.UnresolvedLegs(ctx)
	if err != nil {
		return err
	}
	for _, leg := range legs {
		pos, ok := b.fixes[leg.FixIdent]
		if !ok {
			b.stats.Unresolved++
			continue
		}
		if err := b.store.UpdateLegCoordinates(ctx, leg.ID, pos[0], pos[1]); err != nil {
			return err
		}
		b.stats.Resolved++
	}

	airways, err := b.store.UnresolvedAirways(ctx)
	if err != nil {
		return err
	}
	for _, aw := range airways {
		pos, ok := b.fixes[aw.FixIdent]
		if !ok {
			b.stats.Unresolved++
			continue
		}
		if err := b.store.UpdateAirwayCoordinates(ctx, aw.ID, pos[0], pos[1]); err != nil {
			return err
		}
		b.stats.Resolved++
	}

	if err := b.store.Flush(ctx); err != nil {
		return err
	}

	b.log.Info("fix resolution", "resolved", b.stats.Resolved, "unresolved", b.stats.Unresolved)
	return nil
}
