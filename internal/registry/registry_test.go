package registry

import (
	"testing"

	"cifp_parser/internal/arinc"
)

type fakeResult struct{ kind string }

func (r *fakeResult) Type() string { return r.kind }

type fakeParser struct {
	name     string
	sections []string
	out      Result
}

func (p *fakeParser) Name() string                  { return p.name }
func (p *fakeParser) Sections() []string            { return p.sections }
func (p *fakeParser) Parse(rec arinc.Record) Result { return p.out }

func TestDispatch(t *testing.T) {
	r := New()
	r.Register(&fakeParser{
		name:     "alpha",
		sections: []string{"PA"},
		out:      &fakeResult{kind: "alpha"},
	})
	r.Register(&fakeParser{
		name:     "beta",
		sections: []string{"PA", "PG"},
		out:      &fakeResult{kind: "beta"},
	})

	results := r.Dispatch("PA", arinc.Record{})
	if len(results) != 2 {
		t.Fatalf("Dispatch(PA) returned %d results, want 2", len(results))
	}
	results = r.Dispatch("PG", arinc.Record{})
	if len(results) != 1 || results[0].Type() != "beta" {
		t.Fatalf("Dispatch(PG) = %v, want one beta result", results)
	}
	if results := r.Dispatch("XX", arinc.Record{}); results != nil {
		t.Errorf("Dispatch(XX) = %v, want nil for an unregistered key", results)
	}
}

func TestDispatchDropsNilResults(t *testing.T) {
	r := New()
	r.Register(&fakeParser{name: "skipper", sections: []string{"D "}, out: nil})
	if results := r.Dispatch("D ", arinc.Record{}); len(results) != 0 {
		t.Errorf("Dispatch = %v, want no results when the parser skips", results)
	}
}

func TestParserCount(t *testing.T) {
	r := New()
	r.Register(&fakeParser{name: "multi", sections: []string{"PD", "PE", "PF"}})
	r.Register(&fakeParser{name: "single", sections: []string{"PA"}})
	if got := r.ParserCount(); got != 2 {
		t.Errorf("ParserCount = %d, want 2", got)
	}
	if got := len(r.RegisteredSections()); got != 4 {
		t.Errorf("RegisteredSections = %d keys, want 4", got)
	}
}
