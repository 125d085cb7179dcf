package services

import (
	"context"
	"fmt"
	"testing"
)

// cannedSearcher returns fixed hits per query string and records call order.
type cannedSearcher struct {
	hits    map[string][]string
	err     error
	queries []string
}

func (s *cannedSearcher) Search(_ context.Context, query string, _ int64) ([]string, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.hits[query], nil
}

// setValidator accepts exactly the IDs in its set and counts probes.
type setValidator struct {
	valid  map[string]bool
	probes []string
}

func (v *setValidator) IsValid(_ context.Context, id string) bool {
	v.probes = append(v.probes, id)
	return v.valid[id]
}

func TestResolverQueryOrder(t *testing.T) {
	got := searchQueries("Creep", "Radiohead")
	want := []string{
		`"Creep" Radiohead official video`,
		`Radiohead "Creep" official video`,
		`"Creep" Radiohead lyrics`,
		`Radiohead "Creep" lyrics`,
		`"Creep" Radiohead live`,
		`Radiohead "Creep" live`,
		`"Creep" Radiohead`,
		`Radiohead "Creep"`,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d queries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("query[%d]=%q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolverShortCircuitsOnFirstValidCandidate(t *testing.T) {
	searcher := &cannedSearcher{hits: map[string][]string{
		`"Creep" Radiohead official video`: {"badbadbad01", "goodgoodid1", "goodgoodid2"},
	}}
	validator := &setValidator{valid: map[string]bool{"goodgoodid1": true, "goodgoodid2": true}}
	r := NewVideoResolver(testLogger(t), searcher, validator)

	id, ok := r.Resolve(context.Background(), "Creep", "Radiohead")
	if !ok || id != "goodgoodid1" {
		t.Fatalf("Resolve=(%q,%v), want (goodgoodid1,true)", id, ok)
	}
	if len(searcher.queries) != 1 {
		t.Fatalf("searched %d phrasings, want 1", len(searcher.queries))
	}
	if len(validator.probes) != 2 {
		t.Fatalf("validated %d candidates, want 2", len(validator.probes))
	}
}

func TestResolverFallsThroughPhrasings(t *testing.T) {
	// Hit only on the third phrasing; earlier two return nothing.
	searcher := &cannedSearcher{hits: map[string][]string{
		`"Creep" Radiohead lyrics`: {"lyricsvideo"},
	}}
	validator := &setValidator{valid: map[string]bool{"lyricsvideo": true}}
	r := NewVideoResolver(testLogger(t), searcher, validator)

	id, ok := r.Resolve(context.Background(), "Creep", "Radiohead")
	if !ok || id != "lyricsvideo" {
		t.Fatalf("Resolve=(%q,%v), want (lyricsvideo,true)", id, ok)
	}
	if len(searcher.queries) != 3 {
		t.Fatalf("searched %d phrasings, want 3", len(searcher.queries))
	}
}

func TestResolverExhaustsAllPhrasings(t *testing.T) {
	searcher := &cannedSearcher{hits: map[string][]string{}}
	validator := &setValidator{valid: map[string]bool{}}
	r := NewVideoResolver(testLogger(t), searcher, validator)

	if id, ok := r.Resolve(context.Background(), "Creep", "Radiohead"); ok {
		t.Fatalf("Resolve=(%q,true), want not found", id)
	}
	if len(searcher.queries) != 8 {
		t.Fatalf("searched %d phrasings, want all 8", len(searcher.queries))
	}
}

func TestResolverTreatsSearchErrorAsNoResults(t *testing.T) {
	searcher := &cannedSearcher{err: fmt.Errorf("quota exceeded")}
	validator := &setValidator{}
	r := NewVideoResolver(testLogger(t), searcher, validator)

	if id, ok := r.Resolve(context.Background(), "Creep", "Radiohead"); ok {
		t.Fatalf("Resolve=(%q,true), want not found", id)
	}
	if len(searcher.queries) != 8 {
		t.Fatalf("searched %d phrasings despite errors, want 8", len(searcher.queries))
	}
	if len(validator.probes) != 0 {
		t.Fatalf("validated %d candidates, want none", len(validator.probes))
	}
}
