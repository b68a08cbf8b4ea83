package core

import (
	"testing"

	"diocese/pkg/domain"
)

func TestSyncParishMembershipRebuildsDeaneryLists(t *testing.T) {
	snap := &domain.Snapshot{
		Deaneries: []domain.Deanery{{Base: domain.Base{ID: "d1"}, Name: "North", Parishes: []domain.ParishSummary{{ID: "stale"}}}},
		Parishes: []domain.Parish{
			{Base: domain.Base{ID: "p1"}, Name: "St. Ann", Status: domain.StatusActive, DeaneryID: "d1"},
			{Base: domain.Base{ID: "p2"}, Name: "St. Bede", DeaneryID: "gone", DeaneryName: "Gone"},
			{Base: domain.Base{ID: "p3"}, Name: "St. Clare", DeaneryName: "Leftover"},
		},
	}

	syncParishMembership(snap)

	got := snap.Deaneries[0].Parishes
	if len(got) != 1 || got[0] != (domain.ParishSummary{ID: "p1", Name: "St. Ann", Status: domain.StatusActive}) {
		t.Fatalf("unexpected deanery parishes %+v", got)
	}
	if snap.Parishes[0].DeaneryName != "North" {
		t.Fatalf("expected deanery name refresh, got %q", snap.Parishes[0].DeaneryName)
	}
	if snap.Parishes[1].DeaneryID != "" || snap.Parishes[1].DeaneryName != "" {
		t.Fatalf("expected dangling deanery cleared, got %+v", snap.Parishes[1])
	}
	if snap.Parishes[2].DeaneryName != "" {
		t.Fatalf("expected orphan deanery name cleared")
	}
	for _, p := range snap.Parishes {
		if p.AssignedClergy == nil {
			t.Fatalf("parish %s assignedClergy should encode as []", p.ID)
		}
	}
}

func TestSyncDeans(t *testing.T) {
	snap := &domain.Snapshot{
		Clergy: []domain.Clergy{
			{Base: domain.Base{ID: "c1"}, Name: "Fr. One", Role: "Pastor"},
			{Base: domain.Base{ID: "c2"}, Name: "Fr. Two", Role: "Dean", DeaneryID: "d1"},
			{Base: domain.Base{ID: "c3"}, Name: "Fr. Three", DeaneryID: "gone", DeaneryName: "Gone"},
			{Base: domain.Base{ID: "c4"}, Name: "Fr. Four", DeaneryID: "d2"},
		},
		Deaneries: []domain.Deanery{
			{Base: domain.Base{ID: "d1"}, Name: "North", DeanID: "c1"},
			{Base: domain.Base{ID: "d2"}, Name: "South", DeanID: "c1", DeanName: "Fr. One"},
			{Base: domain.Base{ID: "d3"}, Name: "East", DeanID: "missing", DeanName: "Kept"},
		},
	}

	syncDeans(snap)

	one := snap.Clergy[0]
	if one.DeaneryID != "d1" || one.DeaneryName != "North" || one.Role != "Pastor, Dean" {
		t.Fatalf("unexpected dean record %+v", one)
	}
	if snap.Deaneries[0].DeanName != "Fr. One" {
		t.Fatalf("expected dean name refresh")
	}
	if snap.Deaneries[1].DeanID != "" || snap.Deaneries[1].DeanName != "" {
		t.Fatalf("second deanery should lose the duplicate dean: %+v", snap.Deaneries[1])
	}
	if snap.Deaneries[2].DeanID != "missing" || snap.Deaneries[2].DeanName != "Kept" {
		t.Fatalf("dangling dean reference must be left for repair: %+v", snap.Deaneries[2])
	}
	if two := snap.Clergy[1]; two.Role != "" || two.DeaneryID != "" {
		t.Fatalf("demoted dean should lose qualifier and deanery: %+v", two)
	}
	if three := snap.Clergy[2]; three.DeaneryID != "" || three.DeaneryName != "" {
		t.Fatalf("expected dangling clergy deanery cleared: %+v", three)
	}
	if four := snap.Clergy[3]; four.DeaneryName != "South" {
		t.Fatalf("expected member deanery name refresh: %+v", four)
	}
}

func TestSyncClergySummaries(t *testing.T) {
	snap := &domain.Snapshot{
		Clergy: []domain.Clergy{{Base: domain.Base{ID: "c1"}, Name: "Msgr. New", Type: domain.ClergyTypePriest, Role: "Pastor"}},
		Parishes: []domain.Parish{{
			Base:           domain.Base{ID: "p1"},
			AssignedClergy: []domain.ClergySummary{{ID: "c1", Name: "Fr. Old"}, {ID: "gone", Name: "Fr. Gone"}},
		}},
	}

	syncClergySummaries(snap)

	got := snap.Parishes[0].AssignedClergy
	want := domain.ClergySummary{ID: "c1", Name: "Msgr. New", Type: domain.ClergyTypePriest, Role: "Pastor"}
	if got[0] != want {
		t.Fatalf("expected refreshed summary %+v, got %+v", want, got[0])
	}
	if got[1].Name != "Fr. Gone" {
		t.Fatalf("summary of missing clergy should be left alone")
	}
}

func TestSynchronizeIsIdempotent(t *testing.T) {
	snap := &domain.Snapshot{
		Clergy: []domain.Clergy{{Base: domain.Base{ID: "c1"}, Name: "Fr. One", Role: "Pastor"}},
		Deaneries: []domain.Deanery{
			{Base: domain.Base{ID: "d1"}, Name: "North", DeanID: "c1"},
		},
		Parishes: []domain.Parish{{Base: domain.Base{ID: "p1"}, Name: "St. Ann", DeaneryID: "d1", AssignedClergy: []domain.ClergySummary{{ID: "c1"}}}},
	}
	synchronize(snap)
	first, err := encodeCollection(&snap.Clergy)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	synchronize(snap)
	second, _ := encodeCollection(&snap.Clergy)
	if string(first) != string(second) {
		t.Fatalf("second pass changed clergy:\n%s\n%s", first, second)
	}
	if snap.Parishes[0].AssignedClergy[0].Role != "Pastor, Dean" {
		t.Fatalf("summary should carry the dean qualifier, got %q", snap.Parishes[0].AssignedClergy[0].Role)
	}
}

func TestReconcileAssignmentsLastParishWins(t *testing.T) {
	snap := &domain.Snapshot{
		Clergy: []domain.Clergy{
			{Base: domain.Base{ID: "c1"}, CurrentAssignment: "Elsewhere"},
			{Base: domain.Base{ID: "c2"}, CurrentAssignment: "St. Ann"},
			{Base: domain.Base{ID: "c3"}, CurrentAssignment: "Free text"},
		},
		Parishes: []domain.Parish{
			{Base: domain.Base{ID: "p1"}, Name: "St. Ann", AssignedClergy: []domain.ClergySummary{{ID: "c1"}, {ID: "c2"}}},
			{Base: domain.Base{ID: "p2"}, Name: "St. Bede", DeaneryID: "d2", AssignedClergy: []domain.ClergySummary{{ID: "c1"}, {ID: "c2"}}},
		},
	}

	if n := reconcileAssignments(snap); n != 1 {
		t.Fatalf("expected 1 reassignment, got %d", n)
	}
	if c := snap.Clergy[0]; c.CurrentAssignment != "St. Bede" || c.DeaneryID != "d2" {
		t.Fatalf("unexpected reassignment %+v", c)
	}
	if snap.Clergy[1].CurrentAssignment != "St. Ann" {
		t.Fatalf("matching assignment should be kept")
	}
	if snap.Clergy[2].CurrentAssignment != "Free text" {
		t.Fatalf("unlisted clergy keep their assignment")
	}
}

func TestStaleClergyReferences(t *testing.T) {
	snap := &domain.Snapshot{
		Parishes:  []domain.Parish{{AssignedClergy: []domain.ClergySummary{{ID: "c1"}, {ID: "c2"}}}},
		Deaneries: []domain.Deanery{{DeanID: "c1"}},
		Users:     []domain.UserAccount{{ID: "u1", ClergyID: "c1"}},
	}
	if n := staleClergyReferences(snap, "c1"); n != 3 {
		t.Fatalf("expected 3 references, got %d", n)
	}
}
