package media

import (
	"testing"
)

func ptr(s string) *string { return &s }

func group3() []Asset {
	// root A v1, B v2 (current), C v3
	return []Asset{
		{ID: "A", VersionNumber: 1},
		{ID: "B", ParentID: ptr("A"), VersionNumber: 2, IsCurrent: true},
		{ID: "C", ParentID: ptr("A"), VersionNumber: 3},
	}
}

func assertSingleCurrent(t *testing.T, slots map[string]Slot) {
	t.Helper()
	current := 0
	for _, s := range slots {
		if s.IsCurrent {
			current++
		}
	}
	if current != 1 {
		t.Fatalf("expected exactly one current member, got %d", current)
	}
}

func TestReorder_AssignsDescendingVersions(t *testing.T) {
	slots, err := Reorder(group3(), []string{"C", "A", "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots["C"].VersionNumber != 3 || !slots["C"].IsCurrent {
		t.Fatalf("expected C to be v3 and current, got %+v", slots["C"])
	}
	if slots["A"].VersionNumber != 2 || slots["A"].IsCurrent {
		t.Fatalf("expected A to be v2 and not current, got %+v", slots["A"])
	}
	if slots["B"].VersionNumber != 1 || slots["B"].IsCurrent {
		t.Fatalf("expected B to be v1 and not current, got %+v", slots["B"])
	}
	// root keeps its identity: A stays parentless
	if slots["A"].ParentID != nil {
		t.Fatalf("expected root A to keep parent=nil")
	}
	assertSingleCurrent(t, slots)
}

func TestReorder_SingleMemberGroup(t *testing.T) {
	slots, err := Reorder([]Asset{{ID: "A", VersionNumber: 1, IsCurrent: true}}, []string{"A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots["A"].VersionNumber != 1 || !slots["A"].IsCurrent {
		t.Fatalf("single-member reorder must be a no-op, got %+v", slots["A"])
	}
}

func TestReorder_RejectsBadPermutations(t *testing.T) {
	cases := [][]string{
		{"A", "B"},                // missing member
		{"A", "B", "C", "D"},      // extra member
		{"A", "A", "B"},           // duplicate
		{"A", "B", "X"},           // unknown id
	}
	for _, order := range cases {
		if _, err := Reorder(group3(), order); err == nil {
			t.Fatalf("expected error for order %v", order)
		}
	}
}

func TestRemoveMember_RootDeletionPromotesLowestSurvivor(t *testing.T) {
	slots, ok, err := RemoveMember(group3(), "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected survivors")
	}
	// B (lowest survivor) becomes root v1; C renumbers to 2; current stays on B
	if slots["B"].ParentID != nil || slots["B"].VersionNumber != 1 {
		t.Fatalf("expected B to become root v1, got %+v", slots["B"])
	}
	if !slots["B"].IsCurrent {
		t.Fatalf("expected B to remain current")
	}
	if slots["C"].ParentID == nil || *slots["C"].ParentID != "B" || slots["C"].VersionNumber != 2 {
		t.Fatalf("expected C to re-parent under B as v2, got %+v", slots["C"])
	}
	assertSingleCurrent(t, slots)
}

func TestRemoveMember_CurrentDeletionPromotesRoot(t *testing.T) {
	slots, ok, err := RemoveMember(group3(), "B")
	if err != nil || !ok {
		t.Fatalf("unexpected: ok=%v err=%v", ok, err)
	}
	if !slots["A"].IsCurrent {
		t.Fatalf("expected root A to take over current after current member deleted")
	}
	if slots["A"].VersionNumber != 1 || slots["C"].VersionNumber != 2 {
		t.Fatalf("expected dense renumbering, got A=%+v C=%+v", slots["A"], slots["C"])
	}
	assertSingleCurrent(t, slots)
}

func TestRemoveMember_LastMemberEmptiesGroup(t *testing.T) {
	slots, ok, err := RemoveMember([]Asset{{ID: "A", VersionNumber: 1, IsCurrent: true}}, "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || slots != nil {
		t.Fatalf("expected empty group")
	}
}

func TestRemoveMember_UnknownAsset(t *testing.T) {
	if _, _, err := RemoveMember(group3(), "X"); err == nil {
		t.Fatalf("expected error for unknown member")
	}
}

func TestNextVersionNumber_SkipsGaps(t *testing.T) {
	members := []Asset{
		{ID: "A", VersionNumber: 1},
		{ID: "B", ParentID: ptr("A"), VersionNumber: 7, IsCurrent: true},
	}
	if got := NextVersionNumber(members); got != 8 {
		t.Fatalf("expected 8, got %d", got)
	}
}

func TestSingleCurrentInvariantUnderSequences(t *testing.T) {
	members := group3()

	apply := func(slots map[string]Slot) {
		next := members[:0]
		for _, m := range members {
			s, ok := slots[m.ID]
			if !ok {
				continue
			}
			m.ParentID = s.ParentID
			m.VersionNumber = s.VersionNumber
			m.IsCurrent = s.IsCurrent
			next = append(next, m)
		}
		members = next
	}

	slots, err := Reorder(members, []string{"B", "C", "A"})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	apply(slots)

	slots, ok, err := RemoveMember(members, "B")
	if err != nil || !ok {
		t.Fatalf("remove: ok=%v err=%v", ok, err)
	}
	apply(slots)

	current := 0
	for _, m := range members {
		if m.IsCurrent {
			current++
		}
	}
	if current != 1 {
		t.Fatalf("invariant violated: %d current members", current)
	}
}
