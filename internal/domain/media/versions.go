package media

import (
	"errors"
	"sort"
)

var (
	ErrBadOrder     = errors.New("order must list every group member exactly once")
	ErrNotInGroup   = errors.New("asset is not a member of the group")
	ErrInvalidMerge = errors.New("cannot merge a group with itself")
)

// Slot is the position an asset takes after a graph mutation. Applying a
// plan means writing every slot in one transaction; a partial write can
// leave a group with zero or two current members.
type Slot struct {
	ParentID      *string
	VersionNumber int
	IsCurrent     bool
}

// Reorder recomputes the whole group for a full reordering, highest
// authority first: version_number = count - position, and only the first
// element stays current. Parent pointers are untouched (the root remains
// the group's identity even when it is not current).
func Reorder(members []Asset, orderedIDs []string) (map[string]Slot, error) {
	if len(orderedIDs) != len(members) {
		return nil, ErrBadOrder
	}
	byID := make(map[string]Asset, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	count := len(orderedIDs)
	slots := make(map[string]Slot, count)
	for pos, id := range orderedIDs {
		m, ok := byID[id]
		if !ok {
			return nil, ErrBadOrder
		}
		if _, dup := slots[id]; dup {
			return nil, ErrBadOrder
		}
		slots[id] = Slot{
			ParentID:      m.ParentID,
			VersionNumber: count - pos,
			IsCurrent:     pos == 0,
		}
	}
	return slots, nil
}

// RemoveMember computes the surviving group after removing one asset.
// If the root was removed, the lowest-numbered survivor is promoted to
// root; survivors renumber densely from 1 in ascending version order. The
// group is never left without a current member: when the removal (or the
// promotion) leaves none, the root becomes current. Returns nil slots and
// ok=false when the group empties.
func RemoveMember(members []Asset, removeID string) (map[string]Slot, bool, error) {
	var removed *Asset
	survivors := make([]Asset, 0, len(members))
	for i := range members {
		if members[i].ID == removeID {
			removed = &members[i]
			continue
		}
		survivors = append(survivors, members[i])
	}
	if removed == nil {
		return nil, false, ErrNotInGroup
	}
	if len(survivors) == 0 {
		return nil, false, nil
	}

	sort.Slice(survivors, func(i, j int) bool {
		return survivors[i].VersionNumber < survivors[j].VersionNumber
	})

	rootID := ""
	if removed.ParentID == nil {
		// root removed: lowest-numbered survivor takes over
		rootID = survivors[0].ID
	} else {
		for _, s := range survivors {
			if s.ParentID == nil {
				rootID = s.ID
				break
			}
		}
	}

	hasCurrent := false
	for _, s := range survivors {
		if s.IsCurrent {
			hasCurrent = true
			break
		}
	}

	slots := make(map[string]Slot, len(survivors))
	for i, s := range survivors {
		var parent *string
		if s.ID != rootID {
			p := rootID
			parent = &p
		}
		current := s.IsCurrent
		if !hasCurrent && s.ID == rootID {
			current = true
		}
		slots[s.ID] = Slot{
			ParentID:      parent,
			VersionNumber: i + 1,
			IsCurrent:     current,
		}
	}
	return slots, true, nil
}

// NextVersionNumber returns max(existing)+1 for a group. Version numbers
// are not required to be contiguous, only unique.
func NextVersionNumber(members []Asset) int {
	max := 0
	for _, m := range members {
		if m.VersionNumber > max {
			max = m.VersionNumber
		}
	}
	return max + 1
}

// CurrentOf returns the group's current member.
func CurrentOf(members []Asset) (Asset, bool) {
	for _, m := range members {
		if m.IsCurrent {
			return m, true
		}
	}
	return Asset{}, false
}

// RootOf returns the group's root member.
func RootOf(members []Asset) (Asset, bool) {
	for _, m := range members {
		if m.ParentID == nil {
			return m, true
		}
	}
	return Asset{}, false
}
