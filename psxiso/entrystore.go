package psxiso

// EntryStore is the flat, append-only arena backing every DirTree. Entries
// reference each other by index, never by pointer, so the tree can never
// contain a cycle and never needs an owner to free it.
type EntryStore struct {
	entries []Entry
}

// NewEntryStore returns an empty arena.
func NewEntryStore() *EntryStore {
	return &EntryStore{}
}

func (s *EntryStore) add(e Entry) int {
	s.entries = append(s.entries, e)
	return len(s.entries) - 1
}

// Entry returns a pointer to the arena slot at i. The pointer is only
// valid until the next add; callers needing to hold onto an index across
// mutations should keep the int, not the pointer.
func (s *EntryStore) Entry(i int) *Entry {
	return &s.entries[i]
}

// Len reports how many entries the arena holds.
func (s *EntryStore) Len() int {
	return len(s.entries)
}
