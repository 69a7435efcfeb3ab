package domain

import "github.com/google/uuid"

// Generic editor for the small ordered lists embedded in a draft (phones,
// emails, socials). Operations touch only the list they are given; a missing
// id is reported, not raised, so callers can treat stale ids as benign.

// Entry is anything keyed by a stable, client-assigned id.
type Entry interface {
	EntryID() string
}

// NewEntryID returns a fresh entry id. Ids are assigned once at creation and
// never reused; removal is always by id, never by index.
func NewEntryID() string {
	return uuid.NewString()
}

// AddEntry appends e to the list. It never validates field contents.
func AddEntry[T Entry](list []T, e T) []T {
	return append(list, e)
}

// UpdateEntry applies mutate to the entry matching id, in place. It returns
// false when no entry matches.
func UpdateEntry[T Entry](list []T, id string, mutate func(*T)) bool {
	for i := range list {
		if list[i].EntryID() == id {
			mutate(&list[i])
			return true
		}
	}
	return false
}

// RemoveEntry filters out the entry matching id, preserving the order of the
// rest. The second result is false when no entry matched.
func RemoveEntry[T Entry](list []T, id string) ([]T, bool) {
	for i := range list {
		if list[i].EntryID() == id {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}
