package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEntryPreservesOrder(t *testing.T) {
	var list []PhoneEntry
	list = AddEntry(list, PhoneEntry{ID: NewEntryID(), Type: "Mobile", Number: "111"})
	list = AddEntry(list, PhoneEntry{ID: NewEntryID(), Type: "Work", Number: "222"})
	list = AddEntry(list, PhoneEntry{ID: NewEntryID(), Type: "Home", Number: "333"})

	require.Len(t, list, 3)
	assert.Equal(t, "111", list[0].Number)
	assert.Equal(t, "222", list[1].Number)
	assert.Equal(t, "333", list[2].Number)

	seen := map[string]bool{}
	for _, e := range list {
		require.NotEmpty(t, e.ID)
		require.False(t, seen[e.ID], "entry ids must be unique")
		seen[e.ID] = true
	}
}

func TestUpdateEntry(t *testing.T) {
	a := EmailEntry{ID: NewEntryID(), Type: "Work", Address: "a@example.com"}
	b := EmailEntry{ID: NewEntryID(), Type: "Personal", Address: "b@example.com"}
	list := []EmailEntry{a, b}

	found := UpdateEntry(list, b.ID, func(e *EmailEntry) { e.Address = "new@example.com" })
	require.True(t, found)
	assert.Equal(t, "new@example.com", list[1].Address)
	assert.Equal(t, "a@example.com", list[0].Address, "other entries untouched")

	found = UpdateEntry(list, "missing", func(e *EmailEntry) { e.Address = "x" })
	assert.False(t, found)
	assert.Equal(t, "new@example.com", list[1].Address)
}

func TestRemoveEntry(t *testing.T) {
	a := SocialLink{ID: NewEntryID(), Platform: "instagram"}
	b := SocialLink{ID: NewEntryID(), Platform: "linkedin"}
	c := SocialLink{ID: NewEntryID(), Platform: "website"}
	list := []SocialLink{a, b, c}

	list, found := RemoveEntry(list, b.ID)
	require.True(t, found)
	require.Len(t, list, 2)
	assert.Equal(t, "instagram", list[0].Platform)
	assert.Equal(t, "website", list[1].Platform)

	list, found = RemoveEntry(list, b.ID)
	assert.False(t, found, "removing a stale id is a no-op")
	assert.Len(t, list, 2)
}
