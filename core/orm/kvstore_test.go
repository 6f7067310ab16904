/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package orm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"infini.sh/insight/core/orm"
	"infini.sh/insight/plugins/memory"
)

type note struct {
	orm.ORMObjectBase

	Owner string `json:"owner"`
	Title string `json:"title"`
	Rank  int    `json:"rank"`
}

func seedNotes(t *testing.T, store *orm.KVStoreORM) {
	t.Helper()
	for _, n := range []note{
		{Owner: "alice", Title: "first", Rank: 3},
		{Owner: "alice", Title: "second", Rank: 1},
		{Owner: "bob", Title: "third", Rank: 2},
	} {
		doc := n
		require.NoError(t, store.Create(&doc))
	}
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	store := memory.NewORM()

	doc := &note{Owner: "alice", Title: "hello"}
	require.NoError(t, store.Create(doc))
	assert.NotEmpty(t, doc.ID)
	assert.NotNil(t, doc.Created)
	assert.NotNil(t, doc.Updated)

	loaded := &note{}
	loaded.ID = doc.ID
	exists, err := store.Get(loaded)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "hello", loaded.Title)
}

func TestUpdateRequiresExistingDoc(t *testing.T) {
	store := memory.NewORM()

	doc := &note{Title: "ghost"}
	doc.ID = "missing"
	require.Error(t, store.Update(doc))

	require.NoError(t, store.Create(doc))
	doc.Title = "updated"
	require.NoError(t, store.Update(doc))

	loaded := &note{}
	loaded.ID = doc.ID
	_, err := store.Get(loaded)
	require.NoError(t, err)
	assert.Equal(t, "updated", loaded.Title)
	// update preserves the creation timestamp; compare instants, the
	// stored copy loses the zone and monotonic reading on the round trip
	require.NotNil(t, loaded.Created)
	assert.True(t, loaded.Created.Equal(*doc.Created))
}

func TestDelete(t *testing.T) {
	store := memory.NewORM()

	doc := &note{Title: "bye"}
	require.NoError(t, store.Create(doc))
	require.NoError(t, store.Delete(doc))

	loaded := &note{}
	loaded.ID = doc.ID
	exists, err := store.Get(loaded)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSearchWithConds(t *testing.T) {
	store := memory.NewORM()
	seedNotes(t, store)

	result, err := store.Search(&note{}, orm.NewQuery().AddCond(orm.Eq("owner", "alice")))
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Total)

	result, err = store.Search(&note{}, orm.NewQuery().AddCond(orm.Contains("title", "ir")))
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Total) // first, third

	result, err = store.Search(&note{}, orm.NewQuery().AddCond(orm.Gt("rank", 1), orm.NotEq("owner", "bob")))
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Total)
}

func TestSearchSortAndPage(t *testing.T) {
	store := memory.NewORM()
	seedNotes(t, store)

	q := orm.NewQuery().AddSort("rank", orm.ASC).SetFrom(0).SetSize(2)
	result, err := store.Search(&note{}, q)
	require.NoError(t, err)
	// total reflects all matches, not the page
	assert.EqualValues(t, 3, result.Total)

	items, err := orm.UnmarshalDocs[note](result)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Title)
	assert.Equal(t, "third", items[1].Title)

	q = orm.NewQuery().AddSort("rank", orm.DESC).SetFrom(2).SetSize(2)
	result, err = store.Search(&note{}, q)
	require.NoError(t, err)
	items, err = orm.UnmarshalDocs[note](result)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "second", items[0].Title)
}

func TestCountIgnoresPaging(t *testing.T) {
	store := memory.NewORM()
	seedNotes(t, store)

	count, err := store.Count(&note{}, orm.NewQuery().AddCond(orm.Eq("owner", "alice")).SetSize(1))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestGetIndexName(t *testing.T) {
	assert.Equal(t, "note", orm.GetIndexName(&note{}))
	assert.Equal(t, "note", orm.GetIndexName(note{}))
}
