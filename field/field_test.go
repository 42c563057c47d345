package field_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jakan-Kink/stash-graphql-client/field"
	"github.com/Jakan-Kink/stash-graphql-client/unset"
)

func TestFieldStates(t *testing.T) {
	u := field.Unset[string]()
	require.True(t, u.IsUnset())
	require.Equal(t, unset.Value, u.Snapshot())

	n := field.Null[string]()
	require.True(t, n.IsNull())
	require.Nil(t, n.Snapshot())

	v := field.Of("hello")
	require.True(t, v.IsValue())
	got, ok := v.Get()
	require.True(t, ok)
	require.Equal(t, "hello", got)
	require.Equal(t, "hello", v.Snapshot())
}

func TestFieldEqual(t *testing.T) {
	require.True(t, field.Unset[int]().Equal(field.Unset[int]()))
	require.False(t, field.Unset[int]().Equal(field.Null[int]()))
	require.True(t, field.Of(7).Equal(field.Of(7)))
	require.False(t, field.Of(7).Equal(field.Of(8)))
}

type fakeEntity struct{ id string }

func (e fakeEntity) EntityID() string { return e.id }

func TestRefSnapshotIsID(t *testing.T) {
	r := field.OfRef[fakeEntity](fakeEntity{id: "u1"})
	require.Equal(t, "u1", r.Snapshot())
}

func TestRefListAddRemove(t *testing.T) {
	rl := field.UnsetRefList[fakeEntity]()
	rl = rl.Add(fakeEntity{id: "a"})
	rl = rl.Add(fakeEntity{id: "b"})
	rl = rl.Add(fakeEntity{id: "a"}) // no duplicate
	vs, ok := rl.Get()
	require.True(t, ok)
	require.Len(t, vs, 2)

	rl = rl.Remove(fakeEntity{id: "a"})
	vs, _ = rl.Get()
	require.Len(t, vs, 1)
	require.Equal(t, "b", vs[0].id)
}
