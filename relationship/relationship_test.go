package relationship_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jakan-Kink/stash-graphql-client/entity"
	"github.com/Jakan-Kink/stash-graphql-client/field"
	"github.com/Jakan-Kink/stash-graphql-client/relationship"
)

type Scene struct {
	entity.Base `stash:"type=Scene,create=SceneCreateInput,update=SceneUpdateInput,repr=Title"`
	ID          string              `stash:"id"`
	Title       field.Field[string] `stash:"track,input=title"`
	Studio      field.Ref[*Studio]  `stash:"rel,input=studio_id,query=studio,inverse=Studio,inverseField=scenes"`
}

type Studio struct {
	entity.Base `stash:"type=Studio,create=StudioCreateInput,update=StudioUpdateInput,repr=Name"`
	ID          string                `stash:"id"`
	Name        field.Field[string]   `stash:"track,input=name"`
	Scenes      field.RefList[*Scene] `stash:"rel,list,query=scenes,inverse=Scene,inverseField=studio"`
}

func newScene(t *testing.T, id, title string) *Scene {
	t.Helper()
	s := &Scene{ID: id, Title: field.Of(title)}
	require.NoError(t, entity.Construct(s))
	return s
}

func newStudio(t *testing.T, id, name string, loadScenes bool) *Studio {
	t.Helper()
	st := &Studio{ID: id, Name: field.Of(name)}
	if loadScenes {
		st.Scenes = field.OfRefList[*Scene](nil)
	}
	require.NoError(t, entity.Construct(st))
	return st
}

func TestSetSyncsLoadedInversePeer(t *testing.T) {
	scene := newScene(t, "scene1", "A")
	studio := newStudio(t, "studio1", "Foo", true)

	require.NoError(t, relationship.Set(scene, "Studio", studio))

	got, ok := scene.Studio.Get()
	require.True(t, ok)
	require.Same(t, studio, got)

	require.True(t, studio.Scenes.Has(scene))
}

func TestSetDoesNotSyncUnloadedInversePeer(t *testing.T) {
	scene := newScene(t, "scene1", "A")
	studio := newStudio(t, "studio1", "Foo", false)
	require.True(t, studio.Scenes.IsUnset())

	require.NoError(t, relationship.Set(scene, "Studio", studio))

	require.True(t, studio.Scenes.IsUnset(), "syncing an unloaded inverse field would require a fetch")
}

func TestAddSyncsInverseSingleValuedSide(t *testing.T) {
	studio := newStudio(t, "studio1", "Foo", true)
	scene := newScene(t, "scene1", "A")
	scene.Studio = field.NullRef[*Studio]() // loaded (null), so eligible for inverse sync
	require.True(t, scene.Studio.IsNull())

	require.NoError(t, relationship.Add(studio, "Scenes", scene))

	require.True(t, studio.Scenes.Has(scene))
	got, ok := scene.Studio.Get()
	require.True(t, ok)
	require.Same(t, studio, got)
}

func TestRemoveSyncsInverseClear(t *testing.T) {
	studio := newStudio(t, "studio1", "Foo", true)
	scene := newScene(t, "scene1", "A")
	scene.Studio = field.NullRef[*Studio]() // loaded (null), so eligible for inverse sync
	require.NoError(t, relationship.Add(studio, "Scenes", scene))
	require.True(t, studio.Scenes.Has(scene))

	require.NoError(t, relationship.Remove(studio, "Scenes", scene))

	require.False(t, studio.Scenes.Has(scene))
	require.True(t, scene.Studio.IsNull())
}

func TestAddIsIdempotentByID(t *testing.T) {
	studio := newStudio(t, "studio1", "Foo", false)
	scene := newScene(t, "scene1", "A")

	require.NoError(t, relationship.Add(studio, "Scenes", scene))
	require.NoError(t, relationship.Add(studio, "Scenes", scene))

	peers, _ := studio.Scenes.Get()
	require.Len(t, peers, 1)
}
