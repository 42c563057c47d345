package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jakan-Kink/stash-graphql-client/entity"
	"github.com/Jakan-Kink/stash-graphql-client/field"
	"github.com/Jakan-Kink/stash-graphql-client/store"
	"github.com/Jakan-Kink/stash-graphql-client/zerror"
)

type Studio struct {
	entity.Base `stash:"type=Studio,create=StudioCreateInput,update=StudioUpdateInput,repr=Name"`
	ID          string              `stash:"id"`
	Name        field.Field[string] `stash:"track,input=name"`
}

type Scene struct {
	entity.Base `stash:"type=Scene,create=SceneCreateInput,update=SceneUpdateInput,repr=Title"`
	ID          string             `stash:"id"`
	Title       field.Field[string] `stash:"track,input=title"`
	Studio      field.Ref[*Studio]  `stash:"rel,input=studio_id,query=studio"`
}

type Performer struct {
	entity.Base `stash:"type=Performer,create=PerformerCreateInput,update=PerformerUpdateInput,repr=Name"`
	ID          string              `stash:"id"`
	Name        field.Field[string] `stash:"track,input=name"`
	Rating      field.Field[int]    `stash:"track,input=rating100"`
}

func scenePayload(sceneID, title, studioID, studioName string) map[string]interface{} {
	return map[string]interface{}{
		"id":    sceneID,
		"title": title,
		"studio": map[string]interface{}{
			"id":   studioID,
			"name": studioName,
		},
	}
}

func TestConstructHoistsNestedEntityAndSharesIdentity(t *testing.T) {
	s := store.New(nil)

	scene, err := store.Construct[Scene](s, scenePayload("scene1", "A", "studio1", "Foo"))
	require.NoError(t, err)
	require.Equal(t, "A", scene.Title.MustGet())

	st, ok := scene.Studio.Get()
	require.True(t, ok)
	require.Equal(t, "Foo", st.Name.MustGet())

	cached, ok := store.CachedGet[Studio](s, "studio1")
	require.True(t, ok)
	require.Same(t, st, cached)
}

func TestConstructMergesOnCacheHitAndSharesIdentity(t *testing.T) {
	s := store.New(nil)

	scene1, err := store.Construct[Scene](s, scenePayload("scene1", "A", "studio1", "Foo"))
	require.NoError(t, err)
	st1, _ := scene1.Studio.Get()

	scene2, err := store.Construct[Scene](s, scenePayload("scene1", "A", "studio1", "Foo Updated"))
	require.NoError(t, err)

	require.Same(t, scene1, scene2)
	st2, _ := scene2.Studio.Get()
	require.Same(t, st1, st2)
	require.Equal(t, "Foo Updated", st2.Name.MustGet())
}

func performerPayload(id, name string, withRating bool, rating int) map[string]interface{} {
	p := map[string]interface{}{"id": id, "name": name}
	if withRating {
		p["rating100"] = rating
	}
	return p
}

func TestFilterStrictFailsNamingMissingFields(t *testing.T) {
	s := store.New(nil)
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("p%d", i)
		withRating := i >= 3
		_, err := store.Construct[Performer](s, performerPayload(id, id, withRating, 70))
		require.NoError(t, err)
	}

	_, err := store.FilterStrict[Performer](s, []string{"Rating"}, store.Filter{})
	require.Error(t, err)

	var gap *zerror.StrictFilterGap
	require.ErrorAs(t, err, &gap)
	require.Equal(t, "Performer", gap.TypeName)
	require.Equal(t, []string{"Rating"}, gap.Missing)
}

func TestFilterStrictPassesWhenAllFieldsPresent(t *testing.T) {
	s := store.New(nil)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("p%d", i)
		_, err := store.Construct[Performer](s, performerPayload(id, id, true, 50+i))
		require.NoError(t, err)
	}

	matches, err := store.FilterStrict[Performer](s, []string{"Rating"}, store.Filter{
		Criteria: []store.Criterion{{Field: "Rating", Modifier: store.GTE, Value: 52}},
	})
	require.NoError(t, err)
	require.Len(t, matches, 3)
}

func TestPopulateFetchesOnlyUnsetField(t *testing.T) {
	s := store.New(nil)
	scene, err := store.Construct[Scene](s, map[string]interface{}{"id": "scene1", "title": "A"})
	require.NoError(t, err)
	require.True(t, scene.Studio.IsUnset())

	calls := 0
	s.RegisterPopulator("Scene", "Studio", func(ctx context.Context, s *store.Store, self interface{}) error {
		calls++
		sc := self.(*Scene)
		studio, err := store.Construct[Studio](s, map[string]interface{}{"id": "studio1", "name": "Foo"})
		if err != nil {
			return err
		}
		return sc.Studio.SetFromPeer(studio)
	})

	require.NoError(t, store.Populate(context.Background(), s, scene, []string{"Studio"}, false))
	require.Equal(t, 1, calls)
	st, ok := scene.Studio.Get()
	require.True(t, ok)
	require.Equal(t, "Foo", st.Name.MustGet())

	// already loaded: a second non-forced populate must not re-fetch.
	require.NoError(t, store.Populate(context.Background(), s, scene, []string{"Studio"}, false))
	require.Equal(t, 1, calls)

	// force=true re-fetches regardless.
	require.NoError(t, store.Populate(context.Background(), s, scene, []string{"Studio"}, true))
	require.Equal(t, 2, calls)
}

func TestInvalidateClearsType(t *testing.T) {
	s := store.New(nil)
	_, err := store.Construct[Studio](s, map[string]interface{}{"id": "studio1", "name": "Foo"})
	require.NoError(t, err)

	_, ok := store.CachedGet[Studio](s, "studio1")
	require.True(t, ok)

	s.Invalidate("Studio")

	_, ok = store.CachedGet[Studio](s, "studio1")
	require.False(t, ok)
}

func TestFindMatchesIncludesAcrossRelationshipIDs(t *testing.T) {
	s := store.New(nil)
	_, err := store.Construct[Scene](s, scenePayload("scene1", "A", "studio1", "Foo"))
	require.NoError(t, err)
	_, err = store.Construct[Scene](s, scenePayload("scene2", "B", "studio2", "Bar"))
	require.NoError(t, err)

	matches, err := store.Find[Scene](s, store.Filter{
		Criteria: []store.Criterion{{Field: "Studio", Modifier: store.Includes, Value: "studio1"}},
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "scene1", matches[0].ID)
}
