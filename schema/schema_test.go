package schema_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jakan-Kink/stash-graphql-client/schema"
)

type fakeBase struct{}

type Scene struct {
	fakeBase `stash:"type=Scene,create=SceneCreateInput,update=SceneUpdateInput,repr=Title"`
	ID       string `stash:"id"`
	Title    string `stash:"track,input=title"`
	Studio   string `stash:"track,rel,input=studio_id,query=studio,inverse=Studio,inverseField=Scenes,strategy=direct"`
	Tags     string `stash:"track,rel,list,input=tag_ids,query=tags,inverse=Tag,strategy=direct"`
}

func TestForBuildsTypeMeta(t *testing.T) {
	tm, err := schema.For(reflect.TypeOf(Scene{}))
	require.NoError(t, err)
	require.Equal(t, "Scene", tm.TypeName)
	require.Equal(t, "SceneCreateInput", tm.CreateInputType)
	require.Equal(t, "SceneUpdateInput", tm.UpdateInputType)
	require.Equal(t, []string{"Title"}, tm.ReprFields)
	require.Equal(t, "ID", tm.IDField)
	require.ElementsMatch(t, []string{"Title", "Studio", "Tags"}, tm.Tracked)

	rel, ok := tm.Relationships["Studio"]
	require.True(t, ok)
	require.False(t, rel.IsList)
	require.Equal(t, "Studio", rel.InverseType)
	require.Equal(t, "Scenes", rel.InverseQueryField)
	require.Equal(t, schema.Direct, rel.Strategy)

	relList, ok := tm.Relationships["Tags"]
	require.True(t, ok)
	require.True(t, relList.IsList)
}

func TestForCachesByType(t *testing.T) {
	tm1, err := schema.For(reflect.TypeOf(Scene{}))
	require.NoError(t, err)
	tm2, err := schema.For(reflect.TypeOf(Scene{}))
	require.NoError(t, err)
	require.Same(t, tm1, tm2)
}

func TestFieldByInputKey(t *testing.T) {
	tm, err := schema.For(reflect.TypeOf(Scene{}))
	require.NoError(t, err)
	fm, ok := tm.FieldByInputKey("title")
	require.True(t, ok)
	require.Equal(t, "Title", fm.Name)
}
