package entity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jakan-Kink/stash-graphql-client/entity"
	"github.com/Jakan-Kink/stash-graphql-client/field"
	"github.com/Jakan-Kink/stash-graphql-client/transport"
	"github.com/Jakan-Kink/stash-graphql-client/util"
)

type Scene struct {
	entity.Base `stash:"type=Scene,create=SceneCreateInput,update=SceneUpdateInput,repr=Title"`
	ID          string             `stash:"id"`
	Title       field.Field[string] `stash:"track,input=title"`
	Rating      field.Field[int]    `stash:"track,input=rating100"`
	Code        field.Field[string] `stash:"track,input=code"`
	Details     field.Field[string] `stash:"track,input=details"`
}

func fetchedScene(t *testing.T, id, title string, rating int) *Scene {
	t.Helper()
	s := &Scene{ID: id, Title: field.Of(title), Rating: field.Of(rating)}
	require.NoError(t, entity.FromPayload(s, []string{"Title", "Rating"}))
	return s
}

func TestMinimalUpdateEmitsOnlyChangedField(t *testing.T) {
	s := fetchedScene(t, "123", "Original", 70)
	s.Title = field.Of("Updated")

	in, err := entity.ToInput(s)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"id": "123", "title": "Updated"}, in)
}

func TestNullClearsUnsetOmits(t *testing.T) {
	s := &Scene{ID: "123", Rating: field.Of(70), Details: field.Of("d")}
	require.NoError(t, entity.FromPayload(s, []string{"Rating", "Details"}))

	s.Rating = field.Null[int]()
	s.Details = field.Unset[string]()

	in, err := entity.ToInput(s)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"id": "123", "rating100": nil}, in)
}

type fakeTransport struct {
	createResult map[string]interface{}
}

func (f *fakeTransport) Execute(ctx context.Context, operation string, variables map[string]interface{}, out interface{}) error {
	if operation == "SceneCreate" {
		if m, ok := out.(*map[string]interface{}); ok {
			*m = f.createResult
		}
	}
	return nil
}

func (f *fakeTransport) Subscribe(ctx context.Context, operation string, variables map[string]interface{}) (<-chan transport.Event, error) {
	return nil, nil
}

func TestNewEntityMintsIDAndReceivesServerIDOnSave(t *testing.T) {
	s := &Scene{Title: field.Of("X")}
	require.NoError(t, entity.Construct(s))
	require.True(t, util.IsLocalToken(s.ID))
	require.True(t, entity.IsNew(s))

	ft := &fakeTransport{createResult: map[string]interface{}{"id": "456"}}
	require.NoError(t, entity.Save(context.Background(), s, ft, "SceneCreate", "SceneUpdate", "id"))

	require.Equal(t, "456", s.ID)
	require.False(t, entity.IsNew(s))
	require.False(t, entity.IsDirty(s))
}

func TestMergeSelectiveSnapshotPreservesUnrelatedEdit(t *testing.T) {
	s := fetchedScene(t, "s1", "Original", 70)
	s.Code = field.Of("X") // user edit, not part of any payload

	// simulate the store merging a payload that only carries Title
	s.Title = field.Of("Merged")
	entity.UpdateSnapshotFor(s, []string{"Title"})

	changed := entity.ChangedFields(s)
	_, codeChanged := changed["Code"]
	require.True(t, codeChanged)
	_, titleChanged := changed["Title"]
	require.False(t, titleChanged)
}

func TestShortReprFallsBackToID(t *testing.T) {
	s := &Scene{ID: "s9"}
	require.NoError(t, entity.Construct(s))
	require.Equal(t, "Scene(id=s9)", entity.ShortRepr(s))

	s.Title = field.Of("Hello")
	require.Equal(t, `Scene(title="Hello")`, entity.ShortRepr(s))
}
