package unset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jakan-Kink/stash-graphql-client/unset"
)

func TestIsUnsetIdentity(t *testing.T) {
	require.True(t, unset.IsUnset(unset.Value))
	require.False(t, unset.IsSet(unset.Value))
}

func TestIsSetForOrdinaryValues(t *testing.T) {
	for _, v := range []interface{}{nil, "", 0, false, "hello", 42, struct{}{}} {
		require.True(t, unset.IsSet(v), "expected %#v to be considered set", v)
		require.False(t, unset.IsUnset(v))
	}
}

// A user type whose Equal/== semantics always say "equal to everything" must
// not be mistaken for Unset: identity comparison, not value equality, decides.
type alwaysEqual struct{}

func TestIsUnsetNotFooledByUserEquality(t *testing.T) {
	require.False(t, unset.IsUnset(alwaysEqual{}))
}

func TestStringer(t *testing.T) {
	require.Equal(t, "<unset>", unset.Stringer(unset.Value))
	require.Equal(t, "5", unset.Stringer(5))
}
