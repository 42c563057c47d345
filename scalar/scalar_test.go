package scalar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jakan-Kink/stash-graphql-client/scalar"
)

func TestFuzzyDateRoundTrip(t *testing.T) {
	for _, s := range []string{"2024", "2024-03", "2024-03-17"} {
		d, err := scalar.ParseFuzzyDate(s)
		require.NoError(t, err)
		require.Equal(t, s, d.String())
	}
}

func TestFuzzyDateRejectsBadInput(t *testing.T) {
	_, err := scalar.ParseFuzzyDate("2024-13")
	require.Error(t, err)
	_, err = scalar.ParseFuzzyDate("not-a-date")
	require.Error(t, err)
}

func TestTimestampAcceptsRFC3339(t *testing.T) {
	ts, err := scalar.ParseTimestamp("2024-03-17T10:00:00Z", time.Now())
	require.NoError(t, err)
	require.Equal(t, "2024-03-17T10:00:00Z", ts.String())
}

func TestTimestampAcceptsRelativeShortcut(t *testing.T) {
	now := time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC)
	ts, err := scalar.ParseTimestamp("2h, 30m", now)
	require.NoError(t, err)
	require.Equal(t, now.Add(-150*time.Minute), ts.Time)
}
