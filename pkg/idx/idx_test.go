package idx_test

import (
	"slices"
	"testing"
	"time"

	"github.com/aussiebroadwan/hoaportal/pkg/idx"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestNewIsValid(t *testing.T) {
	id := idx.New()
	require.Len(t, id.String(), ulid.EncodedSize)
	require.True(t, idx.Valid(id.String()))
}

func TestValidRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "ghost", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		require.False(t, idx.Valid(s), "input %q", s)
	}
}

func TestNewAtCarriesTimestamp(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	u, err := ulid.ParseStrict(idx.NewAt(tm).String())
	require.NoError(t, err)
	require.Equal(t, tm, ulid.Time(u.Time()).UTC())
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	at := time.Unix(1700000000, 0).UTC()
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = idx.NewAt(at).String()
	}
	require.True(t, slices.IsSorted(ids))
}

func TestOrderedByTime(t *testing.T) {
	a := idx.NewAt(time.Unix(1, 0).UTC())
	b := idx.NewAt(time.Unix(2, 0).UTC())
	require.Less(t, a.String(), b.String())
}
