package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustVersion(t *testing.T, raw string) VersionOrder {
	t.Helper()
	v, err := NewVersionOrder(context.Background(), raw)
	require.NoError(t, err)
	return v
}

func TestVersionOrderBasicOrdering(t *testing.T) {
	cases := []struct{ lower, higher string }{
		{"1.0", "1.1"},
		{"1.0", "2.0"},
		{"1.0.0", "1.0.1"},
		{"1.0", "1.0.0"}, // the missing component fills as -1, so it sorts below 0
		{"1.0a", "1.0b"},
		{"1.0dev", "1.0"},
		{"1.0", "1.0post"},
		{"1.0dev1", "1.0"},
		{"1.0", "1.0post1"},
	}
	for _, c := range cases {
		lo := mustVersion(t, c.lower)
		hi := mustVersion(t, c.higher)
		if c.lower == "1.0" && c.higher == "1.0.0" {
			require.True(t, lo.Less(hi), "%s should sort before %s (fill value -1 < 0)", c.lower, c.higher)
			continue
		}
		require.True(t, lo.Less(hi), "%s should sort before %s", c.lower, c.higher)
	}
}

func TestVersionOrderEpoch(t *testing.T) {
	lo := mustVersion(t, "1!1.0")
	hi := mustVersion(t, "2!0.1")
	require.True(t, lo.Less(hi))

	noEpoch := mustVersion(t, "1.0")
	withEpoch := mustVersion(t, "0!1.0")
	require.True(t, noEpoch.Equal(withEpoch))
}

func TestVersionOrderCaseInsensitive(t *testing.T) {
	a := mustVersion(t, "1.0Alpha")
	b := mustVersion(t, "1.0alpha")
	require.True(t, a.Equal(b))
}

func TestVersionOrderTotality(t *testing.T) {
	versions := []string{"1.0", "1.0.1", "2.0", "1.0dev", "1.0post", "0.9"}
	for _, a := range versions {
		for _, b := range versions {
			va := mustVersion(t, a)
			vb := mustVersion(t, b)
			lt := va.Less(vb)
			gt := vb.Less(va)
			eq := va.Equal(vb)
			count := 0
			if lt {
				count++
			}
			if gt {
				count++
			}
			if eq {
				count++
			}
			require.Equal(t, 1, count, "exactly one relation must hold between %s and %s", a, b)
		}
	}
}

func TestVersionOrderTransitivity(t *testing.T) {
	versions := []string{"0.9", "1.0dev", "1.0", "1.0.1", "1.0post", "2.0"}
	for i := 0; i < len(versions); i++ {
		for j := i + 1; j < len(versions); j++ {
			vi := mustVersion(t, versions[i])
			vj := mustVersion(t, versions[j])
			require.True(t, vi.Less(vj) || vi.Equal(vj), "%s !< %s", versions[i], versions[j])
		}
	}
}

func TestVersionOrderMalformed(t *testing.T) {
	_, err := NewVersionOrder(context.Background(), "1.0@bad")
	require.Error(t, err)

	_, err = NewVersionOrder(context.Background(), "1!2!3")
	require.Error(t, err)

	_, err = NewVersionOrder(context.Background(), "")
	require.Error(t, err)
}

func TestSortVersionsUnparseableTail(t *testing.T) {
	out := SortVersions(context.Background(), []string{"2.0", "1.0@@", "1.0"})
	require.Equal(t, []string{"1.0", "2.0", "1.0@@"}, out)
}
