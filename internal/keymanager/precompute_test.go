package keymanager_test

import (
	"testing"

	"github.com/cryptobern/thetacrypt-sub001/internal/errs"
	"github.com/cryptobern/thetacrypt-sub001/internal/keymanager"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/rng"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/frost"
	"github.com/stretchr/testify/require"
)

func newTestPrecompute(t *testing.T, label string, id int) *keymanager.FrostPrecompute {
	t.Helper()
	nonces, commitment, err := frost.GenerateNonces(group.Ed25519, id, rng.OSRandom())
	require.NoError(t, err)
	return &keymanager.FrostPrecompute{Label: label, Nonces: nonces, Commitment: commitment}
}

func TestPrecomputePoolPopIsLIFOPerLabel(t *testing.T) {
	p := keymanager.NewPrecomputePool()
	first := newTestPrecompute(t, "key-a", 1)
	second := newTestPrecompute(t, "key-a", 1)
	p.PushFrostPrecomputation(first)
	p.PushFrostPrecomputation(second)

	got, err := p.PopFrostPrecomputation("key-a")
	require.NoError(t, err)
	require.Same(t, second, got)

	got, err = p.PopFrostPrecomputation("key-a")
	require.NoError(t, err)
	require.Same(t, first, got)
}

func TestPrecomputePoolPopEmptyIsKeyNotFound(t *testing.T) {
	p := keymanager.NewPrecomputePool()
	_, err := p.PopFrostPrecomputation("nope")
	require.ErrorIs(t, err, errs.ErrKeyNotFound)
}

func TestPrecomputePoolLabelsAreIndependent(t *testing.T) {
	p := keymanager.NewPrecomputePool()
	a := newTestPrecompute(t, "key-a", 1)
	b := newTestPrecompute(t, "key-b", 1)
	p.PushFrostPrecomputation(a)
	p.PushFrostPrecomputation(b)
	require.Equal(t, 2, p.Len())

	got, err := p.PopFrostPrecomputation("key-b")
	require.NoError(t, err)
	require.Same(t, b, got)
	require.Equal(t, 1, p.Len())
}
