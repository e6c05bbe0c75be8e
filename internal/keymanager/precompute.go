package keymanager

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cryptobern/thetacrypt-sub001/internal/errs"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/frost"
)

// FrostPrecompute is one pre-generated round-1 output, stashed ahead
// of time so a signing instance can skip straight to publishing its
// commitment instead of paying for nonce generation on the hot path.
type FrostPrecompute struct {
	Label      string
	Nonces     *frost.NoncePair
	Commitment *frost.NonceCommitment
}

// PrecomputePool is the per-keychain stash of Frost precomputations,
// keyed by the label identifying which key they were generated for
// (an entry id). Entries drain LIFO within a label: the pool is kept
// sorted by label after every push so pops are deterministic rather
// than depending on map iteration order.
type PrecomputePool struct {
	mu    sync.Mutex
	items []*FrostPrecompute
}

func NewPrecomputePool() *PrecomputePool {
	return &PrecomputePool{}
}

// PushFrostPrecomputation adds one precomputed nonce pair for label,
// then re-sorts the pool by label so that pops drain in a
// deterministic order.
func (p *PrecomputePool) PushFrostPrecomputation(pc *FrostPrecompute) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, pc)
	sort.SliceStable(p.items, func(i, j int) bool {
		return p.items[i].Label < p.items[j].Label
	})
}

// PopFrostPrecomputation removes and returns the most recently pushed
// precomputation for label, or ErrKeyNotFound if none remain.
func (p *PrecomputePool) PopFrostPrecomputation(label string) (*FrostPrecompute, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.items) - 1; i >= 0; i-- {
		if p.items[i].Label == label {
			pc := p.items[i]
			p.items = append(p.items[:i], p.items[i+1:]...)
			return pc, nil
		}
	}
	return nil, fmt.Errorf("%w: no frost precomputation for %s", errs.ErrKeyNotFound, label)
}

// Len reports how many precomputations remain across all labels.
func (p *PrecomputePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
