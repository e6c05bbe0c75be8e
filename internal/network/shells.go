package network

import (
	"fmt"
	"sync"

	logging "github.com/ipfs/go-log"
	"github.com/zeebo/blake3"
)

var log = logging.Logger("network")

// dedupWindow bounds how many recent message fingerprints GossipMesh
// remembers before forgetting the oldest one, so a long-lived mesh
// doesn't grow its dedup set without bound.
const dedupWindow = 4096

// fingerprint hashes an instance id and payload together so a
// retransmitted or looped-back copy of the same message is recognized
// regardless of which peer relayed it.
func fingerprint(msg NetMessage) [32]byte {
	h := blake3.New()
	h.Write([]byte(msg.InstanceID))
	h.Write(msg.Payload)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// GossipMesh is a reference Gossip implementation grounded on the
// source's libp2p gossipsub transport: in a real deployment each
// Broadcast would publish to a gossipsub topic and Subscribe would
// drain its inbound channel. This shell keeps the same shape without
// opening a socket, so the dispatcher and instance manager can be
// exercised end-to-end against an in-process loopback before a real
// transport is wired in. It also reproduces gossipsub's message-id
// deduplication, so a message rebroadcast along more than one relay
// path is only delivered once per subscriber.
type GossipMesh struct {
	mu    sync.Mutex
	subs  []chan<- NetMessage
	seen  map[[32]byte]struct{}
	order [][32]byte
}

// NewGossipMesh returns a mesh with no subscribers; Subscribe before
// the first Broadcast or messages will be dropped.
func NewGossipMesh() *GossipMesh {
	return &GossipMesh{seen: make(map[[32]byte]struct{})}
}

// Subscribe registers a channel that receives every future broadcast.
// The caller owns ch and must keep draining it; GossipMesh never
// blocks on a full subscriber, matching gossipsub's at-most-once,
// no-retry delivery semantics.
func (m *GossipMesh) Subscribe(ch chan<- NetMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, ch)
}

func (m *GossipMesh) Broadcast(msg NetMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fp := fingerprint(msg)
	if _, dup := m.seen[fp]; dup {
		log.Debugw("dropping duplicate broadcast", "instance_id", msg.InstanceID)
		return nil
	}
	m.remember(fp)

	for _, ch := range m.subs {
		select {
		case ch <- msg:
		default:
			log.Warnw("subscriber channel full, dropping message", "instance_id", msg.InstanceID)
		}
	}
	return nil
}

// remember records fp as seen, evicting the oldest fingerprint once
// the window is full. Caller holds m.mu.
func (m *GossipMesh) remember(fp [32]byte) {
	m.seen[fp] = struct{}{}
	m.order = append(m.order, fp)
	if len(m.order) > dedupWindow {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.seen, oldest)
	}
}

// ProxyBroadcast is a reference TotalOrder implementation grounded on
// the source's Tendermint ABCI proxy (src/network/src/proxy/proxyp2p.rs):
// messages are handed to an external consensus engine that delivers
// them back to every honest peer in the same order. This shell
// sequences messages locally with a monotonic counter instead of
// talking to a real consensus proxy, giving the same ordering
// guarantee in a single process for testing Cks05's coin flip.
type ProxyBroadcast struct {
	mu       sync.Mutex
	seq      uint64
	delivery []chan<- NetMessage
}

func NewProxyBroadcast() *ProxyBroadcast { return &ProxyBroadcast{} }

func (p *ProxyBroadcast) Subscribe(ch chan<- NetMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.delivery = append(p.delivery, ch)
}

func (p *ProxyBroadcast) Broadcast(msg NetMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	if len(p.delivery) == 0 {
		return fmt.Errorf("network: proxy broadcast has no subscribers for instance %s", msg.InstanceID)
	}
	for _, ch := range p.delivery {
		ch <- msg
	}
	return nil
}
