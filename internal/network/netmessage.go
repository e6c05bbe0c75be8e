// Package network defines the wire envelope instances exchange
// (NetMessage) and the two delivery abstractions a deployment plugs
// in underneath it: best-effort Gossip and a TotalOrder broadcast
// used where the scheme needs agreement on delivery order (notably
// Cks05's coin, where a stray reordering must not change the outcome
// bit two honest parties compute). Both are interfaces only; no
// transport is opened by this package.
package network

import "fmt"

// Channel selects how a NetMessage should be delivered.
type Channel uint8

const (
	ChannelGossip Channel = iota
	ChannelTotalOrder
	ChannelPointToPoint
)

func (c Channel) String() string {
	switch c {
	case ChannelGossip:
		return "Gossip"
	case ChannelTotalOrder:
		return "TotalOrder"
	case ChannelPointToPoint:
		return "PointToPoint"
	default:
		return "Unknown"
	}
}

// PeerID identifies a party on the network, independent of its
// share id within any one instance (a peer holds one share per key,
// but the same peer may run instances for many different keys).
type PeerID string

// NetMessage is the routing envelope every instance sends and
// receives. InstanceID is the routing key the dispatcher uses to find
// the right inbox; Payload is the scheme's own wire message, opaque to
// this package.
type NetMessage struct {
	InstanceID string
	Payload    []byte
	Channel    Channel
	Receivers  []PeerID // only meaningful when Channel == ChannelPointToPoint
}

func (m NetMessage) String() string {
	return fmt.Sprintf("NetMessage{instance=%s, channel=%s, %d bytes}", m.InstanceID, m.Channel, len(m.Payload))
}

// Gossip delivers a message to every peer on a best-effort basis, with
// no ordering or delivery guarantee relative to other messages.
type Gossip interface {
	Broadcast(msg NetMessage) error
}

// TotalOrder delivers a message to every peer with the guarantee that
// all honest peers deliver every TotalOrder message in the same
// relative order. Schemes that must agree on delivery order without
// an extra consistency round (Cks05's coin flip) route through this
// instead of Gossip.
type TotalOrder interface {
	Broadcast(msg NetMessage) error
}

// PointToPoint delivers a message to a specific set of peers only. No
// adapter in this module sends on it; Frost's commitment and share
// messages are both tagged ChannelGossip.
type PointToPoint interface {
	Send(msg NetMessage) error
}
