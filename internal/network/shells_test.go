package network_test

import (
	"testing"

	"github.com/cryptobern/thetacrypt-sub001/internal/network"
	"github.com/stretchr/testify/require"
)

func TestGossipMeshDeliversToAllSubscribers(t *testing.T) {
	mesh := network.NewGossipMesh()
	a := make(chan network.NetMessage, 1)
	b := make(chan network.NetMessage, 1)
	mesh.Subscribe(a)
	mesh.Subscribe(b)

	msg := network.NetMessage{InstanceID: "inst-1", Payload: []byte("round1")}
	require.NoError(t, mesh.Broadcast(msg))

	require.Equal(t, msg.InstanceID, (<-a).InstanceID)
	require.Equal(t, msg.InstanceID, (<-b).InstanceID)
}

func TestGossipMeshDropsDuplicateBroadcast(t *testing.T) {
	mesh := network.NewGossipMesh()
	sub := make(chan network.NetMessage, 2)
	mesh.Subscribe(sub)

	msg := network.NetMessage{InstanceID: "inst-1", Payload: []byte("round1")}
	require.NoError(t, mesh.Broadcast(msg))
	require.NoError(t, mesh.Broadcast(msg)) // same instance id + payload, rebroadcast

	require.Len(t, sub, 1)
}

func TestGossipMeshDistinguishesPayloads(t *testing.T) {
	mesh := network.NewGossipMesh()
	sub := make(chan network.NetMessage, 2)
	mesh.Subscribe(sub)

	require.NoError(t, mesh.Broadcast(network.NetMessage{InstanceID: "inst-1", Payload: []byte("round1")}))
	require.NoError(t, mesh.Broadcast(network.NetMessage{InstanceID: "inst-1", Payload: []byte("round2")}))

	require.Len(t, sub, 2)
}

func TestProxyBroadcastRequiresSubscriber(t *testing.T) {
	proxy := network.NewProxyBroadcast()
	err := proxy.Broadcast(network.NetMessage{InstanceID: "inst-1"})
	require.Error(t, err)
}

func TestProxyBroadcastFanOut(t *testing.T) {
	proxy := network.NewProxyBroadcast()
	a := make(chan network.NetMessage, 1)
	b := make(chan network.NetMessage, 1)
	proxy.Subscribe(a)
	proxy.Subscribe(b)

	require.NoError(t, proxy.Broadcast(network.NetMessage{InstanceID: "inst-1"}))
	require.Equal(t, "inst-1", (<-a).InstanceID)
	require.Equal(t, "inst-1", (<-b).InstanceID)
}
