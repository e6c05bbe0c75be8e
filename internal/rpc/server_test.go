package rpc_test

import (
	"testing"
	"time"

	"github.com/cryptobern/thetacrypt-sub001/internal/dispatcher"
	"github.com/cryptobern/thetacrypt-sub001/internal/instance"
	"github.com/cryptobern/thetacrypt-sub001/internal/keymanager"
	"github.com/cryptobern/thetacrypt-sub001/internal/network"
	"github.com/cryptobern/thetacrypt-sub001/internal/rpc"
	"github.com/cryptobern/thetacrypt-sub001/pkg/events"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/rng"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/bz03"
	"github.com/stretchr/testify/require"
)

// party bundles one simulated peer's core: its own keychain, instance
// manager, dispatcher and outbox, wired into a Server the test drives
// directly (no real transport).
type party struct {
	server   *rpc.Server
	dispatch *dispatcher.Dispatcher
	outbox   chan network.NetMessage
}

func newParty(t *testing.T, entry *keys.Entry) *party {
	t.Helper()
	kc := keymanager.NewKeychain()
	require.NoError(t, kc.Insert(entry))
	im := instance.NewManager()
	d := dispatcher.New(time.Hour)
	t.Cleanup(d.Stop)
	outbox := make(chan network.NetMessage, 64)
	sink := events.LogSink{Log: func(string, string, string) {}}
	return &party{
		server:  rpc.NewServer(kc, im, d, outbox, sink),
		dispatch: d,
		outbox:  outbox,
	}
}

// relay forwards everything one party's outbox produces to every
// other party's dispatcher, emulating best-effort gossip.
func relay(t *testing.T, from *party, to []*party) {
	t.Helper()
	go func() {
		for msg := range from.outbox {
			for _, p := range to {
				p.dispatch.Route(msg)
			}
		}
	}()
}

func TestServerDecryptEndToEnd(t *testing.T) {
	pk, sks, err := bz03.Generate(group.Bls12381, 2, 3, rng.OSRandom())
	require.NoError(t, err)

	parties := make([]*party, 3)
	for i, sk := range sks {
		entry := &keys.Entry{ID: "share", IsDefault: true, Public: pk, Private: sk}
		parties[i] = newParty(t, entry)
	}
	for i, p := range parties {
		var peers []*party
		for j, q := range parties {
			if i != j {
				peers = append(peers, q)
			}
		}
		relay(t, p, peers)
	}

	plaintext := []byte("the committee has convened")
	ct, err := bz03.Encrypt(pk, plaintext, []byte("label"), rng.OSRandom())
	require.NoError(t, err)
	ctBytes, err := ct.ToBytes()
	require.NoError(t, err)

	var instanceID string
	for _, p := range parties {
		resp, err := p.server.Decrypt(rpc.DecryptRequest{Ciphertext: ctBytes})
		require.NoError(t, err)
		if instanceID == "" {
			instanceID = resp.InstanceID
		} else {
			require.Equal(t, instanceID, resp.InstanceID)
		}
	}

	require.Eventually(t, func() bool {
		status, err := parties[0].server.GetStatus(rpc.StatusRequest{InstanceID: instanceID})
		return err == nil && status.IsFinished
	}, 2*time.Second, 10*time.Millisecond)

	status, err := parties[0].server.GetStatus(rpc.StatusRequest{InstanceID: instanceID})
	require.NoError(t, err)
	require.Equal(t, plaintext, status.Result)
}

func TestServerDecryptUnknownScheme(t *testing.T) {
	pk, sks, err := bz03.Generate(group.Bls12381, 2, 3, rng.OSRandom())
	require.NoError(t, err)
	entry := &keys.Entry{ID: "share", Public: pk, Private: sks[0]}
	p := newParty(t, entry)

	_, err = p.server.Decrypt(rpc.DecryptRequest{Ciphertext: []byte("not a ciphertext")})
	require.Error(t, err)
}

func TestServerGetStatusUnknownInstance(t *testing.T) {
	pk, sks, err := bz03.Generate(group.Bls12381, 2, 3, rng.OSRandom())
	require.NoError(t, err)
	entry := &keys.Entry{ID: "share", Public: pk, Private: sks[0]}
	p := newParty(t, entry)

	_, err = p.server.GetStatus(rpc.StatusRequest{InstanceID: "nope"})
	require.Error(t, err)
}

func TestServerGetPublicKeys(t *testing.T) {
	pk, sks, err := bz03.Generate(group.Bls12381, 2, 3, rng.OSRandom())
	require.NoError(t, err)
	entry := &keys.Entry{ID: "share", Public: pk, Private: sks[0]}
	p := newParty(t, entry)

	resp, err := p.server.GetPublicKeys()
	require.NoError(t, err)
	require.Len(t, resp.Keys, 1)
	require.Equal(t, scheme.Bz03, resp.Keys[0].Scheme)
}
