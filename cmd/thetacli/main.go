// Command thetacli is the operator-facing tool for provisioning a
// Thetacrypt deployment: generating a (k,n) key set for a scheme and
// group and writing one keyfile per party. Talking to a running
// server over the network is an external collaborator's job (spec.md
// names the RPC transport itself as out of scope); this tool only
// covers what can be done entirely offline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cryptobern/thetacrypt-sub001/internal/keymanager"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/rng"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/bls04"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/bz03"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/cks05"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/frost"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/sg02"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/sh00"
)

var (
	schemeName string
	groupName  string
	threshold  int
	numParties int
	outDir     string
)

var rootCmd = &cobra.Command{
	Use:   "thetacli",
	Short: "Offline provisioning tool for a Thetacrypt deployment",
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a (k,n) threshold key set and write one keyfile per party",
	RunE:  runKeygen,
}

func init() {
	keygenCmd.Flags().StringVar(&schemeName, "scheme", "", "scheme: Bz03, Sg02, Bls04, Cks05, Frost, Sh00")
	keygenCmd.Flags().StringVar(&groupName, "group", "", "group: Bls12381, Bn254, Ed25519, Rsa512, Rsa1024, Rsa2048, Rsa4096")
	keygenCmd.Flags().IntVar(&threshold, "k", 0, "reconstruction threshold")
	keygenCmd.Flags().IntVar(&numParties, "n", 0, "number of parties")
	keygenCmd.Flags().StringVar(&outDir, "out", ".", "directory to write party-<id>.json keyfiles into")
	_ = keygenCmd.MarkFlagRequired("scheme")
	_ = keygenCmd.MarkFlagRequired("group")
	_ = keygenCmd.MarkFlagRequired("k")
	_ = keygenCmd.MarkFlagRequired("n")
	rootCmd.AddCommand(keygenCmd)
}

func parseScheme(name string) (scheme.Scheme, error) {
	switch name {
	case "Bz03":
		return scheme.Bz03, nil
	case "Sg02":
		return scheme.Sg02, nil
	case "Bls04":
		return scheme.Bls04, nil
	case "Cks05":
		return scheme.Cks05, nil
	case "Frost":
		return scheme.Frost, nil
	case "Sh00":
		return scheme.Sh00, nil
	default:
		return scheme.Invalid, fmt.Errorf("unknown scheme %q", name)
	}
}

func parseGroup(name string) (group.Group, error) {
	switch name {
	case "Bls12381":
		return group.Bls12381, nil
	case "Bn254":
		return group.Bn254, nil
	case "Ed25519":
		return group.Ed25519, nil
	case "Rsa512":
		return group.Rsa512, nil
	case "Rsa1024":
		return group.Rsa1024, nil
	case "Rsa2048":
		return group.Rsa2048, nil
	case "Rsa4096":
		return group.Rsa4096, nil
	default:
		return group.Invalid, fmt.Errorf("unknown group %q", name)
	}
}

func generate(s scheme.Scheme, g group.Group, k, n int) (*keys.PublicKey, []*keys.PrivateKeyShare, error) {
	r := rng.OSRandom()
	switch s {
	case scheme.Bz03:
		return bz03.Generate(g, k, n, r)
	case scheme.Sg02:
		return sg02.Generate(g, k, n, r)
	case scheme.Bls04:
		return bls04.Generate(g, k, n, r)
	case scheme.Sh00:
		return sh00.Generate(g, k, n, r)
	case scheme.Cks05:
		return cks05.Generate(g, k, n, r)
	case scheme.Frost:
		return frost.Generate(g, k, n, r)
	default:
		return nil, nil, fmt.Errorf("scheme %s has no key generation", s)
	}
}

func runKeygen(cmd *cobra.Command, args []string) error {
	s, err := parseScheme(schemeName)
	if err != nil {
		return err
	}
	g, err := parseGroup(groupName)
	if err != nil {
		return err
	}
	pk, sks, err := generate(s, g, threshold, numParties)
	if err != nil {
		return fmt.Errorf("key generation: %w", err)
	}
	contentID, err := pk.ContentID()
	if err != nil {
		return fmt.Errorf("computing content id: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for i, sk := range sks {
		kc := keymanager.NewKeychain()
		entry := &keys.Entry{ID: contentID, Public: pk, Private: sk}
		if err := kc.Insert(entry); err != nil {
			return err
		}
		path := fmt.Sprintf("%s/party-%d.json", outDir, i+1)
		if err := kc.Save(path); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("wrote %s (share %d of %d, key id %s)\n", path, sk.ID, numParties, contentID)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
