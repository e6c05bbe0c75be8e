// Command thetaserver boots one party's core: loads its config and
// keyfile, wires the keychain, instance manager, message dispatcher
// and network shells together behind an rpc.Server, and blocks until
// asked to shut down. Mounting rpc.Server behind an actual listener
// (gRPC, HTTP, whatever the deployment picks) and choosing the gossip
// substrate are both external collaborators' jobs, per spec.md's
// explicit non-goals; this binary only assembles the core.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/cryptobern/thetacrypt-sub001/internal/config"
	"github.com/cryptobern/thetacrypt-sub001/internal/dispatcher"
	"github.com/cryptobern/thetacrypt-sub001/internal/instance"
	"github.com/cryptobern/thetacrypt-sub001/internal/keymanager"
	"github.com/cryptobern/thetacrypt-sub001/internal/logging"
	"github.com/cryptobern/thetacrypt-sub001/internal/network"
	"github.com/cryptobern/thetacrypt-sub001/internal/rpc"
	"github.com/cryptobern/thetacrypt-sub001/pkg/events"
)

func main() {
	configPath := flag.String("config", "", "path to the party's YAML config file")
	debug := flag.Bool("debug", false, "enable development-mode logging")
	flag.Parse()

	if err := run(*configPath, *debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool) error {
	if configPath == "" {
		return fmt.Errorf("thetaserver: -config is required")
	}

	log, err := logging.New(debug)
	if err != nil {
		return fmt.Errorf("thetaserver: building logger: %w", err)
	}
	defer log.Sync()
	sugar := log.Sugar()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	sugar.Infow("loaded config", "listen_address", cfg.ListenAddress, "peers", len(cfg.Peers))

	keychain, err := keymanager.Load(cfg.KeyfilePath)
	if err != nil {
		return fmt.Errorf("thetaserver: loading keyfile: %w", err)
	}

	instances := instance.NewManager()
	dispatch := dispatcher.New(dispatcher.DefaultBacklogCheckInterval)
	defer dispatch.Stop()

	mesh := network.NewGossipMesh()
	outbox := make(chan network.NetMessage, 32)
	inbound := make(chan network.NetMessage, 32)
	mesh.Subscribe(inbound)

	pumpCtx, stopPumps := context.WithCancel(context.Background())
	defer stopPumps()
	var pumps errgroup.Group
	pumps.Go(func() error {
		for msg := range outbox {
			if err := mesh.Broadcast(msg); err != nil {
				sugar.Warnw("broadcast failed", "instance_id", msg.InstanceID, "error", err)
			}
		}
		return nil
	})
	pumps.Go(func() error {
		for {
			select {
			case msg, ok := <-inbound:
				if !ok {
					return nil
				}
				dispatch.Route(msg)
			case <-pumpCtx.Done():
				return nil
			}
		}
	})

	sink := events.Sink(logging.EventSink(log))
	if cfg.EventFile != "" {
		fileSink, err := events.NewFileSink(cfg.EventFile)
		if err != nil {
			return fmt.Errorf("thetaserver: opening event file: %w", err)
		}
		sink = events.TeeSink{A: fileSink, B: sink}
	}

	server := rpc.NewServer(keychain, instances, dispatch, outbox, sink)
	_ = server // mounted behind a transport by the deployment's own glue

	sugar.Infow("thetaserver ready", "listen_address", cfg.ListenAddress)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	sugar.Info("shutting down")
	close(outbox)
	stopPumps()
	if f, ok := sink.(events.Flusher); ok {
		if err := f.Flush(); err != nil {
			sugar.Warnw("flushing event sink", "error", err)
		}
	}
	if err := pumps.Wait(); err != nil {
		sugar.Warnw("pump shutdown", "error", err)
	}
	return nil
}
