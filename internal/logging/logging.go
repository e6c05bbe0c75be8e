// Package logging builds the structured zap logger every long-lived
// task (gossip transport, keychain, instance manager, dispatcher, RPC
// shell) logs through, and the events.LogSink adapter that routes
// instance lifecycle events to it.
package logging

import (
	"go.uber.org/zap"

	"github.com/cryptobern/thetacrypt-sub001/pkg/events"
)

// New builds a production logger, or a development one (human-readable,
// debug-level) when debug is set.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// EventSink adapts a *zap.Logger into an events.Sink, logging each
// instance lifecycle transition at the level its kind warrants.
func EventSink(log *zap.Logger) events.Sink {
	sugar := log.Sugar()
	return events.LogSink{
		Log: func(kind, instanceID, errMsg string) {
			if errMsg != "" {
				sugar.Warnw("instance event", "kind", kind, "instance_id", instanceID, "error", errMsg)
				return
			}
			sugar.Infow("instance event", "kind", kind, "instance_id", instanceID)
		},
	}
}
