// Package worker runs mirror jobs consumed from the broker.
package worker

import (
	"context"
	"log/slog"

	"salesledger/internal/amqp"
	applog "salesledger/internal/log"
	"salesledger/internal/mirror"
)

// MirrorWorker appends consumed days to the remote store.
type MirrorWorker struct {
	syncer *mirror.Syncer
	logger *applog.Logger
}

// NewMirrorWorker creates a worker. A nil logger writes through the slog default.
func NewMirrorWorker(syncer *mirror.Syncer, logger *applog.Logger) *MirrorWorker {
	if logger == nil {
		logger = applog.New(applog.Config{Handler: slog.Default().Handler()})
	}
	return &MirrorWorker{syncer: syncer, logger: logger}
}

// HandleMirrorDay mirrors one message. Remote failures are logged by the
// syncer and never returned, so the message is acknowledged either way.
func (w *MirrorWorker) HandleMirrorDay(ctx context.Context, msg *amqp.MirrorDayMessage) error {
	w.logger.InfoContext(ctx, "Processing mirror message",
		"id", msg.ID,
		"user_id", msg.UserID,
		"date", msg.Date)

	if mirror.Eligible(msg.Entry) {
		// The Users row is what the DailySales rows refer to.
		if reg := w.syncer.RegisterUser(ctx, msg.UserID, ""); !reg.OK {
			w.logger.WarnContext(ctx, "Could not ensure remote user", "user_id", msg.UserID, "reason", reg.Reason)
		}
	}

	out := w.syncer.MirrorDay(ctx, msg.UserID, msg.Date, msg.Entry)
	switch {
	case out.Skipped:
		w.logger.DebugContext(ctx, "Mirror message skipped, no monetary activity", "id", msg.ID)
	case out.OK:
		w.logger.InfoContext(ctx, "Mirror message processed", "id", msg.ID)
	default:
		w.logger.WarnContext(ctx, "Mirror message not mirrored",
			"id", msg.ID,
			"reason", out.Reason)
	}
	return nil
}
