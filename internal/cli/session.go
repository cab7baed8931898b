package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SeamusWaldron/smartcube"
	"github.com/SeamusWaldron/smartcube/internal/config"
)

var errDisconnected = errors.New("cube disconnected")

// sessionOptions maps the config onto session options.
func sessionOptions(cfg *config.Config, log *slog.Logger) []smartcube.Option {
	return []smartcube.Option{
		smartcube.WithLogger(log),
		smartcube.WithHome(cfg.HomeOrientation()),
		smartcube.WithAxisRemap(cfg.Device.AxisRemap),
		smartcube.WithMoveHistory(cfg.MoveHistory),
	}
}

// pump feeds source events into session until ctx is done, the source
// closes or the cube disconnects.
func pump(ctx context.Context, src cubeControl, session *smartcube.Session, log *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-src.Events():
			if !ok {
				return nil
			}
			if err := session.HandleEvent(ctx, ev); err != nil {
				log.Warn("event not applied", "type", ev.Type(), "err", err)
			}
			if _, ok := ev.(smartcube.DisconnectEvent); ok {
				return errDisconnected
			}
		}
	}
}
