package notify

import (
	"context"
	"log/slog"
)

// Slog writes notifications to an slog.Logger at Info level.
type Slog struct {
	logger *slog.Logger
}

// NewSlog creates a notifier backed by logger.
func NewSlog(logger *slog.Logger) *Slog {
	return &Slog{logger: logger}
}

// Notify logs n.
func (s *Slog) Notify(n Notification) {
	attrs := []slog.Attr{
		slog.String("subscription_id", n.SubscriptionID),
		slog.String("transition", n.Transition.String()),
		slog.String("message", n.Message),
		slog.Time("at", n.Timestamp),
	}
	if n.PlaceID != "" {
		attrs = append(attrs, slog.String("place_id", n.PlaceID))
	}
	if n.DistanceMeters > 0 {
		attrs = append(attrs, slog.Float64("distance_m", n.DistanceMeters))
	}

	s.logger.LogAttrs(context.Background(), slog.LevelInfo, n.Title, attrs...)
}

var _ Notifier = (*Slog)(nil)
