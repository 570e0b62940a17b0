package notify

import (
	"context"
	"log/slog"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// NoOpChannel implements Channel by logging discarded messages. It is used
// when no delivery backend is configured.
type NoOpChannel struct {
	log *slog.Logger
}

// NewNoOpChannel creates a channel that discards messages with a log line.
func NewNoOpChannel(log *slog.Logger) *NoOpChannel {
	return &NoOpChannel{log: log}
}

// Send logs and discards msg.
func (n *NoOpChannel) Send(_ context.Context, dest domain.Destination, msg Message) error {
	n.log.Debug("notification discarded (no backend configured)",
		"destination", dest.Key(),
		"product_id", msg.ProductID,
		"title", msg.Title,
	)
	return nil
}
