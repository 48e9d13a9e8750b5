package execution

import (
	"context"
	"time"

	"github.com/google/uuid"

	"WhaleSentinel/internal/logger"
	"WhaleSentinel/internal/model"
)

// OrderAck is the broker's acknowledgement of a submitted order.
type OrderAck struct {
	OrderRef    string
	SubmittedAt time.Time
}

// Broker is the external execution collaborator used in live mode.
type Broker interface {
	Submit(ctx context.Context, alert model.QualifyingAlert) (OrderAck, error)
	Name() string
}

// PlaceholderBroker stands in for a real brokerage integration. It sends
// nothing anywhere and only acknowledges with a generated reference.
type PlaceholderBroker struct {
	log *logger.Logger
	now func() time.Time
}

// NewPlaceholderBroker creates the placeholder broker.
func NewPlaceholderBroker(log *logger.Logger) *PlaceholderBroker {
	if log == nil {
		log = logger.Nop()
	}
	return &PlaceholderBroker{log: log, now: time.Now}
}

func (b *PlaceholderBroker) Name() string { return "placeholder" }

func (b *PlaceholderBroker) Submit(ctx context.Context, alert model.QualifyingAlert) (OrderAck, error) {
	if err := ctx.Err(); err != nil {
		return OrderAck{}, err
	}
	ack := OrderAck{OrderRef: uuid.NewString(), SubmittedAt: b.now()}
	b.log.WithFields(map[string]interface{}{
		"ticker":    alert.Ticker(),
		"side":      alert.Side(),
		"order_ref": ack.OrderRef,
	}).Info("live order handed to placeholder broker")
	return ack, nil
}
