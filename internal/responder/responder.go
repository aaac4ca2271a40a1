// Package responder turns a classified support message into a reply string.
// Every handler is a pure function of the message text and the dataset
// snapshot; there is no per-session state.
package responder

import (
	"github.com/araliya/supportbot/internal/dataset"
	"github.com/araliya/supportbot/internal/intent"
)

// Responder dispatches a message to the handler for its detected intent.
type Responder struct {
	data *dataset.Snapshot
}

// New creates a Responder over the given dataset snapshot.
func New(data *dataset.Snapshot) *Responder {
	return &Responder{data: data}
}

// Respond classifies text and returns the reply plus the detected intent.
// It always produces a reply; unknown input falls back to a fixed message.
func (r *Responder) Respond(text string) (string, intent.Intent) {
	it := intent.Classify(text)
	return r.Reply(it, text), it
}

// Reply produces the reply for an already-classified message.
func (r *Responder) Reply(it intent.Intent, text string) string {
	switch it {
	case intent.OrderStatus:
		return r.orderStatus(text)
	case intent.TrackOrder:
		return r.trackOrder(text)
	case intent.ReturnPolicy:
		return r.faqReply("return", defaultReturnPolicy)
	case intent.DeliveryTime:
		return r.faqReply("delivery", defaultDeliveryTime)
	case intent.PaymentMethods:
		return r.faqReply("payment", defaultPaymentMethods)
	case intent.OrderCancellation:
		return r.faqReply("cancel", defaultOrderCancellation)
	case intent.WarrantyInfo:
		return r.faqReply("warranty", defaultWarrantyInfo)
	case intent.ExchangePolicy:
		return r.faqReply("exchange", defaultExchangePolicy)
	case intent.ProductRecommendation:
		return r.productRecommendation(text)
	case intent.Fallback:
		return fallbackReply
	}
	return fallbackReply
}
