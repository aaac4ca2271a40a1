// Package intent classifies a free-text support message into one of a fixed
// set of intents using deterministic substring rules. No scoring, no fuzzy
// matching: the first rule that matches wins.
package intent

// Intent is the closed set of categories a message can be classified into.
type Intent string

const (
	OrderStatus           Intent = "order_status"
	ReturnPolicy          Intent = "return_policy"
	DeliveryTime          Intent = "delivery_time"
	PaymentMethods        Intent = "payment_methods"
	OrderCancellation     Intent = "order_cancellation"
	WarrantyInfo          Intent = "warranty_info"
	ExchangePolicy        Intent = "exchange_policy"
	ProductRecommendation Intent = "product_recommendation"
	TrackOrder            Intent = "track_order"
	Fallback              Intent = "fallback"
)

// All lists every intent, classification-priority first, Fallback last.
func All() []Intent {
	return []Intent{
		OrderStatus,
		ReturnPolicy,
		DeliveryTime,
		PaymentMethods,
		OrderCancellation,
		WarrantyInfo,
		ExchangePolicy,
		ProductRecommendation,
		TrackOrder,
		Fallback,
	}
}

type rule struct {
	intent   Intent
	keywords []string
}

// rules is the ordered keyword table. Slice order is the tie-break contract:
// the first intent with a matching keyword is returned, so reordering entries
// changes classification results.
var rules = []rule{
	{OrderStatus, []string{"order", "order id", "my order", "status", "where is", "delivery date", "orderid"}},
	{ReturnPolicy, []string{"return", "refund", "send back", "return policy", "money back"}},
	{DeliveryTime, []string{"delivery time", "how long", "when will it arrive", "shipping time", "time to deliver"}},
	{PaymentMethods, []string{"payment", "payment methods", "pay", "card", "cash on delivery", "visa", "mastercard", "debit"}},
	{OrderCancellation, []string{"cancel", "cancel order", "stop order", "undo order"}},
	{WarrantyInfo, []string{"warranty", "guarantee", "product warranty", "how long warranty"}},
	{ExchangePolicy, []string{"exchange", "replace", "swap", "exchange policy", "change size"}},
	{ProductRecommendation, []string{"recommend", "suggest", "advice", "good product", "suggestion", "recommendation"}},
	{TrackOrder, []string{"track", "tracking", "follow order", "locate order", "track my order"}},
}
