package responder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/araliya/supportbot/internal/intent"
	"github.com/araliya/supportbot/internal/storage"
)

// Fixed replies used when the FAQ dataset has no row for a topic, plus the
// prompts for missing input. Wording is part of the product contract.
const (
	defaultReturnPolicy      = "You can return any unused item within 14 days of delivery for a full refund."
	defaultDeliveryTime      = "Delivery typically takes 3-5 working days."
	defaultPaymentMethods    = "We accept Visa, MasterCard, debit cards, and cash on delivery."
	defaultOrderCancellation = "Orders can be cancelled before they are shipped."
	defaultWarrantyInfo      = "Electronics items come with a 6-month warranty."
	defaultExchangePolicy    = "You may exchange items for size or color within 7 days of delivery."

	fallbackReply = "Sorry, I didn't understand that. Could you rephrase your question or ask about orders, returns, delivery, or product recommendations?"
)

func (r *Responder) orderStatus(text string) string {
	oid, ok := intent.ExtractOrderID(text)
	if !ok {
		return "Please provide an order ID (e.g., O1001)."
	}
	order, found := r.data.FindOrder(oid)
	if !found {
		return fmt.Sprintf("Sorry, order ID %s was not found.", oid)
	}
	return fmt.Sprintf("Order %s is %s and expected to arrive on %s.", oid, order.Status, order.ExpectedDeliveryDate)
}

func (r *Responder) trackOrder(text string) string {
	oid, ok := intent.ExtractOrderID(text)
	if !ok {
		return "Please provide an order ID to track (e.g., O1001)."
	}
	order, found := r.data.FindOrder(oid)
	if !found {
		return fmt.Sprintf("Order %s not found.", oid)
	}
	return fmt.Sprintf("Order %s is currently %s.", oid, order.Status)
}

// faqReply answers from the FAQ table when a row matches the topic keyword,
// otherwise falls back to the fixed default sentence.
func (r *Responder) faqReply(topic, fallback string) string {
	if entry, ok := r.data.FindFAQByTopic(topic); ok {
		return entry.Answer
	}
	return fallback
}

func (r *Responder) productRecommendation(text string) string {
	matched := r.data.CategoriesPresent(text)
	if len(matched) == 0 {
		return "Please specify a category (e.g., electronics, fitness, clothing)."
	}

	// Only the first mentioned category counts.
	cat := matched[0]
	products := r.data.ProductsInCategory(cat)
	if len(products) == 0 {
		return fmt.Sprintf("No products found in category '%s'. Please try another category.", cat)
	}

	pick := inStock(products)
	if len(pick) == 0 {
		pick = products
	}
	if len(pick) > 2 {
		pick = pick[:2]
	}

	lines := make([]string, 0, len(pick))
	for _, p := range pick {
		lines = append(lines, fmt.Sprintf("%s (%s) - %s - LKR %s", p.Name, p.ProductID, p.Description, formatPrice(p.Price)))
	}
	return "You may like:\n" + strings.Join(lines, "\n")
}

func inStock(products []storage.Product) []storage.Product {
	var out []storage.Product
	for _, p := range products {
		if p.StockStatus == storage.StockInStock {
			out = append(out, p)
		}
	}
	return out
}

// formatPrice prints integral prices without a trailing ".0".
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
