// Package dataset holds the immutable in-memory view of the support tables.
// A Snapshot is loaded once at startup and never mutated afterwards, so
// concurrent request handlers can read it without locking.
package dataset

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/araliya/supportbot/internal/storage"
)

// Snapshot is a read-only copy of the orders, products, and FAQ tables.
type Snapshot struct {
	orders   []storage.Order
	products []storage.Product
	faq      []storage.FAQEntry

	// Distinct lower-cased product categories in first-appearance order.
	categories []string
}

// Load reads all three dataset tables from the store into a Snapshot.
// The three tables are read concurrently. Loading fails if any table is
// empty: the process must not serve requests without its datasets.
func Load(store *storage.Store) (*Snapshot, error) {
	s := &Snapshot{}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		s.orders, err = store.AllOrders()
		return err
	})
	g.Go(func() error {
		var err error
		s.products, err = store.AllProducts()
		return err
	})
	g.Go(func() error {
		var err error
		s.faq, err = store.AllFAQ()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading datasets: %w", err)
	}

	if len(s.orders) == 0 {
		return nil, fmt.Errorf("orders dataset is empty — run `supportbot import` first")
	}
	if len(s.products) == 0 {
		return nil, fmt.Errorf("products dataset is empty — run `supportbot import` first")
	}
	if len(s.faq) == 0 {
		return nil, fmt.Errorf("faq dataset is empty — run `supportbot import` first")
	}

	seen := make(map[string]bool)
	for _, p := range s.products {
		c := strings.ToLower(p.Category)
		if !seen[c] {
			seen[c] = true
			s.categories = append(s.categories, c)
		}
	}

	return s, nil
}

// FindOrder returns the order with the given ID. Comparison is case-insensitive.
func (s *Snapshot) FindOrder(orderID string) (storage.Order, bool) {
	for _, o := range s.orders {
		if strings.EqualFold(o.OrderID, orderID) {
			return o, true
		}
	}
	return storage.Order{}, false
}

// FindFAQByTopic returns the first FAQ row whose question contains the topic
// keyword, case-insensitively. Table order decides ties.
func (s *Snapshot) FindFAQByTopic(topic string) (storage.FAQEntry, bool) {
	topic = strings.ToLower(topic)
	for _, e := range s.faq {
		if strings.Contains(strings.ToLower(e.Question), topic) {
			return e, true
		}
	}
	return storage.FAQEntry{}, false
}

// CategoriesPresent returns every distinct category that occurs as a
// substring of text, lower-cased, in dataset first-appearance order.
func (s *Snapshot) CategoriesPresent(text string) []string {
	low := strings.ToLower(text)
	var matched []string
	for _, c := range s.categories {
		if strings.Contains(low, c) {
			matched = append(matched, c)
		}
	}
	return matched
}

// ProductsInCategory returns all products in the given category
// (case-insensitive), preserving dataset order.
func (s *Snapshot) ProductsInCategory(category string) []storage.Product {
	var matched []storage.Product
	for _, p := range s.products {
		if strings.EqualFold(p.Category, category) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Categories returns the distinct lower-cased product categories in
// dataset order.
func (s *Snapshot) Categories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// FAQEntries returns a copy of the FAQ table in original order.
func (s *Snapshot) FAQEntries() []storage.FAQEntry {
	out := make([]storage.FAQEntry, len(s.faq))
	copy(out, s.faq)
	return out
}
