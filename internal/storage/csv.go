package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSV parsing for dataset imports. Columns are matched by header name so
// column order in the file does not matter; extra columns are ignored.
// A missing required column is an error and the import is refused.

var (
	orderColumns   = []string{"order_id", "status", "expected_delivery_date"}
	productColumns = []string{"product_id", "name", "category", "description", "price", "stock_status"}
	faqColumns     = []string{"question", "answer"}
)

// ParseOrdersCSV reads an orders dataset from r.
func ParseOrdersCSV(r io.Reader) ([]Order, error) {
	records, idx, err := readCSV(r, orderColumns)
	if err != nil {
		return nil, fmt.Errorf("orders: %w", err)
	}

	orders := make([]Order, 0, len(records))
	for _, rec := range records {
		orders = append(orders, Order{
			OrderID:              rec[idx["order_id"]],
			Status:               rec[idx["status"]],
			ExpectedDeliveryDate: rec[idx["expected_delivery_date"]],
		})
	}
	return orders, nil
}

// ParseProductsCSV reads a products dataset from r.
func ParseProductsCSV(r io.Reader) ([]Product, error) {
	records, idx, err := readCSV(r, productColumns)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}

	products := make([]Product, 0, len(records))
	for n, rec := range records {
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[idx["price"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("products: row %d: invalid price %q: %w", n+2, rec[idx["price"]], err)
		}
		products = append(products, Product{
			ProductID:   rec[idx["product_id"]],
			Name:        rec[idx["name"]],
			Category:    rec[idx["category"]],
			Description: rec[idx["description"]],
			Price:       price,
			StockStatus: rec[idx["stock_status"]],
		})
	}
	return products, nil
}

// ParseFAQCSV reads a FAQ dataset from r. Row order is preserved; topic
// lookups depend on it.
func ParseFAQCSV(r io.Reader) ([]FAQEntry, error) {
	records, idx, err := readCSV(r, faqColumns)
	if err != nil {
		return nil, fmt.Errorf("faq: %w", err)
	}

	entries := make([]FAQEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, FAQEntry{
			Question: rec[idx["question"]],
			Answer:   rec[idx["answer"]],
		})
	}
	return entries, nil
}

// readCSV parses r, validates that every required column is present, and
// returns the data records plus a header-name -> column-index map.
func readCSV(r io.Reader, required []string) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		// Strip a UTF-8 BOM if the file starts with one.
		name = strings.TrimPrefix(name, "\ufeff")
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", col)
		}
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading rows: %w", err)
	}
	return records, idx, nil
}
