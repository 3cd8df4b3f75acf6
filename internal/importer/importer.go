package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
// Expected headers: sku, name, description, price, quantity, tracks_quantity, status.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts products keyed by SKU.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		product, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if product == nil {
			continue
		}

		if _, err := i.productRepo.Upsert(ctx, *product); err != nil {
			return imported, fmt.Errorf("upsert product %s: %w", product.SKU, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	sku := field(record, index, "sku")
	if sku == "" {
		return nil, nil
	}

	priceStr := field(record, index, "price")
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("parse price for sku %s: %w", sku, err)
	}

	quantity := 0
	if qtyStr := field(record, index, "quantity"); qtyStr != "" {
		quantity, err = strconv.Atoi(qtyStr)
		if err != nil {
			return nil, fmt.Errorf("parse quantity for sku %s: %w", sku, err)
		}
	}

	tracks := true
	if trackStr := field(record, index, "tracks_quantity"); trackStr != "" {
		tracks, err = strconv.ParseBool(trackStr)
		if err != nil {
			return nil, fmt.Errorf("parse tracks_quantity for sku %s: %w", sku, err)
		}
	}

	status := field(record, index, "status")
	if status == "" {
		status = domain.ProductStatusActive
	}

	return &domain.Product{
		SKU:            sku,
		Name:           field(record, index, "name"),
		Description:    field(record, index, "description"),
		Price:          price,
		Quantity:       quantity,
		TracksQuantity: tracks,
		Status:         status,
		IsActive:       true,
	}, nil
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
