// Package ingest imports comparable-sale records from saved listing-export
// HTML pages. The parser is column-order agnostic: it maps header text to
// fields, so exports from different sources work as long as the sold price
// and sqft columns exist.
package ingest

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"property_underwriting/pkg/models"
)

// ParseCompsHTML extracts comparable sales from the first table in the
// document that carries a recognizable header row.
func ParseCompsHTML(r io.Reader) ([]models.ComparableProperty, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var comps []models.ComparableProperty
	found := false

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols := headerColumns(table)
		if _, ok := cols["sold_price"]; !ok {
			return true // not a comps table, keep looking
		}
		found = true

		table.Find("tbody tr, tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() == 0 {
				return // header row
			}
			comp, ok := parseRow(cells, cols)
			if ok {
				comps = append(comps, comp)
			}
		})
		return false
	})

	if !found {
		return nil, fmt.Errorf("no comparable-sales table found in document")
	}
	return comps, nil
}

// ParseCompsFile reads a saved export file from disk.
func ParseCompsFile(path string) ([]models.ComparableProperty, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open comps file: %w", err)
	}
	defer f.Close()
	return ParseCompsHTML(f)
}

// headerColumns maps normalized header names to column indexes.
func headerColumns(table *goquery.Selection) map[string]int {
	cols := make(map[string]int)
	table.Find("th").Each(func(i int, th *goquery.Selection) {
		if name := normalizeHeader(th.Text()); name != "" {
			cols[name] = i
		}
	})
	return cols
}

// normalizeHeader collapses the header variants seen across export formats
// onto canonical field names.
func normalizeHeader(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	h = strings.NewReplacer("(", "", ")", "", ".", "", "#", "").Replace(h)
	h = strings.Join(strings.Fields(h), " ")
	switch h {
	case "sold price", "sale price", "price", "close price":
		return "sold_price"
	case "sqft", "sq ft", "square feet", "living area":
		return "sqft"
	case "beds", "bedrooms", "br":
		return "beds"
	case "baths", "bathrooms", "ba":
		return "baths"
	case "year built", "built", "yr built":
		return "year_built"
	case "lot sqft", "lot size", "lot":
		return "lot_sqft"
	case "pool":
		return "pool"
	case "parking", "garage", "parking spaces":
		return "parking"
	case "type", "property type":
		return "property_type"
	case "dom", "days on market":
		return "dom"
	case "sold date", "close date", "date sold":
		return "sold_date"
	case "address":
		return "address"
	default:
		return ""
	}
}

func parseRow(cells *goquery.Selection, cols map[string]int) (models.ComparableProperty, bool) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= cells.Length() {
			return ""
		}
		return strings.TrimSpace(cells.Eq(i).Text())
	}

	comp := models.ComparableProperty{
		Address:       cell("address"),
		SoldPrice:     parseMoney(cell("sold_price")),
		Sqft:          parseMoney(cell("sqft")),
		Beds:          int(parseMoney(cell("beds"))),
		Baths:         parseMoney(cell("baths")),
		YearBuilt:     int(parseMoney(cell("year_built"))),
		LotSqft:       parseMoney(cell("lot_sqft")),
		HasPool:       parseBool(cell("pool")),
		ParkingSpaces: int(parseMoney(cell("parking"))),
		PropertyType:  parsePropertyType(cell("property_type")),
		DaysOnMarket:  int(parseMoney(cell("dom"))),
	}
	if d, ok := parseDate(cell("sold_date")); ok {
		comp.SoldDate = d
	}

	// A row without a price or size is a footer or an incomplete listing.
	if comp.SoldPrice <= 0 || comp.Sqft <= 0 {
		return models.ComparableProperty{}, false
	}
	return comp, true
}

func parseMoney(s string) float64 {
	s = strings.NewReplacer("$", "", ",", "", "%", "").Replace(s)
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || strings.EqualFold(s, "n/a") {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "pool":
		return true
	default:
		return false
	}
}

func parsePropertyType(s string) models.PropertyType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single family", "single-family", "sfr", "house":
		return models.TypeSingleFamily
	case "multi family", "multi-family", "duplex", "triplex", "fourplex":
		return models.TypeMultiFamily
	case "condo", "condominium":
		return models.TypeCondo
	case "townhouse", "townhome":
		return models.TypeTownhouse
	default:
		return models.TypeUnknown
	}
}

var dateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006", "Jan 2, 2006"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
