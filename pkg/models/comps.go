package models

import "time"

// PropertyType is the closed set of dwelling classes the comp adjuster
// distinguishes. Unknown types fall through with no type adjustment.
type PropertyType string

const (
	TypeUnknown      PropertyType = ""
	TypeSingleFamily PropertyType = "single_family"
	TypeMultiFamily  PropertyType = "multi_family"
	TypeCondo        PropertyType = "condo"
	TypeTownhouse    PropertyType = "townhouse"
)

// IsMultiFamily reports whether the type is an income property class.
func (t PropertyType) IsMultiFamily() bool { return t == TypeMultiFamily }

// SubjectProperty describes the property being valued.
type SubjectProperty struct {
	Sqft          float64      `json:"sqft"`
	Beds          int          `json:"beds"`
	Baths         float64      `json:"baths"`
	YearBuilt     int          `json:"year_built"`
	LotSqft       float64      `json:"lot_sqft"`
	HasPool       bool         `json:"has_pool"`
	ParkingSpaces int          `json:"parking_spaces"`
	PropertyType  PropertyType `json:"property_type"`
}

// ComparableProperty is one comparable sale. Optional fields are zero-valued
// when the source did not report them; the adjuster skips those components.
type ComparableProperty struct {
	Address       string       `json:"address,omitempty"`
	SoldPrice     float64      `json:"sold_price"`
	Sqft          float64      `json:"sqft"`
	Beds          int          `json:"beds"`
	Baths         float64      `json:"baths"`
	YearBuilt     int          `json:"year_built"`
	LotSqft       float64      `json:"lot_sqft,omitempty"`
	HasPool       bool         `json:"has_pool,omitempty"`
	ParkingSpaces int          `json:"parking_spaces,omitempty"`
	PropertyType  PropertyType `json:"property_type,omitempty"`
	DaysOnMarket  int          `json:"days_on_market,omitempty"`
	SoldDate      time.Time    `json:"sold_date,omitempty"`
}

// AdjustmentBreakdown itemizes the nine price-adjustment components applied
// to a comp. Positive values raise the comp toward the subject.
type AdjustmentBreakdown struct {
	Sqft         float64 `json:"sqft"`
	Bedrooms     float64 `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	Age          float64 `json:"age"`
	LotSize      float64 `json:"lot_size"`
	Pool         float64 `json:"pool"`
	Parking      float64 `json:"parking"`
	PropertyType float64 `json:"property_type"`
	MarketTiming float64 `json:"market_timing"`
}

// ARVAdjustment is the derived result for one comp: its adjusted price, a
// 0-100 similarity score, and the component breakdown. Never persisted.
type ARVAdjustment struct {
	Comp          ComparableProperty  `json:"comp"`
	AdjustedPrice float64             `json:"adjusted_price"`
	Similarity    float64             `json:"similarity"`
	Breakdown     AdjustmentBreakdown `json:"breakdown"`
}

// ARVResult aggregates the per-comp adjustments into a single weighted value.
type ARVResult struct {
	ARV         float64         `json:"arv"`
	Adjustments []ARVAdjustment `json:"adjustments"`
}
