package models

// Price is a derived average price that may be absent. Absent means the
// source yielded no usable observations, which is distinct from a price of
// zero or from a price above target.
type Price struct {
	Value float64
	Valid bool
}

// SomePrice returns a present price.
func SomePrice(v float64) Price { return Price{Value: v, Valid: true} }

// NoPrice returns an absent price.
func NoPrice() Price { return Price{} }

// CheckResult is the outcome of one price check for one watched item.
// BelowTarget holds iff CurrentPrice is present and at or below the target;
// a tie counts as a hit. PriceDifference is current minus target when a price
// is present, zero otherwise; negative means below target.
type CheckResult struct {
	Item            WatchedItem
	CurrentPrice    Price
	BelowTarget     bool
	PriceDifference float64
}

// RunSummary aggregates one full pass over a watchlist for the end-of-run
// operator report.
type RunSummary struct {
	Checked int
	Alerts  int
	Failed  int
}
