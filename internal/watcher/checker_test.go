package watcher

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"pricewatch/internal/models"
)

type stubSource struct {
	prices []float64
	err    error
	calls  int
}

func (s *stubSource) FetchPrices(_ context.Context, _ string, _ bool) ([]float64, error) {
	s.calls++
	return s.prices, s.err
}

func newTestChecker(source PriceSource) *Checker {
	return NewChecker(source, DefaultConfig(), zap.NewNop())
}

func TestChecker_PriceBelowTarget(t *testing.T) {
	item := models.WatchedItem{Name: "Test Item", TargetPrice: 500}
	checker := newTestChecker(&stubSource{prices: []float64{450}})

	result := checker.Check(context.Background(), item)

	if !result.BelowTarget {
		t.Error("expected BelowTarget")
	}
	if !result.CurrentPrice.Valid || result.CurrentPrice.Value != 450 {
		t.Errorf("got price %+v, want 450", result.CurrentPrice)
	}
	if result.PriceDifference != -50 {
		t.Errorf("got difference %f, want -50", result.PriceDifference)
	}
}

func TestChecker_PriceAboveTarget(t *testing.T) {
	item := models.WatchedItem{Name: "Test Item", TargetPrice: 500}
	checker := newTestChecker(&stubSource{prices: []float64{550}})

	result := checker.Check(context.Background(), item)

	if result.BelowTarget {
		t.Error("expected no alert above target")
	}
	if !result.CurrentPrice.Valid || result.CurrentPrice.Value != 550 {
		t.Errorf("got price %+v, want 550", result.CurrentPrice)
	}
	if result.PriceDifference != 50 {
		t.Errorf("got difference %f, want 50", result.PriceDifference)
	}
}

func TestChecker_TieCountsAsHit(t *testing.T) {
	item := models.WatchedItem{Name: "Test Item", TargetPrice: 500}
	checker := newTestChecker(&stubSource{prices: []float64{500}})

	result := checker.Check(context.Background(), item)

	if !result.BelowTarget {
		t.Error("price equal to target must trigger an alert")
	}
	if result.PriceDifference != 0 {
		t.Errorf("got difference %f, want 0", result.PriceDifference)
	}
}

func TestChecker_EmptySource(t *testing.T) {
	item := models.WatchedItem{Name: "Test Item", TargetPrice: 500}
	checker := newTestChecker(&stubSource{})

	result := checker.Check(context.Background(), item)

	if result.CurrentPrice.Valid {
		t.Error("expected absent price for empty source")
	}
	if result.BelowTarget {
		t.Error("failed fetch must not trigger an alert")
	}
	if result.PriceDifference != 0 {
		t.Errorf("got difference %f, want 0", result.PriceDifference)
	}
}

func TestChecker_SourceErrorDegradesToNoPrice(t *testing.T) {
	item := models.WatchedItem{Name: "Test Item", TargetPrice: 500}
	checker := newTestChecker(&stubSource{err: errors.New("connection refused")})

	result := checker.Check(context.Background(), item)

	if result.CurrentPrice.Valid {
		t.Error("expected absent price on source error")
	}
	if result.BelowTarget {
		t.Error("source error must not trigger an alert")
	}
}

func TestChecker_AppliesOutlierFilter(t *testing.T) {
	item := models.WatchedItem{Name: "Test Item", TargetPrice: 20}
	source := &stubSource{prices: []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 100}}
	checker := newTestChecker(source)

	result := checker.Check(context.Background(), item)

	if !result.CurrentPrice.Valid {
		t.Fatal("expected a price")
	}
	// Mean of 10..19 after the 100 outlier is rejected.
	if result.CurrentPrice.Value != 14.5 {
		t.Errorf("got price %f, want 14.5", result.CurrentPrice.Value)
	}
}

func TestChecker_Idempotent(t *testing.T) {
	item := models.WatchedItem{Name: "Test Item", TargetPrice: 500, CheckSold: true}
	source := &stubSource{prices: []float64{450, 455, 460, 465}}
	checker := newTestChecker(source)

	first := checker.Check(context.Background(), item)
	second := checker.Check(context.Background(), item)

	if first != second {
		t.Errorf("results differ:\n first: %+v\nsecond: %+v", first, second)
	}
	if source.calls != 2 {
		t.Errorf("got %d source calls, want 2", source.calls)
	}
}
