// Package models defines the core domain entities: watched items, derived
// prices, and per-item check results.
package models

import "errors"

// WatchedItem is a named good with a target price the user wants to be
// alerted about. Name doubles as the marketplace search query. Items are
// immutable for the duration of a run.
type WatchedItem struct {
	Name        string  `mapstructure:"name" json:"name"`
	TargetPrice float64 `mapstructure:"target_price" json:"target_price"`
	CheckSold   bool    `mapstructure:"check_sold" json:"check_sold"`
}

// Validate checks watched item field constraints.
func (w *WatchedItem) Validate() error {
	if w.Name == "" {
		return errors.New("item name must not be empty")
	}
	if w.TargetPrice <= 0 {
		return errors.New("target price must be positive")
	}
	return nil
}
