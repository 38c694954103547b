// Package session persists per-conversation state: the rolling message
// buffer shown to the LLM and the search context the refinement engine
// merges new turns into.
package session

import (
	"strings"
	"time"

	"ecommerce-chatbot-be/pkg/catalog"
)

// Exchange is one user/bot turn pair.
type Exchange struct {
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
	Intent    string    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Context is the retrieval state carried between turns of one session.
type Context struct {
	// LastResults holds the most recent reply's products, capped at the
	// reply size. Ordinal references ("the second one") resolve against it.
	LastResults []catalog.Product `json:"last_results"`

	// Baseline is the widest result set seen for the current product need.
	// It only ever grows within a refinement thread and backs the
	// in-memory fallback when a narrowed query returns nothing.
	Baseline []catalog.Product `json:"baseline"`

	// LastQuery is the free-text query of the previous search turn.
	LastQuery string `json:"last_query"`

	// ActiveFilters are the constraints accumulated across refinement
	// turns.
	ActiveFilters catalog.Filters `json:"active_filters"`
}

// UpdateBaseline grows the baseline when the candidate set is strictly
// larger. A refinement that narrows results never shrinks the pool later
// turns fall back on.
func (c *Context) UpdateBaseline(candidates []catalog.Product) {
	if len(candidates) > len(c.Baseline) {
		c.Baseline = candidates
	}
}

// SharedBrand returns the brand common to all last results, if there are
// at least min of them and they agree.
func (c *Context) SharedBrand(min int) (string, bool) {
	if len(c.LastResults) < min {
		return "", false
	}
	brand := c.LastResults[0].Brand
	if brand == "" {
		return "", false
	}
	for _, p := range c.LastResults[1:] {
		if !strings.EqualFold(p.Brand, brand) {
			return "", false
		}
	}
	return brand, true
}

// MinPrice returns the lowest price among the last results.
func (c *Context) MinPrice() (float64, bool) {
	if len(c.LastResults) == 0 {
		return 0, false
	}
	min := c.LastResults[0].Price
	for _, p := range c.LastResults[1:] {
		if p.Price < min {
			min = p.Price
		}
	}
	return min, true
}

// MaxRating returns the highest rating among the last results.
func (c *Context) MaxRating() (float64, bool) {
	if len(c.LastResults) == 0 {
		return 0, false
	}
	max := c.LastResults[0].Rating
	for _, p := range c.LastResults[1:] {
		if p.Rating > max {
			max = p.Rating
		}
	}
	return max, true
}
