package valueobject

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// MoneyBuckets accumulates amounts per currency. Values in different
// currencies are never summed together.
type MoneyBuckets map[Currency]decimal.Decimal

// NewMoneyBuckets returns empty buckets.
func NewMoneyBuckets() MoneyBuckets {
	return make(MoneyBuckets)
}

// Add accumulates m into its currency bucket.
func (b MoneyBuckets) Add(m Money) {
	b[m.currency] = b[m.currency].Add(m.amount)
}

// Touch makes sure a bucket exists for c, even if it stays at zero.
func (b MoneyBuckets) Touch(c Currency) {
	if _, ok := b[c]; !ok {
		b[c] = decimal.Zero
	}
}

// Merge adds every bucket of other into b.
func (b MoneyBuckets) Merge(other MoneyBuckets) {
	for c, amount := range other {
		b[c] = b[c].Add(amount)
	}
}

// Get returns the bucket for c as Money, zero if absent.
func (b MoneyBuckets) Get(c Currency) Money {
	return Money{amount: b[c], currency: c}
}

// Currencies returns the populated currencies in a stable order.
func (b MoneyBuckets) Currencies() []Currency {
	out := make([]Currency, 0, len(b))
	for c := range b {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal compares bucket contents by value.
func (b MoneyBuckets) Equal(other MoneyBuckets) bool {
	for c, amount := range b {
		if !amount.Equal(other[c]) {
			return false
		}
	}
	for c, amount := range other {
		if !amount.Equal(b[c]) {
			return false
		}
	}
	return true
}

// MarshalJSON renders {"PEN":"1000.00","USD":"0.00"}.
func (b MoneyBuckets) MarshalJSON() ([]byte, error) {
	out := make(map[Currency]string, len(b))
	for c, amount := range b {
		out[c] = amount.StringFixed(2)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the format written by MarshalJSON. Unsupported
// currencies are rejected.
func (b *MoneyBuckets) UnmarshalJSON(data []byte) error {
	var raw map[Currency]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(MoneyBuckets, len(raw))
	for c, s := range raw {
		if !c.IsValid() {
			return fmt.Errorf("unsupported currency %q", c)
		}
		amount, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("invalid amount for %s: %w", c, err)
		}
		out[c] = amount
	}
	*b = out
	return nil
}
