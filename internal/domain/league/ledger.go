package league

import "fmt"

// Category is a monetary line-item kind.
type Category string

// Cost categories recorded by the accountant.
const (
	CategoryFlight  Category = "flight"
	CategoryHotel   Category = "hotel"
	CategoryPerDiem Category = "per_diem"
)

// Categories lists every category in report order.
var Categories = []Category{CategoryFlight, CategoryHotel, CategoryPerDiem}

// Ledger maps (counterparty, category) to the ordered amounts recorded against it.
// A game keeps a Ledger[*Official] and an official keeps a Ledger[*Game]; Post and
// Unpost keep both sides mirrored.
type Ledger[K comparable] struct {
	entries map[K]map[Category][]int
	count   int
	total   int
}

// NewLedger creates an empty ledger.
func NewLedger[K comparable]() *Ledger[K] {
	return &Ledger[K]{entries: make(map[K]map[Category][]int)}
}

// Add appends an amount under (key, category).
func (l *Ledger[K]) Add(key K, cat Category, amount int) {
	byCat, ok := l.entries[key]
	if !ok {
		byCat = make(map[Category][]int)
		l.entries[key] = byCat
	}
	byCat[cat] = append(byCat[cat], amount)
	l.count++
	l.total += amount
}

// Remove deletes the most recent matching amount under (key, category).
func (l *Ledger[K]) Remove(key K, cat Category, amount int) error {
	byCat := l.entries[key]
	amounts := byCat[cat]
	for i := len(amounts) - 1; i >= 0; i-- {
		if amounts[i] != amount {
			continue
		}
		amounts = append(amounts[:i], amounts[i+1:]...)
		if len(amounts) == 0 {
			delete(byCat, cat)
		} else {
			byCat[cat] = amounts
		}
		if len(byCat) == 0 {
			delete(l.entries, key)
		}
		l.count--
		l.total -= amount
		return nil
	}
	return fmt.Errorf("%w: %v/%s amount %d", ErrLedgerEntryMissing, key, cat, amount)
}

// Amounts returns a copy of the amounts recorded under (key, category).
func (l *Ledger[K]) Amounts(key K, cat Category) []int {
	return append([]int(nil), l.entries[key][cat]...)
}

// TotalFor sums every amount recorded under key.
func (l *Ledger[K]) TotalFor(key K) int {
	sum := 0
	for _, amounts := range l.entries[key] {
		for _, a := range amounts {
			sum += a
		}
	}
	return sum
}

// CategoryTotal sums a category across all keys.
func (l *Ledger[K]) CategoryTotal(cat Category) int {
	sum := 0
	for _, byCat := range l.entries {
		for _, a := range byCat[cat] {
			sum += a
		}
	}
	return sum
}

// Keys returns the counterparties with at least one entry, in no particular order.
func (l *Ledger[K]) Keys() []K {
	keys := make([]K, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of recorded entries.
func (l *Ledger[K]) Len() int { return l.count }

// Total returns the sum of every recorded amount.
func (l *Ledger[K]) Total() int { return l.total }

// Post records an amount on both the game's and the official's ledger.
func Post(o *Official, g *Game, cat Category, amount int) {
	g.ledger.Add(o, cat, amount)
	o.ledger.Add(g, cat, amount)
}

// Unpost removes one matching entry pair from both ledgers.
func Unpost(o *Official, g *Game, cat Category, amount int) error {
	if err := g.ledger.Remove(o, cat, amount); err != nil {
		return fmt.Errorf("game %s: %w", g, err)
	}
	if err := o.ledger.Remove(g, cat, amount); err != nil {
		return fmt.Errorf("official %s: %w", o.ID, err)
	}
	return nil
}
