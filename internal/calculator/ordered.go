package calculator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/payshare/backend/internal/money"
)

// Entry is one participant's balance.
type Entry struct {
	Name   string
	Amount money.Cents
}

// Balances maps participant names to signed balances and remembers the order
// in which names were first added. Settlement pairing depends on that order,
// so it survives JSON round trips as well.
//
// The zero value and a nil *Balances are both empty and ready to read.
type Balances struct {
	names  []string
	values map[string]money.Cents
}

// NewBalances returns a Balances holding entries in the given order.
func NewBalances(entries ...Entry) *Balances {
	b := &Balances{values: make(map[string]money.Cents, len(entries))}
	for _, e := range entries {
		b.Set(e.Name, e.Amount)
	}
	return b
}

// Set stores amount for name. A new name is appended; an existing one keeps its position.
func (b *Balances) Set(name string, amount money.Cents) {
	if b.values == nil {
		b.values = make(map[string]money.Cents)
	}
	if _, ok := b.values[name]; !ok {
		b.names = append(b.names, name)
	}
	b.values[name] = amount
}

// Get returns the balance for name.
func (b *Balances) Get(name string) (money.Cents, bool) {
	if b == nil {
		return 0, false
	}
	amount, ok := b.values[name]
	return amount, ok
}

// Len returns the number of participants.
func (b *Balances) Len() int {
	if b == nil {
		return 0
	}
	return len(b.names)
}

// Names returns participant names in insertion order.
func (b *Balances) Names() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.names...)
}

// All iterates over participants in insertion order.
func (b *Balances) All() iter.Seq2[string, money.Cents] {
	return func(yield func(string, money.Cents) bool) {
		if b == nil {
			return
		}
		for _, name := range b.names {
			if !yield(name, b.values[name]) {
				return
			}
		}
	}
}

// Entries returns a copy of the balances as an ordered slice.
func (b *Balances) Entries() []Entry {
	entries := make([]Entry, 0, b.Len())
	for name, amount := range b.All() {
		entries = append(entries, Entry{Name: name, Amount: amount})
	}
	return entries
}

// Sum returns the total of all balances. For balances derived from
// consistent expenses it is zero up to per-participant rounding.
func (b *Balances) Sum() money.Cents {
	var total money.Cents
	for _, amount := range b.All() {
		total += amount
	}
	return total
}

// MarshalJSON encodes the balances as a JSON object with keys in insertion order.
func (b *Balances) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for name, amount := range b.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(amount.String())
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the document.
func (b *Balances) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read balances: %w", err)
	}
	if tok == nil {
		*b = Balances{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("balances must be a JSON object, got %v", tok)
	}

	out := NewBalances()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read balance name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("balance name must be a string, got %v", tok)
		}
		var amount money.Cents
		if err := dec.Decode(&amount); err != nil {
			return fmt.Errorf("failed to read balance for %q: %w", name, err)
		}
		out.Set(name, amount)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read end of balances: %w", err)
	}

	*b = *out
	return nil
}
