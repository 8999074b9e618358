// Package tagset implements tag membership as a fixed-width bitmask. Bit i
// set means "member of tag i".
package tagset

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxTags is the largest supported tag count.
const MaxTags = 31

// Mask is a set of tags.
type Mask uint32

// All selects every tag bit. It is masked down to the configured tag count
// by the consumer.
const All Mask = ^Mask(0)

// Validate reports whether n tags fit in a Mask.
func Validate(n int) error {
	if n <= 0 {
		return fmt.Errorf("at least one tag is required")
	}
	if n > MaxTags {
		return fmt.Errorf("%d tags configured, at most %d are supported", n, MaxTags)
	}
	return nil
}

// Full returns the mask with the low n bits set.
func Full(n int) Mask {
	if n <= 0 {
		return 0
	}
	if n >= 32 {
		return All
	}
	return Mask(1)<<uint(n) - 1
}

// Bit returns the mask for tag index i.
func Bit(i int) Mask {
	return Mask(1) << uint(i)
}

// Has reports whether m shares any tag with o.
func (m Mask) Has(o Mask) bool {
	return m&o != 0
}

// Count returns the number of tags in m.
func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// Indices returns the tag indices set in m, ascending.
func (m Mask) Indices() []int {
	out := make([]int, 0, m.Count())
	for i := 0; i < 32; i++ {
		if m&Bit(i) != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Shift rotates m by i positions within an n-tag ring. Positive i rotates
// towards higher tags.
func Shift(m Mask, i, n int) Mask {
	if n <= 0 {
		return 0
	}
	full := Full(n)
	m &= full
	i %= n
	if i < 0 {
		i += n
	}
	if i == 0 {
		return m
	}
	return (m<<uint(i) | m>>uint(n-i)) & full
}

// Visible reports whether a client with tags on monitor clientMon is shown on
// monitor mon when mon displays active.
func Visible[M comparable](clientMon, mon M, tags, active Mask) bool {
	return clientMon == mon && tags&active != 0
}

// Format renders m using the tag names, e.g. "1,3".
func Format(m Mask, names []string) string {
	parts := make([]string, 0, m.Count())
	for _, i := range m.Indices() {
		if i < len(names) {
			parts = append(parts, names[i])
		} else {
			parts = append(parts, fmt.Sprint(i+1))
		}
	}
	return strings.Join(parts, ",")
}
