package cache

import "strings"

const separator = "/"

// Key identifies one cached query. It is an ordered list of segments joined
// with "/"; invalidation matches on whole-segment prefixes.
type Key string

// NewKey builds a key from its segments. Empty segments are dropped.
func NewKey(segments ...string) Key {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return Key(strings.Join(parts, separator))
}

// Segments returns the ordered parts of the key
func (k Key) Segments() []string {
	if k == "" {
		return nil
	}
	return strings.Split(string(k), separator)
}

// HasPrefix reports whether prefix matches k on segment boundaries
func (k Key) HasPrefix(prefix Key) bool {
	if prefix == "" || k == prefix {
		return true
	}
	return strings.HasPrefix(string(k), string(prefix)+separator)
}

func (k Key) String() string {
	return string(k)
}

// Keys of the back-office queries
func InvestorsKey() Key {
	return NewKey("investors")
}

func InvestorKey(id string) Key {
	return NewKey("investor", id)
}

func AgentsKey(investorId string) Key {
	return NewKey("agents", investorId)
}

// InvestmentsKey returns the global list key when investorId is empty and the
// per-investor key otherwise. Both live under the "investments" prefix.
func InvestmentsKey(investorId string) Key {
	return NewKey("investments", investorId)
}

// FilteredInvestmentsKey nests a date-filtered list under the key of the
// unfiltered one, so invalidating the list also invalidates its filtered views
func FilteredInvestmentsKey(investorId, filterType, start, end string) Key {
	return NewKey(InvestmentsKey(investorId).String(), "filter", filterType, start, end)
}

func DashboardKey() Key {
	return NewKey("dashboard")
}
