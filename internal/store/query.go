package store

import (
	"regexp"
	"sort"

	"github.com/iliyamo/hotel-management/internal/tenant"
)

// Query selects records of one collection.
type Query struct {
	// Where holds equality constraints on top-level fields.
	Where map[string]string
	// Tenant restricts the result to one hotel. Zero means all hotels.
	Tenant tenant.ID
	// Match is an optional predicate evaluated after Where and Tenant.
	Match func(Record) bool
}

// By builds a query with a single equality constraint.
func By(field string, value any) Query {
	return Query{Where: map[string]string{field: Canonical(value)}}
}

// Scoped returns a copy of q restricted to t.
func (q Query) Scoped(t tenant.ID) Query {
	q.Tenant = t
	return q
}

// Matches reports whether rec satisfies every constraint of q.
func (q Query) Matches(rec Record) bool {
	if !q.Tenant.IsZero() && Canonical(rec[tenant.Field]) != q.Tenant.String() {
		return false
	}
	for k, v := range q.Where {
		if Canonical(rec[k]) != v {
			return false
		}
	}
	if q.Match != nil && !q.Match(rec) {
		return false
	}
	return true
}

var fieldName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidField reports whether name can be used as a Where key.
func ValidField(name string) bool { return fieldName.MatchString(name) }

// fields returns the Where keys in a stable order.
func (q Query) fields() ([]string, error) {
	keys := make([]string, 0, len(q.Where))
	for k := range q.Where {
		if !ValidField(k) {
			return nil, ErrInvalidField
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
