// Package grouping arranges banknotes and collection items into category
// groups, optionally split into sultan subgroups, following the per-country
// display order tables.
package grouping

import (
	"context"
	"sort"
	"strings"

	"github.com/ottocollect/ottocollect/internal/logging"
)

// MaxSafeInteger is the order given to names missing from an order table, so
// they sort after every known name.
const MaxSafeInteger = 1<<53 - 1

const (
	DefaultCategory = "Uncategorized"
	DefaultSultan   = "Unknown"
)

// Groupable is implemented by anything that can be grouped.
type Groupable interface {
	GroupCategory() string
	GroupSultan() string
}

type Options struct {
	BySultan bool
	// CategoryOrder and SultanOrder map names to display order. Lookups are
	// case-insensitive.
	CategoryOrder map[string]int
	SultanOrder   map[string]int
	// Logger, when set, receives a debug summary of the grouping.
	Logger logging.Logger
}

type SultanGroup[T Groupable] struct {
	Sultan string `json:"sultan"`
	Items  []T    `json:"items"`
}

type CategoryGroup[T Groupable] struct {
	Category     string           `json:"category"`
	Items        []T              `json:"items"`
	SultanGroups []SultanGroup[T] `json:"sultanGroups,omitempty"`
}

// orderTable is an order map keyed by lower-cased name.
type orderTable map[string]int

func newOrderTable(m map[string]int) orderTable {
	t := make(orderTable, len(m))
	for name, order := range m {
		t[strings.ToLower(name)] = order
	}
	return t
}

func (t orderTable) of(name string) int {
	if o, ok := t[strings.ToLower(name)]; ok {
		return o
	}
	return MaxSafeInteger
}

// less orders by table position, then case-insensitively, then bytewise so
// the result is deterministic.
func (t orderTable) less(a, b string) bool {
	oa, ob := t.of(a), t.of(b)
	if oa != ob {
		return oa < ob
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

func nameOr(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}

// Group puts every item into exactly one category group, and into exactly one
// sultan subgroup when opts.BySultan is set. Items keep their input order
// within a group.
func Group[T Groupable](items []T, opts Options) []CategoryGroup[T] {
	categoryOrder := newOrderTable(opts.CategoryOrder)
	sultanOrder := newOrderTable(opts.SultanOrder)

	var groups []CategoryGroup[T]
	index := map[string]int{}
	for _, item := range items {
		name := nameOr(item.GroupCategory(), DefaultCategory)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CategoryGroup[T]{Category: name})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return categoryOrder.less(groups[i].Category, groups[j].Category)
	})

	if opts.BySultan {
		for i := range groups {
			groups[i].SultanGroups = groupBySultan(groups[i].Items, sultanOrder)
		}
	}

	if opts.Logger != nil {
		opts.Logger.Debug(context.Background(), "grouped items",
			"items", len(items), "categories", len(groups), "by_sultan", opts.BySultan)
	}

	return groups
}

func groupBySultan[T Groupable](items []T, order orderTable) []SultanGroup[T] {
	var groups []SultanGroup[T]
	index := map[string]int{}
	for _, item := range items {
		name := nameOr(item.GroupSultan(), DefaultSultan)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, SultanGroup[T]{Sultan: name})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return order.less(groups[i].Sultan, groups[j].Sultan)
	})
	return groups
}

// OrderMap builds a name to order map from any list of ordered definitions.
func OrderMap[D any](defs []D, name func(D) string, order func(D) int) map[string]int {
	m := make(map[string]int, len(defs))
	for _, d := range defs {
		m[name(d)] = order(d)
	}
	return m
}
