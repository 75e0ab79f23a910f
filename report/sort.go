// ABOUTME: Stable sorting and page slicing for tabular views
// ABOUTME: Numbers compare numerically, everything else with an English collator
package report

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultPageSize applies when a page size of zero or less is requested.
const DefaultPageSize = 10

// ParseDirection accepts "asc" or "desc" and defaults to ascending.
func ParseDirection(s string) Direction {
	if Direction(s) == Desc {
		return Desc
	}
	return Asc
}

// Sortable exposes column values by field name.
type Sortable interface {
	SortValue(field string) any
}

// SortState tracks the active column of a table.
type SortState struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Toggle flips the direction when field is already active and otherwise
// switches to field ascending.
func (s SortState) Toggle(field string) SortState {
	if s.Field == field {
		if s.Direction == Asc {
			return SortState{Field: field, Direction: Desc}
		}
		return SortState{Field: field, Direction: Asc}
	}
	return SortState{Field: field, Direction: Asc}
}

// Compare returns a negative, zero or positive number. Two numeric values
// compare by difference; any other pair compares as strings.
func Compare(a, b any) int {
	return compareWith(collate.New(language.English), a, b)
}

func compareWith(c *collate.Collator, a, b any) int {
	x, aok := number(a)
	y, bok := number(b)
	if aok && bok {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return c.CompareString(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Sort returns a stably sorted copy of records. Ties keep their input order
// in both directions.
func Sort[T Sortable](records []T, field string, dir Direction) []T {
	out := make([]T, len(records))
	copy(out, records)
	if field == "" {
		return out
	}

	// A Collator is not safe for concurrent use; each sort owns one.
	c := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := compareWith(c, out[i].SortValue(field), out[j].SortValue(field))
		if dir == Desc {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

// Paginate slices records into the requested page. The page is clamped to
// [1, TotalPages] and TotalPages is never less than one.
func Paginate[T any](records []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	items := make([]T, end-start)
	copy(items, records[start:end])

	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Total:      total,
	}
}

func SortAndPage[T Sortable](records []T, field string, dir Direction, page, pageSize int) Page[T] {
	return Paginate(Sort(records, field, dir), page, pageSize)
}
