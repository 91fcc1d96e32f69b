package nav

import (
	"cmp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Row is an entry of a list view.
type Row interface {
	DisplayName() string
	IsDir() bool
	SizeBytes() int64
	Modified() time.Time
}

// SortField is the field a list is sorted on.
type SortField int

const (
	// SortDefault keeps the listing order.
	SortDefault SortField = iota
	SortName
	SortLastModified
	SortSize
)

// SortKey is a field and a direction.
type SortKey struct {
	Field SortField
	Desc  bool
}

func (k SortKey) String() string {
	var name string
	switch k.Field {
	case SortName:
		name = "name"
	case SortLastModified:
		name = "last modified"
	case SortSize:
		name = "size"
	default:
		return "default"
	}
	if k.Desc {
		return name + " (desc)"
	}
	return name + " (asc)"
}

// SortOptions returns the sort keys offered by a view kind.
func SortOptions(kind ViewKind) []SortKey {
	switch kind {
	case BucketList:
		return []SortKey{
			{Field: SortDefault},
			{Field: SortName}, {Field: SortName, Desc: true},
		}
	case ObjectList:
		return []SortKey{
			{Field: SortDefault},
			{Field: SortName}, {Field: SortName, Desc: true},
			{Field: SortLastModified}, {Field: SortLastModified, Desc: true},
			{Field: SortSize}, {Field: SortSize, Desc: true},
		}
	default:
		return nil
	}
}

// Match reports whether every character of filter appears in name, in order,
// ignoring case. Any substring of name matches.
func Match(name, filter string) bool {
	if filter == "" {
		return true
	}
	name = strings.ToLower(name)
	for _, r := range strings.ToLower(filter) {
		idx := strings.IndexRune(name, r)
		if idx == -1 {
			return false
		}
		name = name[idx+utf8.RuneLen(r):]
	}
	return true
}

// Arrange returns the indices of the rows matching filter, sorted by key.
// The sort is stable and directories always come first.
func Arrange[R Row](rows []R, filter string, key SortKey) []int {
	visible := make([]int, 0, len(rows))
	for i, r := range rows {
		if Match(r.DisplayName(), filter) {
			visible = append(visible, i)
		}
	}
	slices.SortStableFunc(visible, func(a, b int) int {
		return compareRows(rows[a], rows[b], key)
	})
	return visible
}

func compareRows(a, b Row, key SortKey) int {
	if a.IsDir() != b.IsDir() {
		if a.IsDir() {
			return -1
		}
		return 1
	}
	var c int
	switch key.Field {
	case SortName:
		c = strings.Compare(a.DisplayName(), b.DisplayName())
	case SortLastModified:
		c = a.Modified().Compare(b.Modified())
	case SortSize:
		c = cmp.Compare(a.SizeBytes(), b.SizeBytes())
	}
	if key.Desc {
		return -c
	}
	return c
}
