package content

import (
	"slices"
)

// unorderedRank is used for posts without a manual order.
const unorderedRank = 9999

// SortByDate returns posts newest first. Posts with equal (or missing)
// dates keep their relative order.
func SortByDate(posts Posts) Posts {
	out := slices.Clone(posts)
	slices.SortStableFunc(out, compareDateDesc)
	return out
}

// SortByOrder returns posts sorted by the manual order reported by order
// (ascending, missing last), then by date descending.
func SortByOrder(posts Posts, order func(Post) *int) Posts {
	out := slices.Clone(posts)
	slices.SortStableFunc(out, func(a, b Post) int {
		ra, rb := rank(order(a)), rank(order(b))
		if ra != rb {
			return ra - rb
		}
		return compareDateDesc(a, b)
	})
	return out
}

func compareDateDesc(a, b Post) int {
	return b.Date.Compare(a.Date)
}

func rank(value *int) int {
	if value == nil {
		return unorderedRank
	}
	return *value
}

// MostReadOrder reads the most-read manual order.
func MostReadOrder(p Post) *int { return p.MostReadOrder }

// EditorPickOrder reads the editor pick manual order.
func EditorPickOrder(p Post) *int { return p.EditorPickOrder }
