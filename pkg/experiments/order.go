package experiments

import (
	"cmp"
	"slices"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// OrderParams are sorting and paging conditions.
type OrderParams struct {
	// OrderBy is an attribute name. Empty means "as is".
	OrderBy string

	// Order is OrderAsc or OrderDesc. Others are treated as OrderAsc.
	Order string

	// LimitPerPage is the number of entities in a page. 0 means "all in one page".
	LimitPerPage int

	// PageNo is 1-based. 0 means the first page.
	PageNo int
}

// Page is a slice of sorted entities.
type Page struct {
	Data []Entity

	// A is the 1-based index of the first entity in the page, or 0 if the page is empty.
	A int

	// B is the 1-based index of the last entity in the page.
	B int

	TotalPagesCount int

	// PageNumber is the page which Data belongs to.
	PageNumber int
}

// Paginate sorts entities stably and takes a page.
//
// Entities without the attribute come last in ascending order, and first in descending order.
// A page number beyond the last page is clamped to the last page.
func Paginate(entities []Entity, params OrderParams) Page {
	limit := params.LimitPerPage
	if limit <= 0 {
		limit = max(len(entities), 1)
	}
	pageNo := params.PageNo
	if pageNo <= 0 {
		pageNo = 1
	}

	sorted := slices.Clone(entities)
	if params.OrderBy != "" {
		desc := params.Order == OrderDesc
		slices.SortStableFunc(sorted, func(a, b Entity) int {
			c := compareAttribute(a, b, params.OrderBy)
			if desc {
				return -c
			}
			return c
		})
	}

	totalPages := (len(entities) + limit - 1) / limit
	pageNumber := min(pageNo, totalPages)
	p := max(pageNumber, 1)

	a0 := (p - 1) * limit
	b0 := min(p*limit, len(sorted))
	data := []Entity{}
	if a0 < b0 {
		data = sorted[a0:b0]
	}

	a := 0
	if len(data) != 0 {
		a = a0 + 1
	}

	return Page{
		Data:            data,
		A:               a,
		B:               b0,
		TotalPagesCount: totalPages,
		PageNumber:      pageNumber,
	}
}

// compareAttribute compares attributes in ascending order.
//
// Missing attributes and empty strings are greater than anything.
func compareAttribute(a, b Entity, name string) int {
	va, oka := sortKey(a, name)
	vb, okb := sortKey(b, name)
	switch {
	case !oka && !okb:
		return 0
	case !oka:
		return 1
	case !okb:
		return -1
	}

	na, aIsNum := va.(int64)
	nb, bIsNum := vb.(int64)
	if aIsNum && bIsNum {
		return cmp.Compare(na, nb)
	}
	return cmp.Compare(stringify(va), stringify(vb))
}

func sortKey(e Entity, name string) (any, bool) {
	v, ok := e.Attribute(name)
	if !ok {
		return nil, false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return nil, false
	}
	return v, true
}
