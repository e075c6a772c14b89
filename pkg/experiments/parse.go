package experiments

import (
	"github.com/nauta/nauta-gui/pkg/datetime"
	xe "github.com/nauta/nauta-gui/pkg/errors"
)

// Query is a request for a listing of experiments.
type Query struct {
	Filter FilterParams
	Order  OrderParams
}

type Stats struct {
	// Total is the number of all entities, before filtering.
	Total int `json:"total"`

	// Datetime is when the response is made, in unix epoch milliseconds.
	Datetime int64 `json:"datetime"`

	FilteredDataCount int `json:"filteredDataCount"`
	A                 int `json:"a"`
	B                 int `json:"b"`
	TotalPagesCount   int `json:"totalPagesCount"`
	PageNumber        int `json:"pageNumber"`
}

type FilterColumnValues struct {
	Options Options `json:"options"`
	Current Current `json:"current"`
}

// Response is a page of the experiment table.
type Response struct {
	Stats              Stats              `json:"stats"`
	FilterColumnValues FilterColumnValues `json:"filterColumnValues"`

	// Params are attribute names found in Data.
	//
	// Metrics which only entities on other pages have are not listed.
	Params []string `json:"params"`

	Data []Entity `json:"data"`
}

// Parse builds entities from runs and experiments,
// then filters, sorts and paginates them.
//
// Attributes are discovered on the page, not on all entities.
// So Params of a page can lack metric columns existing on other pages.
func Parse(env datetime.Env, runs []RunResource, experiments []ExperimentResource, q Query) (Response, error) {
	entities, err := Build(env, runs, experiments)
	if err != nil {
		return Response{}, xe.Wrap(err)
	}

	filtered := Filter(env, entities, q.Filter)
	page := Paginate(filtered.Data, q.Order)

	return Response{
		Stats: Stats{
			Total:             len(entities),
			Datetime:          env.NowMillis(),
			FilteredDataCount: len(filtered.Data),
			A:                 page.A,
			B:                 page.B,
			TotalPagesCount:   page.TotalPagesCount,
			PageNumber:        page.PageNumber,
		},
		FilterColumnValues: FilterColumnValues{
			Options: filtered.Options,
			Current: filtered.Current,
		},
		Params: DiscoverAttributes(page.Data),
		Data:   page.Data,
	}, nil
}
