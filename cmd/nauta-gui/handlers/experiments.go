package handlers

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/labstack/echo/v4"
	apierr "github.com/nauta/nauta-gui/pkg/api/types/errors"
	apiexp "github.com/nauta/nauta-gui/pkg/api/types/experiments"
	"github.com/nauta/nauta-gui/pkg/datetime"
	"github.com/nauta/nauta-gui/pkg/experiments"
	k8s "github.com/nauta/nauta-gui/pkg/workloads/k8s"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// HeaderTimezoneOffset carries the timezone of the caller,
// in minutes of Date.getTimezoneOffset convention.
const HeaderTimezoneOffset = "timezone-offset"

// Wildcard in filter values means "no restriction".
const Wildcard = "*"

// ListExperimentsHandler serves a page of the experiment table.
//
// Query parameters:
//
// - limit, page: entities per page and the page number. 0 or missing means default.
//
// - orderBy, order: attribute name to sort by, and "asc" or "desc".
//
// - searchBy: free text to search.
//
// - names, states, namespaces, types: filter values (each can be repeated, also as "names[]").
// A single "*" means no restriction.
func ListExperimentsHandler(
	cluster k8s.Cluster,
	crd k8s.CustomResources,
	env datetime.Env,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, token, err := authenticate(c)
		if err != nil {
			return err
		}

		query, err := parseQuery(c)
		if err != nil {
			return err
		}

		client, err := cluster.ForToken(token)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		runs, exps, err := fetch(c.Request().Context(), client, crd)
		if err != nil {
			return apierr.Upstream(k8s.StatusOf(err), "kubernetes", err)
		}
		c.Logger().Debugf("%d runs and %d experiments are retrieved", len(runs.Items), len(exps.Items))

		runResources, err := experiments.DecodeRuns(runs)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		expResources, err := experiments.DecodeExperiments(exps)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		resp, err := experiments.Parse(env, runResources, expResources, query)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// fetch lists runs and experiments concurrently. Both of them should succeed.
func fetch(ctx context.Context, client k8s.Client, crd k8s.CustomResources) (runs, exps *unstructured.UnstructuredList, err error) {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		r, err := client.ListClusterCustomObjects(ctx, crd.Runs())
		runs = r
		return err
	})
	eg.Go(func() error {
		e, err := client.ListClusterCustomObjects(ctx, crd.Experiments())
		exps = e
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return runs, exps, nil
}

func parseQuery(c echo.Context) (experiments.Query, error) {
	q := experiments.Query{}

	limit, err := nonNegativeInt(c.QueryParam("limit"))
	if err != nil {
		return q, apierr.BadRequest(`"limit" should be a non-negative integer`, err)
	}
	page, err := nonNegativeInt(c.QueryParam("page"))
	if err != nil {
		return q, apierr.BadRequest(`"page" should be a non-negative integer`, err)
	}

	order := c.QueryParam("order")
	switch order {
	case "", experiments.OrderAsc, experiments.OrderDesc:
	default:
		return q, apierr.BadRequest(`"order" should be "asc" or "desc"`, nil)
	}

	q.Order = experiments.OrderParams{
		OrderBy:      c.QueryParam("orderBy"),
		Order:        order,
		LimitPerPage: limit,
		PageNo:       page,
	}

	q.Filter = experiments.FilterParams{
		Name:      restriction(c, "names"),
		Namespace: restriction(c, "namespaces"),
		State:     restriction(c, "states"),
		Type:      restriction(c, "types"),
		Search:    c.QueryParam("searchBy"),
	}

	if tz := c.Request().Header.Get(HeaderTimezoneOffset); tz != "" {
		offset, err := strconv.Atoi(tz)
		if err != nil {
			return q, apierr.BadRequest(`"timezone-offset" header should be an integer`, err)
		}
		q.Filter.TimezoneOffset = &offset
	}

	return q, nil
}

func nonNegativeInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, errors.New("negative")
	}
	return i, nil
}

// restriction reads filter values from query parameters "<key>[]" and "<key>".
func restriction(c echo.Context, key string) experiments.Restriction {
	qp := c.QueryParams()
	values := slices.Concat(qp[key+"[]"], qp[key])
	if len(values) == 0 || (len(values) == 1 && values[0] == Wildcard) {
		return experiments.Unrestricted()
	}
	return experiments.Restricted(values...)
}

// ExperimentResourcesHandler serves pods of an experiment with their resources and states.
func ExperimentResourcesHandler(cluster k8s.Cluster, paramExperiment string) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, token, err := authenticate(c)
		if err != nil {
			return err
		}

		experiment := c.Param(paramExperiment)
		if experiment == "" {
			return apierr.BadRequest("", nil)
		}

		client, err := cluster.ForToken(token)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		pods, err := client.FindPods(
			c.Request().Context(), "",
			k8s.MatchLabels(map[string]string{"runName": experiment}),
		)
		if err != nil {
			return apierr.Upstream(k8s.StatusOf(err), "kubernetes", err)
		}
		c.Logger().Infof("%d pods are found for %s", len(pods), experiment)

		return c.JSON(http.StatusOK, apiexp.ComposePodResources(pods))
	}
}
