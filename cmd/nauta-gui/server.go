package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nauta/nauta-gui/cmd/nauta-gui/handlers"
	"github.com/nauta/nauta-gui/pkg/datetime"
	"github.com/nauta/nauta-gui/pkg/logsearch"
	"github.com/nauta/nauta-gui/pkg/tracing"
	"github.com/nauta/nauta-gui/pkg/utils/echoutil"
	k8s "github.com/nauta/nauta-gui/pkg/workloads/k8s"
	"github.com/rs/xid"
)

var API_ROOT = "/api"

func api(subpath string) string {
	if !strings.HasSuffix(subpath, "/") {
		subpath += "/"
	}
	return fmt.Sprintf("%s/%s", API_ROOT, subpath)
}

// Services are upstreams of the server.
type Services struct {
	Cluster       k8s.Cluster
	CustomObjects k8s.CustomResources
	Logs          logsearch.Searcher

	// Tensorboard is the root URL of the tensorboard service.
	Tensorboard string

	// HTTPClient is used to forward requests to the tensorboard service.
	HTTPClient *http.Client

	Env datetime.Env
}

func BuildServer(svc Services, loglevel string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	echoutil.SetLevel(e, loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}

	e.Pre(middleware.AddTrailingSlash())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return xid.New().String() },
	}))
	e.Use(middleware.Recover())
	e.Use(echoutil.LogHandlerFunc)
	e.Use(tracing.Middleware)

	e.POST(api("auth/verify"), handlers.VerifyTokenHandler())

	e.GET(api("experiments/list"), handlers.ListExperimentsHandler(
		svc.Cluster, svc.CustomObjects, svc.Env,
	))
	e.GET(api("experiments/:experiment/resources"), handlers.ExperimentResourcesHandler(
		svc.Cluster, "experiment",
	))
	e.GET(api("experiments/logs/:owner/:experiment/:mode/:number"), handlers.LastLogsHandler(
		svc.Logs, "owner", "experiment", "mode", "number",
	))
	e.GET(api("experiments/logs/:owner/:experiment"), handlers.ExportLogsHandler(
		svc.Logs, "owner", "experiment",
	))

	e.POST(api("tensorboard/create"), handlers.CreateTensorboardHandler(svc.HTTPClient, svc.Tensorboard))
	e.GET(api("tensorboard/status/:id"), handlers.TensorboardStatusHandler(svc.HTTPClient, svc.Tensorboard, "id"))

	e.GET(api("version"), handlers.VersionHandler())

	return e
}
