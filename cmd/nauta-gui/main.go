package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nauta/nauta-gui/pkg/buildtime"
	kcf "github.com/nauta/nauta-gui/pkg/configs/frontend"
	"github.com/nauta/nauta-gui/pkg/datetime"
	"github.com/nauta/nauta-gui/pkg/logsearch"
	"github.com/nauta/nauta-gui/pkg/tracing"
	"github.com/nauta/nauta-gui/pkg/utils/filewatch"
	"github.com/nauta/nauta-gui/pkg/utils/kubeutil"
	k8s "github.com/nauta/nauta-gui/pkg/workloads/k8s"
)

const ENV_CONFIG = "NAUTA_GUI_CONFIG"

func main() {
	configPath := flag.String("config-path", os.Getenv(ENV_CONFIG), "config file path. (env: "+ENV_CONFIG+")")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pversion := flag.Bool("version", false, "show version and exit")
	flag.Parse()

	if *pversion {
		log.Println(buildtime.VersionString())
		return
	}

	conf, err := kcf.Unmarshal(nil)
	if *configPath != "" {
		conf, err = kcf.LoadFrontendConfig(*configPath)
	}
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	loc, err := conf.Location()
	if err != nil {
		log.Fatalf("unknown timezone: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, "nauta-gui", buildtime.VERSION(), tracing.Config{
		Exporter: conf.Tracing.Exporter,
		Endpoint: conf.Tracing.Endpoint,
	})
	if err != nil {
		log.Fatalf("can not start tracing: %s", err)
	}
	defer func() {
		graceful, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(graceful); err != nil {
			log.Printf("error on flushing traces: %s", err)
		}
	}()

	restConfig, err := kubeutil.LoadConfig(conf.Kubernetes.Kubeconfig)
	if err != nil {
		log.Fatalf("can not connect to kubernetes: %s", err)
	}

	searcher, err := logsearch.New(conf.Elasticsearch.URL, nil)
	if err != nil {
		log.Fatalf("can not connect to elasticsearch: %s", err)
	}

	e := BuildServer(
		Services{
			Cluster: k8s.NewCluster(restConfig),
			CustomObjects: k8s.CustomResources{
				Group:   conf.Kubernetes.APIGroup,
				Version: conf.Kubernetes.Version,
			},
			Logs:        searcher,
			Tensorboard: conf.Tensorboard.URL,
			HTTPClient:  &http.Client{Timeout: 30 * time.Second},
			Env:         datetime.System(loc),
		},
		*loglevel,
	)

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	if *configPath != "" {
		watchCtx, cancel, err := filewatch.UntilModifyContext(ctx, *configPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		ctx = watchCtx
	}

	go func() {
		<-ctx.Done()
		if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
			log.Printf("%s. quit to restart server.", cause)
		}
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			log.Printf("error on shutdown: %s", err)
		}
	}()

	if err := e.Start(":" + conf.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}
