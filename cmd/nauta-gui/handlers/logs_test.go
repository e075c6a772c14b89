package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	handlers "github.com/nauta/nauta-gui/cmd/nauta-gui/handlers"
	httptestutil "github.com/nauta/nauta-gui/internal/testutils/http"
	"github.com/nauta/nauta-gui/pkg/logsearch/mock"
)

func TestLastLogsHandler(t *testing.T) {
	type When struct {
		mode   string
		number string
	}
	type Then struct {
		sep string
		n   int
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			searcher := mock.New()
			searcher.Impl.LastLogs = func(ctx context.Context, run, owner string, n int, sep string) (string, error) {
				return "line1" + sep + "line2", nil
			}

			e := echo.New()
			c, resp := httptestutil.Get(e, "/api/experiments/logs/user-a/mnist-1/"+when.mode+"/"+when.number)
			c.SetParamNames("owner", "experiment", "mode", "number")
			c.SetParamValues("user-a", "mnist-1", when.mode, when.number)

			testee := handlers.LastLogsHandler(searcher, "owner", "experiment", "mode", "number")
			if err := testee(c); err != nil {
				t.Fatal(err)
			}

			if got := resp.Body.String(); got != "line1"+then.sep+"line2" {
				t.Errorf("unexpected body: %q", got)
			}
			if len(searcher.Calls.LastLogs) != 1 {
				t.Fatalf("unexpected calls: %v", searcher.Calls.LastLogs)
			}
			call := searcher.Calls.LastLogs[0]
			if call.Run != "mnist-1" || call.Owner != "user-a" || call.N != then.n || call.Sep != then.sep {
				t.Errorf("unexpected call: %+v", call)
			}
		}
	}

	t.Run("show mode", theory(When{mode: "show", number: "100"}, Then{sep: "<br/>", n: 100}))
	t.Run("download mode", theory(When{mode: "download", number: "5"}, Then{sep: "\n", n: 5}))

	for name, number := range map[string]string{
		"zero":     "0",
		"negative": "-3",
		"not int":  "all",
	} {
		t.Run("it rejects "+name+" number", func(t *testing.T) {
			searcher := mock.New()
			e := echo.New()
			c, _ := httptestutil.Get(e, "/api/experiments/logs/user-a/mnist-1/show/"+number)
			c.SetParamNames("owner", "experiment", "mode", "number")
			c.SetParamValues("user-a", "mnist-1", "show", number)

			err := handlers.LastLogsHandler(searcher, "owner", "experiment", "mode", "number")(c)
			assertHTTPError(t, err, http.StatusBadRequest)
			if len(searcher.Calls.LastLogs) != 0 {
				t.Errorf("searcher is called")
			}
		})
	}

	t.Run("it fails when search fails", func(t *testing.T) {
		searcher := mock.New()
		searcher.Impl.LastLogs = func(ctx context.Context, run, owner string, n int, sep string) (string, error) {
			return "", errors.New("connection refused")
		}
		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/experiments/logs/user-a/mnist-1/show/10")
		c.SetParamNames("owner", "experiment", "mode", "number")
		c.SetParamValues("user-a", "mnist-1", "show", "10")

		err := handlers.LastLogsHandler(searcher, "owner", "experiment", "mode", "number")(c)
		assertHTTPError(t, err, http.StatusInternalServerError)
	})
}

func TestExportLogsHandler(t *testing.T) {
	request := func() (echo.Context, interface{ String() string }, func() int) {
		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/experiments/logs/user-a/mnist-1")
		c.SetParamNames("owner", "experiment")
		c.SetParamValues("user-a", "mnist-1")
		return c, resp.Body, func() int { return resp.Code }
	}

	t.Run("it streams all batches", func(t *testing.T) {
		searcher := mock.New()
		searcher.Impl.Export = func(ctx context.Context, run, owner string, emit func([]string) error) error {
			if err := emit([]string{"a\n", "b\n"}); err != nil {
				return err
			}
			return emit([]string{"c\n"})
		}
		c, body, code := request()

		if err := handlers.ExportLogsHandler(searcher, "owner", "experiment")(c); err != nil {
			t.Fatal(err)
		}
		if code() != http.StatusOK {
			t.Errorf("unexpected status: %d", code())
		}
		if got := body.String(); got != "a\nb\nc\n" {
			t.Errorf("unexpected body: %q", got)
		}
		if ct := c.Response().Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("unexpected content type: %s", ct)
		}
		if call := searcher.Calls.Export[0]; call.Run != "mnist-1" || call.Owner != "user-a" {
			t.Errorf("unexpected call: %+v", call)
		}
	})

	t.Run("no logs make an empty response", func(t *testing.T) {
		searcher := mock.New()
		searcher.Impl.Export = func(ctx context.Context, run, owner string, emit func([]string) error) error {
			return nil
		}
		c, body, code := request()

		if err := handlers.ExportLogsHandler(searcher, "owner", "experiment")(c); err != nil {
			t.Fatal(err)
		}
		if code() != http.StatusOK || body.String() != "" {
			t.Errorf("unexpected response: %d %q", code(), body.String())
		}
	})

	t.Run("failure before the first batch is an error response", func(t *testing.T) {
		searcher := mock.New()
		searcher.Impl.Export = func(ctx context.Context, run, owner string, emit func([]string) error) error {
			return errors.New("no shards available")
		}
		c, _, _ := request()

		err := handlers.ExportLogsHandler(searcher, "owner", "experiment")(c)
		assertHTTPError(t, err, http.StatusInternalServerError)
	})

	t.Run("failure after the first batch ends the stream", func(t *testing.T) {
		searcher := mock.New()
		searcher.Impl.Export = func(ctx context.Context, run, owner string, emit func([]string) error) error {
			if err := emit([]string{"a\n"}); err != nil {
				return err
			}
			return errors.New("scroll context is lost")
		}
		c, body, code := request()

		if err := handlers.ExportLogsHandler(searcher, "owner", "experiment")(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if code() != http.StatusOK || body.String() != "a\n" {
			t.Errorf("unexpected response: %d %q", code(), body.String())
		}
	})
}
