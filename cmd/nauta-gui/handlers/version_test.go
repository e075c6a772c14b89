package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	handlers "github.com/nauta/nauta-gui/cmd/nauta-gui/handlers"
	httptestutil "github.com/nauta/nauta-gui/internal/testutils/http"
	"github.com/nauta/nauta-gui/pkg/buildtime"
)

func TestVersionHandler(t *testing.T) {
	e := echo.New()
	c, resp := httptestutil.Get(e, "/api/version")

	if err := handlers.VersionHandler()(c); err != nil {
		t.Fatal(err)
	}
	if resp.Code != http.StatusOK {
		t.Errorf("unexpected status: %d", resp.Code)
	}
	got := handlers.VersionResponse{}
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Version != buildtime.VERSION() || got.Revision != buildtime.GIT_REVISION() {
		t.Errorf("unexpected version: %+v", got)
	}
}
