package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nauta/nauta-gui/pkg/buildtime"
)

type VersionResponse struct {
	Version  string `json:"version"`
	Revision string `json:"revision"`
}

func VersionHandler() echo.HandlerFunc {
	resp := VersionResponse{
		Version:  buildtime.VERSION(),
		Revision: buildtime.GIT_REVISION(),
	}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, resp)
	}
}
