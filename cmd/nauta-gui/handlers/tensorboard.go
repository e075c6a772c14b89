package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	apierr "github.com/nauta/nauta-gui/pkg/api/types/errors"
	"github.com/nauta/nauta-gui/pkg/utils/echoutil"
)

// CreateTensorboardHandler forwards a request creating a TensorBoard instance
// to the tensorboard service.
//
// The request body should be {"items": [...]} with at least one item.
func CreateTensorboardHandler(client *http.Client, tensorboardURL string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
			return apierr.Unauthorized(msgMissingToken, nil)
		}

		req := c.Request()
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return apierr.BadRequest("", err)
		}
		payload := struct {
			Items []json.RawMessage `json:"items"`
		}{}
		if err := json.Unmarshal(body, &payload); err != nil || len(payload.Items) == 0 {
			return apierr.BadRequest("", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))

		dest, err := url.JoinPath(tensorboardURL, "tensorboard")
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return echoutil.Forward(c, client, dest)
	}
}

// TensorboardStatusHandler forwards a request for the status of a TensorBoard instance
// to the tensorboard service.
func TensorboardStatusHandler(client *http.Client, tensorboardURL string, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
			return apierr.Unauthorized(msgMissingToken, nil)
		}
		id := c.Param(paramId)
		if id == "" {
			return apierr.BadRequest("", nil)
		}
		dest, err := url.JoinPath(tensorboardURL, "tensorboard", id)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return echoutil.Forward(c, client, dest)
	}
}
