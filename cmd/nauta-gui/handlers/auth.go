package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/nauta/nauta-gui/pkg/api/types/errors"
	"github.com/nauta/nauta-gui/pkg/auth"
)

const (
	msgMissingToken = "Missing authorization token"
	msgInvalidToken = "Invalid token"
)

// authenticate reads the token of the caller from the Authorization header.
func authenticate(c echo.Context) (auth.User, string, error) {
	token := auth.FromHeader(c.Request().Header)
	user, err := auth.Decode(token)
	if err != nil {
		if errors.Is(err, auth.ErrMissingToken) {
			return auth.User{}, "", apierr.Unauthorized(msgMissingToken, nil)
		}
		return auth.User{}, "", apierr.Unauthorized(msgInvalidToken, err)
	}
	return user, token, nil
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

type VerifyTokenResponse struct {
	Decoded struct {
		Username string `json:"username"`
	} `json:"decoded"`
}

// VerifyTokenHandler tells the user name of the token in the request body.
func VerifyTokenHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		req := VerifyTokenRequest{}
		if err := c.Bind(&req); err != nil {
			return apierr.BadRequest("", err)
		}
		if req.Token == "" {
			return apierr.BadRequest(msgMissingToken, nil)
		}

		user, err := auth.Decode(req.Token)
		if err != nil {
			return apierr.Unauthorized(msgInvalidToken, err)
		}
		c.Logger().Infof("token of %s is decoded", user.Name)

		resp := VerifyTokenResponse{}
		resp.Decoded.Username = user.Name
		return c.JSON(http.StatusOK, resp)
	}
}
