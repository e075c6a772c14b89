package handlers_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/nauta/nauta-gui/pkg/auth"
	"github.com/nauta/nauta-gui/pkg/datetime"
	"github.com/nauta/nauta-gui/pkg/utils/try"
)

var fixedNow = time.Date(2018, 8, 24, 7, 0, 0, 0, time.UTC)

var testEnv = datetime.Fixed(fixedNow, time.UTC)

// tokenFor makes a service account token of the user.
func tokenFor(t *testing.T, user string) string {
	t.Helper()
	return try.To(
		jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"iss":               "kubernetes/serviceaccount",
			auth.NamespaceClaim: user,
		}).SignedString([]byte("test-key")),
	).OrFatal(t)
}

// assertHTTPError checks err is *echo.HTTPError with the code.
func assertHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	var herr *echo.HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("error is not *echo.HTTPError: %v (%T)", err, err)
	}
	if herr.Code != code {
		t.Errorf("unexpected status code: %d (want %d): %v", herr.Code, code, herr)
	}
	return herr
}
