package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	apierr "github.com/nauta/nauta-gui/pkg/api/types/errors"
	"github.com/nauta/nauta-gui/pkg/logsearch"
)

// ModeShow is the mode of LastLogsHandler for rendering logs in HTML.
const ModeShow = "show"

// LastLogsHandler serves the latest log entries of an experiment.
//
// In ModeShow, entries are separated with "<br/>". In other modes, with "\n".
func LastLogsHandler(
	searcher logsearch.Searcher,
	paramOwner, paramExperiment, paramMode, paramNumber string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner := c.Param(paramOwner)
		experiment := c.Param(paramExperiment)
		mode := c.Param(paramMode)
		if owner == "" || experiment == "" || mode == "" {
			return apierr.BadRequest("", nil)
		}
		n, err := strconv.Atoi(c.Param(paramNumber))
		if err != nil || n <= 0 {
			return apierr.BadRequest(`number of lines should be a positive integer`, err)
		}

		sep := "\n"
		if mode == ModeShow {
			sep = "<br/>"
		}

		logs, err := searcher.LastLogs(c.Request().Context(), experiment, owner, n, sep)
		if err != nil {
			return apierr.Upstream(0, "elasticsearch", err)
		}
		return c.String(http.StatusOK, logs)
	}
}

// ExportLogsHandler streams all log entries of an experiment as text/plain.
//
// Once the response is started, errors end the stream and they are only logged.
func ExportLogsHandler(searcher logsearch.Searcher, paramOwner, paramExperiment string) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner := c.Param(paramOwner)
		experiment := c.Param(paramExperiment)
		if owner == "" || experiment == "" {
			return apierr.BadRequest("", nil)
		}

		resp := c.Response()
		begin := func() {
			if resp.Committed {
				return
			}
			resp.Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
			resp.WriteHeader(http.StatusOK)
		}

		err := searcher.Export(c.Request().Context(), experiment, owner, func(lines []string) error {
			begin()
			for _, l := range lines {
				if _, err := io.WriteString(resp, l); err != nil {
					return err
				}
			}
			resp.Flush()
			return nil
		})
		if err != nil {
			if !resp.Committed {
				return apierr.Upstream(0, "elasticsearch", err)
			}
			c.Logger().Errorf("log export of %s/%s is interrupted: %s", owner, experiment, err)
			return nil
		}

		begin()
		return nil
	}
}
