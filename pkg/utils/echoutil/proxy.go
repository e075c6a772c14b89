package echoutil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// hop-by-hop headers. They are not forwarded.
var hopByHop = []string{
	"Connection", "Keep-Alive", "Proxy-Authenticate", "Proxy-Authorization",
	"Te", "Trailer", "Transfer-Encoding", "Upgrade", "Host",
}

// Forward sends the request of c to dest, and writes its response back to c.
//
// Request headers, body and trailers are forwarded as they are.
// When dest cannot be reached, it returns *echo.HTTPError with 500 Internal Server Error.
func Forward(c echo.Context, client *http.Client, dest string) error {
	resp, err := CopyRequest(c.Request().Context(), client, dest, c.Request())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "upstream is not available").SetInternal(err)
	}
	defer resp.Body.Close()

	return CopyResponse(c, resp)
}

// CopyHeader adds headers in src to dest, except ones named in except (case insensitive).
func CopyHeader(dest http.Header, src http.Header, except ...string) {
	exc := map[string]struct{}{}
	for _, x := range except {
		exc[strings.ToLower(x)] = struct{}{}
	}

	for k, vs := range src {
		if _, ok := exc[strings.ToLower(k)]; ok {
			continue
		}
		for _, v := range vs {
			dest.Add(k, v)
		}
	}
}

// CopyRequest sends a copy of src to dest.
//
// Trailers of src are sent after its body is read out.
func CopyRequest(ctx context.Context, client *http.Client, dest string, src *http.Request) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var body io.Reader = http.NoBody
	var hook *endHook
	if src.Body != nil && src.Body != http.NoBody {
		hook = newEndHook(src.Body)
		body = hook
	}

	req, err := http.NewRequestWithContext(ctx, src.Method, dest, body)
	if err != nil {
		return nil, err
	}
	req.ContentLength = src.ContentLength

	CopyHeader(req.Header, src.Header, hopByHop...)
	if hook != nil && src.Trailer != nil {
		req.Trailer = http.Header{}
		for tr := range src.Trailer {
			req.Trailer[tr] = nil
		}
		hook.OnEnd(func() {
			for k, vs := range src.Trailer {
				req.Trailer[k] = vs
			}
		})
	}

	return client.Do(req)
}

// CopyResponse writes resp to the response of c.
//
// Chunked responses are flushed for each read.
func CopyResponse(c echo.Context, resp *http.Response) error {
	ctx := c.Request().Context()

	dstResp := c.Response()
	dstHeader := dstResp.Header()
	CopyHeader(dstHeader, resp.Header, hopByHop...)

	chunked := false
	for _, te := range resp.TransferEncoding {
		if strings.EqualFold(te, "chunked") {
			chunked = true
		}
	}
	for trailer := range resp.Trailer {
		dstHeader.Add("Trailer", trailer)
	}

	dstResp.WriteHeader(resp.StatusCode)

	src := newEndHook(resp.Body)
	src.OnEnd(func() {
		trailer := dstResp.Header()
		for k, vs := range resp.Trailer {
			for _, v := range vs {
				trailer.Add(k, v)
			}
		}
	})
	if !chunked {
		_, err := io.Copy(dstResp.Writer, src)
		return err
	}

	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dstResp.Write(buf[:n]); werr != nil {
				return werr
			}
			dstResp.Flush()
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
