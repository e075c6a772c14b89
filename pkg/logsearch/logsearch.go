// Package logsearch reads logs of runs from Elasticsearch.
//
// Log entries are documents shipped by fluentd's kubernetes metadata plugin:
//
//	{"@timestamp": "...", "log": "...", "kubernetes": {"pod_name": "...", "namespace_name": "...", "labels": {"runName": "..."}}}
package logsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	xe "github.com/nauta/nauta-gui/pkg/errors"
	"github.com/nauta/nauta-gui/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// NoData is the result of LastLogs when no logs are found.
	NoData = "No data"

	// ExportBatchSize is the number of entries per scroll in Export.
	ExportBatchSize = 20

	scrollKeepAlive = 30 * time.Second
)

// Error is an error response from Elasticsearch.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("elasticsearch: status %d: %s", e.StatusCode, e.Body)
}

// Searcher reads logs of runs.
type Searcher interface {
	// LastLogs returns the latest n entries of the run, joined with sep.
	//
	// Entries are sorted in lexicographical order, so in time order.
	// If there are no entries, it returns NoData, not an empty string.
	// Clients show the text as it is, so an empty page would look broken.
	LastLogs(ctx context.Context, run, owner string, n int, sep string) (string, error)

	// Export reads all entries of the run in time order, and passes them to emit per batch.
	//
	// When emit returns an error, Export stops and returns it.
	Export(ctx context.Context, run, owner string, emit func(lines []string) error) error
}

type searcher struct {
	es *elasticsearch.Client
}

// New creates Searcher connecting to Elasticsearch at url.
//
// transport can be nil to use the default.
func New(url string, transport http.RoundTripper) (Searcher, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Transport: transport,
	})
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return &searcher{es: es}, nil
}

// LuceneQuery is the query string finding log entries of the run owned by the owner.
func LuceneQuery(run, owner string) string {
	return fmt.Sprintf(
		`kubernetes.labels.runName.keyword:"%s" AND kubernetes.namespace_name.keyword:"%s"`,
		run, owner,
	)
}

// Entry is a log entry document.
type Entry struct {
	Timestamp  string `json:"@timestamp"`
	Log        string `json:"log"`
	Kubernetes struct {
		PodName string `json:"pod_name"`
	} `json:"kubernetes"`
}

// Line formats the entry as "<timestamp> <pod name> <log>".
func (e Entry) Line() string {
	return fmt.Sprintf("%s %s %s", e.Timestamp, e.Kubernetes.PodName, e.Log)
}

type total int

// UnmarshalJSON accepts both of `123` (Elasticsearch 6 and earlier)
// and `{"value": 123, "relation": "eq"}` (7 and later).
func (t *total) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*t = total(n)
		return nil
	}
	var obj struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*t = total(obj.Value)
	return nil
}

type searchResult struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Total total `json:"total"`
		Hits  []struct {
			Source Entry `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (r *searchResult) lines() []string {
	lines := make([]string, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		lines = append(lines, h.Source.Line())
	}
	return lines
}

func decode(resp *esapi.Response, err error) (*searchResult, error) {
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	result := new(searchResult)
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *searcher) search(ctx context.Context, run, owner string, size int, sort string, scroll bool) (*searchResult, error) {
	opts := []func(*esapi.SearchRequest){
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex("_all"),
		s.es.Search.WithQuery(LuceneQuery(run, owner)),
		s.es.Search.WithSort(sort),
		s.es.Search.WithSize(size),
		s.es.Search.WithTrackTotalHits(true),
	}
	if scroll {
		opts = append(opts, s.es.Search.WithScroll(scrollKeepAlive))
	}
	return decode(s.es.Search(opts...))
}

func (s *searcher) LastLogs(ctx context.Context, run, owner string, n int, sep string) (_ string, err error) {
	ctx, span := tracing.StartSpan(
		ctx, "logsearch.last",
		attribute.String("nauta.run", run), attribute.Int("logsearch.size", n),
	)
	defer func() { tracing.End(span, err) }()

	result, err := s.search(ctx, run, owner, n, "@timestamp:desc", false)
	if err != nil {
		return "", xe.Wrap(err)
	}
	if len(result.Hits.Hits) == 0 {
		return NoData, nil
	}
	lines := result.lines()
	slices.Sort(lines)
	return strings.Join(lines, sep), nil
}

func (s *searcher) Export(ctx context.Context, run, owner string, emit func([]string) error) (err error) {
	ctx, span := tracing.StartSpan(ctx, "logsearch.export", attribute.String("nauta.run", run))
	defer func() { tracing.End(span, err) }()

	result, err := s.search(ctx, run, owner, ExportBatchSize, "@timestamp:asc", true)
	if err != nil {
		return xe.Wrap(err)
	}

	scrollIDs := []string{}
	defer func() {
		if len(scrollIDs) == 0 {
			return
		}
		// the request context may be done already.
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		resp, cerr := s.es.ClearScroll(
			s.es.ClearScroll.WithContext(cctx),
			s.es.ClearScroll.WithScrollID(scrollIDs...),
		)
		if cerr == nil {
			resp.Body.Close()
		}
	}()

	count := 0
	for {
		if id := result.ScrollID; id != "" && !slices.Contains(scrollIDs, id) {
			scrollIDs = append(scrollIDs, id)
		}
		if len(result.Hits.Hits) == 0 {
			return nil
		}
		if err := emit(result.lines()); err != nil {
			return err
		}
		count += len(result.Hits.Hits)
		if int(result.Hits.Total) <= count || result.ScrollID == "" {
			return nil
		}

		result, err = decode(s.es.Scroll(
			s.es.Scroll.WithContext(ctx),
			s.es.Scroll.WithScrollID(result.ScrollID),
			s.es.Scroll.WithScroll(scrollKeepAlive),
		))
		if err != nil {
			return xe.Wrap(err)
		}
	}
}
