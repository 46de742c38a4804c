package odata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/letmevibethatforyou/legcosearch"
)

// newStub starts a capturing stub server and returns it together with the
// captured request count and last query values.
func newStub(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int64, *atomic.Value) {
	t.Helper()

	var calls atomic.Int64
	var lastQuery atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		lastQuery.Store(r.URL.Query())
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv, &calls, &lastQuery
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestSearchSendsCompiledQuery(t *testing.T) {
	srv, calls, lastQuery := newStub(t, jsonHandler(`{"d": {"__count": "1", "results": []}}`))

	client := NewClient(WithBaseURL(legcosearch.EndpointVoting, srv.URL))
	searcher := NewSearcher(client)

	res, err := searcher.Search(context.Background(), legcosearch.VotingRequest{
		MeetingType: "Council Meeting",
		StartDate:   "2023-01-01",
		Page:        legcosearch.Page{Top: 10},
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if calls.Load() != 1 {
		t.Errorf("Expected 1 upstream call, got %d", calls.Load())
	}

	q := lastQuery.Load().(url.Values)
	expectedFilter := "type eq 'Council Meeting' and start_date ge datetime'2023-01-01'"
	if got := q.Get("$filter"); got != expectedFilter {
		t.Errorf("Expected filter %q, got %q", expectedFilter, got)
	}
	if q.Get("$top") != "10" {
		t.Errorf("Expected $top=10, got %q", q.Get("$top"))
	}
	if q.Get("$skip") != "0" {
		t.Errorf("Expected $skip=0, got %q", q.Get("$skip"))
	}
	if q.Get("$inlinecount") != "allpages" {
		t.Errorf("Expected $inlinecount=allpages, got %q", q.Get("$inlinecount"))
	}
	if q.Get("$format") != "" {
		t.Errorf("Expected no $format for JSON, got %q", q.Get("$format"))
	}

	if res.TotalRecords == nil || *res.TotalRecords != 1 {
		t.Errorf("Expected total 1, got %v", res.TotalRecords)
	}
	if res.Meta.Endpoint != legcosearch.EndpointVoting {
		t.Errorf("Expected endpoint voting, got %q", res.Meta.Endpoint)
	}
	if res.Meta.RequestID == "" {
		t.Error("Expected a request id in metadata")
	}
	if res.Meta.Params["meeting_type"] != "Council Meeting" {
		t.Errorf("Expected echoed meeting_type, got %v", res.Meta.Params)
	}
}

func TestSearchSendsHeaders(t *testing.T) {
	var gotAccept, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(legcosearch.EndpointBills, srv.URL))
	searcher := NewSearcher(client)

	if _, err := searcher.Search(context.Background(), legcosearch.BillsRequest{}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotAccept != "application/json" {
		t.Errorf("Expected Accept application/json, got %q", gotAccept)
	}
	if gotUA != "legcosearch/1.0" {
		t.Errorf("Expected identifying User-Agent, got %q", gotUA)
	}
}

func TestSearchXMLFormat(t *testing.T) {
	xmlBody := `<feed xmlns:m="urn"><m:count>42</m:count></feed>`
	srv, _, lastQuery := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(xmlBody))
	})

	client := NewClient(WithBaseURL(legcosearch.EndpointHansard, srv.URL))
	searcher := NewSearcher(client)

	res, err := searcher.Search(context.Background(), legcosearch.HansardRequest{
		Page: legcosearch.Page{Format: legcosearch.FormatXML},
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	q := lastQuery.Load().(url.Values)
	if q.Get("$format") != "xml" {
		t.Errorf("Expected $format=xml, got %q", q.Get("$format"))
	}

	if res.Raw != xmlBody {
		t.Errorf("Expected verbatim XML body, got %q", res.Raw)
	}
	if res.TotalRecords == nil || *res.TotalRecords != 42 {
		t.Errorf("Expected total 42, got %v", res.TotalRecords)
	}
}

func TestSearchValidationShortCircuits(t *testing.T) {
	srv, calls, _ := newStub(t, jsonHandler(`{}`))

	client := NewClient(WithBaseURL(legcosearch.EndpointVoting, srv.URL))
	searcher := NewSearcher(client)

	tests := []struct {
		name string
		req  legcosearch.Request
	}{
		{name: "top too large", req: legcosearch.VotingRequest{Page: legcosearch.Page{Top: 1001}}},
		{name: "negative skip", req: legcosearch.VotingRequest{Page: legcosearch.Page{Skip: -5}}},
		{name: "bad date", req: legcosearch.VotingRequest{StartDate: "2023-13-01"}},
		{name: "bad enum", req: legcosearch.VotingRequest{MeetingType: "Plenary"}},
		{name: "bad format", req: legcosearch.VotingRequest{Page: legcosearch.Page{Format: "csv"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := searcher.Search(context.Background(), tt.req)
			if !errors.Is(err, legcosearch.ErrValidation) {
				t.Fatalf("Expected ErrValidation, got %v", err)
			}
		})
	}

	if calls.Load() != 0 {
		t.Errorf("Expected no upstream calls for invalid input, got %d", calls.Load())
	}
}

func TestSearchHTTPStatusErrorNotRetried(t *testing.T) {
	srv, calls, _ := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("upstream exploded ", 50)))
	})

	client := NewClient(
		WithBaseURL(legcosearch.EndpointVoting, srv.URL),
		WithRetryInterval(time.Millisecond),
	)
	searcher := NewSearcher(client)

	_, err := searcher.Search(context.Background(), legcosearch.VotingRequest{})
	if !errors.Is(err, legcosearch.ErrHTTPStatus) {
		t.Fatalf("Expected ErrHTTPStatus, got %v", err)
	}

	var statusErr *legcosearch.HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected HTTPStatusError, got %v", err)
	}
	if statusErr.Status != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", statusErr.Status)
	}
	if len(statusErr.Body) > 200 {
		t.Errorf("Expected body excerpt <= 200 chars, got %d", len(statusErr.Body))
	}

	if calls.Load() != 1 {
		t.Errorf("Expected a non-2xx reply not to be retried, got %d calls", calls.Load())
	}
}

func TestSearchRetriesNetworkFailures(t *testing.T) {
	// A server that is immediately closed produces connection failures.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(
		WithBaseURL(legcosearch.EndpointVoting, srv.URL),
		WithMaxAttempts(2),
		WithRetryInterval(time.Millisecond),
	)
	searcher := NewSearcher(client)

	_, err := searcher.Search(context.Background(), legcosearch.VotingRequest{})
	if !errors.Is(err, legcosearch.ErrNetwork) {
		t.Fatalf("Expected ErrNetwork, got %v", err)
	}
}

func TestSearchRecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// Drop the first connection to simulate a transient failure.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("ResponseWriter does not support hijacking")
				return
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Errorf("Hijack failed: %v", err)
				return
			}
			conn.Close()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"d": {"results": []}}`))
	}))
	defer srv.Close()

	client := NewClient(
		WithBaseURL(legcosearch.EndpointBills, srv.URL),
		WithRetryInterval(time.Millisecond),
	)
	searcher := NewSearcher(client)

	res, err := searcher.Search(context.Background(), legcosearch.BillsRequest{})
	if err != nil {
		t.Fatalf("Expected retry to recover, got %v", err)
	}
	if res == nil {
		t.Fatal("Expected a result after recovery")
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", calls.Load())
	}
}

func TestSearchContextCancellation(t *testing.T) {
	srv, _, _ := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	})

	client := NewClient(WithBaseURL(legcosearch.EndpointVoting, srv.URL))
	searcher := NewSearcher(client)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := searcher.Search(ctx, legcosearch.VotingRequest{})
	if !errors.Is(err, legcosearch.ErrNetwork) {
		t.Fatalf("Expected ErrNetwork on cancellation, got %v", err)
	}
}

func TestSearchInvalidJSONBody(t *testing.T) {
	srv, _, _ := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("<html>surprise</html>"))
	})

	client := NewClient(WithBaseURL(legcosearch.EndpointQuestionsOral, srv.URL))
	searcher := NewSearcher(client)

	_, err := searcher.Search(context.Background(), legcosearch.QuestionsRequest{})
	if !errors.Is(err, legcosearch.ErrInvalidJSON) {
		t.Fatalf("Expected ErrInvalidJSON, got %v", err)
	}
}

func TestSearchConcurrentUse(t *testing.T) {
	srv, calls, _ := newStub(t, jsonHandler(`{"d": {"results": []}}`))

	client := NewClient(WithBaseURL(legcosearch.EndpointVoting, srv.URL))
	searcher := NewSearcher(client)

	const workers = 8
	done := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := searcher.Search(context.Background(), legcosearch.VotingRequest{})
			done <- err
		}()
	}
	for i := 0; i < workers; i++ {
		if err := <-done; err != nil {
			t.Errorf("Concurrent search failed: %v", err)
		}
	}
	if calls.Load() != workers {
		t.Errorf("Expected %d upstream calls, got %d", workers, calls.Load())
	}
}
