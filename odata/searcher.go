package odata

import (
	"context"

	"github.com/segmentio/ksuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/letmevibethatforyou/legcosearch"
)

// Searcher executes LegCo search requests against the OData endpoints.
type Searcher struct {
	client *Client
}

// NewSearcher creates a Searcher backed by the given client.
func NewSearcher(client *Client) *Searcher {
	return &Searcher{client: client}
}

// Search runs one request end to end: apply defaults, validate, compile,
// fetch, normalize. It returns either a complete SearchResult or exactly
// one typed error; validation failures never reach the network, and no
// partial results are returned. Safe for concurrent use.
func (s *Searcher) Search(ctx context.Context, req legcosearch.Request) (*legcosearch.SearchResult, error) {
	req = legcosearch.Normalize(req)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ep, q, err := legcosearch.Compile(req)
	if err != nil {
		return nil, err
	}

	requestID := ksuid.New().String()

	ctx, span := s.client.tracer.Start(ctx, "legco.search",
		trace.WithAttributes(
			attribute.String("legco.endpoint", string(ep.Name)),
			attribute.String("legco.format", string(q.Format)),
			attribute.Int("legco.top", q.Top),
			attribute.Int("legco.skip", q.Skip),
			attribute.String("legco.request_id", requestID),
		),
	)
	defer span.End()

	url := s.client.baseURL(ep) + "?" + q.Values().Encode()

	raw, err := s.client.fetch(ctx, url, q.Format)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream request failed")
		return nil, err
	}

	meta := legcosearch.Metadata{
		Endpoint:  ep.Name,
		RequestID: requestID,
		Params:    legcosearch.SemanticParams(req),
	}

	result, err := normalize(raw, q.Format, meta)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to normalize upstream reply")
		return nil, err
	}

	span.SetStatus(codes.Ok, "search completed")
	return result, nil
}
