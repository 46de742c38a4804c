package odata

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/letmevibethatforyou/legcosearch"
)

const maxJSONExcerpt = 100

// xmlCountPattern matches the inline count element of an Atom XML reply.
// A regex scan is deliberate: the count is the only value needed from the
// XML path, which is otherwise returned verbatim.
var xmlCountPattern = regexp.MustCompile(`<m:count>(\d+)</m:count>`)

// normalize converts a raw upstream reply into the uniform result
// envelope. The XML path keeps the body verbatim; the JSON path parses it.
// Payload fields are never rewritten, only wrapped with metadata.
func normalize(raw *rawResponse, format legcosearch.Format, meta legcosearch.Metadata) (*legcosearch.SearchResult, error) {
	if format == legcosearch.FormatXML {
		contentType := raw.contentType
		if contentType == "" {
			contentType = "application/xml"
		}
		return &legcosearch.SearchResult{
			Format:       legcosearch.FormatXML,
			Raw:          string(raw.body),
			ContentType:  contentType,
			TotalRecords: extractXMLCount(raw.body),
			Meta:         meta,
		}, nil
	}

	var data any
	if err := json.Unmarshal(raw.body, &data); err != nil {
		return nil, legcosearch.NewInvalidJSONError(excerpt(err.Error(), maxJSONExcerpt))
	}

	return &legcosearch.SearchResult{
		Format:       legcosearch.FormatJSON,
		Data:         data,
		ContentType:  raw.contentType,
		TotalRecords: extractJSONCount(data),
		Meta:         meta,
	}, nil
}

// extractXMLCount scans an XML body for the inline count. Absence is not
// an error; the reply simply declared no total.
func extractXMLCount(body []byte) *int64 {
	m := xmlCountPattern.FindSubmatch(body)
	if m == nil {
		return nil
	}
	n, err := strconv.ParseInt(string(m[1]), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// extractJSONCount reads the OData v2 inline count at d.__count. The
// upstream encodes it as a JSON string; a plain number is accepted too.
func extractJSONCount(data any) *int64 {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	d, ok := obj["d"].(map[string]any)
	if !ok {
		return nil
	}
	switch v := d["__count"].(type) {
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil
		}
		return &n
	case float64:
		n := int64(v)
		return &n
	default:
		return nil
	}
}
