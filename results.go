package legcosearch

import "strconv"

// SearchResult is the uniform envelope returned by every OData-backed
// operation, regardless of the upstream reply format.
type SearchResult struct {
	// Format is the wire format the payload arrived in.
	Format Format `json:"format"`

	// Data holds the parsed JSON payload. Nil for XML results. The
	// normalizer never rewrites payload fields; it only wraps them.
	Data any `json:"data,omitempty"`

	// Raw holds the verbatim XML body. Empty for JSON results.
	Raw string `json:"raw,omitempty"`

	// ContentType is the Content-Type declared by the upstream reply.
	ContentType string `json:"content_type,omitempty"`

	// TotalRecords is the total matching record count declared by the
	// upstream inline count. Nil when the reply carries no count.
	TotalRecords *int64 `json:"total_records,omitempty"`

	// Meta echoes what was asked of which endpoint.
	Meta Metadata `json:"metadata"`
}

// Metadata describes the query that produced a SearchResult.
type Metadata struct {
	// Endpoint is the logical name of the upstream collection queried.
	Endpoint EndpointName `json:"endpoint"`

	// RequestID uniquely identifies this search call and is attached to
	// its trace span.
	RequestID string `json:"request_id"`

	// Params echoes the semantic (non-$) parameters that were applied,
	// as supplied by the caller before sanitization.
	Params map[string]string `json:"params,omitempty"`
}

// SemanticParams returns the semantic filter parameters a request carries,
// omitting pagination and format. Values are the caller's originals, for
// echoing in result metadata.
func SemanticParams(req Request) map[string]string {
	params := map[string]string{}
	setStr := func(k, v string) {
		if v != "" {
			params[k] = v
		}
	}
	setInt := func(k string, v int) {
		if v != 0 {
			params[k] = strconv.Itoa(v)
		}
	}

	switch r := req.(type) {
	case VotingRequest:
		setStr("meeting_type", r.MeetingType)
		setStr("start_date", r.StartDate)
		setStr("end_date", r.EndDate)
		setStr("member_name", r.MemberName)
		setStr("motion_keywords", r.MotionKeywords)
		setInt("term_no", r.TermNo)
	case BillsRequest:
		setStr("title_keywords", r.TitleKeywords)
		setInt("gazette_year", r.GazetteYear)
		setStr("gazette_start_date", r.GazetteStartDate)
		setStr("gazette_end_date", r.GazetteEndDate)
	case QuestionsRequest:
		setStr("question_type", r.QuestionType)
		setStr("subject_keywords", r.SubjectKeywords)
		setStr("member_name", r.MemberName)
		setStr("meeting_date", r.MeetingDate)
		setInt("year", r.Year)
	case HansardRequest:
		setStr("hansard_type", r.HansardType)
		setStr("subject_keywords", r.SubjectKeywords)
		setStr("speaker", r.Speaker)
		setStr("meeting_date", r.MeetingDate)
		setInt("year", r.Year)
		setStr("question_type", r.QuestionType)
	case MeetingSummaryRequest:
		setInt("year", r.Year)
		setStr("date", r.Date)
	}
	return params
}
