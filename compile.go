package legcosearch

import "github.com/cockroachdb/errors"

// hansardLocalePin is always appended on the Hansard questions
// sub-resource; only English-language records carry the fields the
// compiler targets.
var hansardLocalePin = Clause{Field: "HansardType", Expr: "HansardType eq 'English'"}

// Compile translates a validated request into the endpoint it addresses
// and the OData query options to send. Clause order is fixed per endpoint
// so compiled filters are deterministic. Callers must run Normalize and
// Validate first; Compile performs no validation of its own beyond the
// endpoint resolution.
func Compile(req Request) (Endpoint, QueryOptions, error) {
	switch r := req.(type) {
	case VotingRequest:
		return compileVoting(r)
	case BillsRequest:
		return compileBills(r)
	case QuestionsRequest:
		return compileQuestions(r)
	case HansardRequest:
		return compileHansard(r)
	case MeetingSummaryRequest:
		return Endpoint{}, QueryOptions{}, errors.Mark(
			errors.New("meeting summaries are not an OData operation"), ErrUnknownEndpoint)
	default:
		return Endpoint{}, QueryOptions{}, errors.AssertionFailedf("unhandled request type %T", req)
	}
}

func compileVoting(r VotingRequest) (Endpoint, QueryOptions, error) {
	ep, err := LookupEndpoint(EndpointVoting)
	if err != nil {
		return Endpoint{}, QueryOptions{}, err
	}
	var filter []Clause
	if r.MeetingType != "" {
		filter = append(filter, eqString("type", Sanitize(r.MeetingType)))
	}
	if r.StartDate != "" {
		filter = append(filter, geDatetime("start_date", r.StartDate))
	}
	if r.EndDate != "" {
		filter = append(filter, leDatetime("start_date", r.EndDate))
	}
	if r.MemberName != "" {
		filter = append(filter, substringOf(Sanitize(r.MemberName), "name_en"))
	}
	if r.MotionKeywords != "" {
		filter = append(filter, substringOf(Sanitize(r.MotionKeywords), "motion_en"))
	}
	if r.TermNo != 0 {
		filter = append(filter, eqInt("term_no", r.TermNo))
	}
	return finishCompile(ep, r.Page, filter)
}

func compileBills(r BillsRequest) (Endpoint, QueryOptions, error) {
	ep, err := LookupEndpoint(EndpointBills)
	if err != nil {
		return Endpoint{}, QueryOptions{}, err
	}
	var filter []Clause
	if r.TitleKeywords != "" {
		filter = append(filter, substringOf(Sanitize(r.TitleKeywords), "bill_title_eng"))
	}
	if r.GazetteYear != 0 {
		filter = append(filter, eqYear("bill_gazette_date", r.GazetteYear))
	}
	if r.GazetteStartDate != "" {
		filter = append(filter, geDatetime("bill_gazette_date", r.GazetteStartDate))
	}
	if r.GazetteEndDate != "" {
		filter = append(filter, leDatetime("bill_gazette_date", r.GazetteEndDate))
	}
	return finishCompile(ep, r.Page, filter)
}

func compileQuestions(r QuestionsRequest) (Endpoint, QueryOptions, error) {
	name := EndpointQuestionsOral
	if r.QuestionType == "written" {
		name = EndpointQuestionsWritten
	}
	ep, err := LookupEndpoint(name)
	if err != nil {
		return Endpoint{}, QueryOptions{}, err
	}
	var filter []Clause
	if r.SubjectKeywords != "" {
		filter = append(filter, substringOf(Sanitize(r.SubjectKeywords), "SubjectName"))
	}
	if r.MemberName != "" {
		filter = append(filter, substringOf(Sanitize(r.MemberName), "MemberName"))
	}
	if r.MeetingDate != "" {
		filter = append(filter, eqDatetime("MeetingDate", r.MeetingDate))
	}
	if r.Year != 0 {
		filter = append(filter, eqYear("MeetingDate", r.Year))
	}
	return finishCompile(ep, r.Page, filter)
}

func compileHansard(r HansardRequest) (Endpoint, QueryOptions, error) {
	name, ok := hansardEndpoints[r.HansardType]
	if !ok {
		return Endpoint{}, QueryOptions{}, errors.Mark(
			errors.Newf("unknown hansard sub-type: %q", r.HansardType), ErrUnknownEndpoint)
	}
	ep, err := LookupEndpoint(name)
	if err != nil {
		return Endpoint{}, QueryOptions{}, err
	}
	var filter []Clause
	if r.SubjectKeywords != "" {
		filter = append(filter, substringOf(Sanitize(r.SubjectKeywords), "Subject"))
	}
	if r.Speaker != "" {
		// Speaker is an exact match, unlike the substring keyword fields.
		filter = append(filter, eqString("Speaker", Sanitize(r.Speaker)))
	}
	if r.MeetingDate != "" {
		filter = append(filter, eqDatetime("MeetingDate", r.MeetingDate))
	}
	if r.Year != 0 {
		filter = append(filter, eqYear("MeetingDate", r.Year))
	}
	if ep.Name == EndpointHansardQuestions {
		if r.QuestionType != "" {
			filter = append(filter, eqString("QuestionType", Sanitize(r.QuestionType)))
		}
		filter = append(filter, hansardLocalePin)
	}
	return finishCompile(ep, r.Page, filter)
}

// finishCompile checks the compiled clauses against the endpoint's accepted
// field set and assembles the query options. A clause referencing a field
// outside the set is a compiler bug, not caller input.
func finishCompile(ep Endpoint, p Page, filter []Clause) (Endpoint, QueryOptions, error) {
	for _, c := range filter {
		if !ep.AcceptsField(c.Field) {
			return Endpoint{}, QueryOptions{}, errors.AssertionFailedf(
				"clause field %q not accepted by endpoint %q", c.Field, ep.Name)
		}
	}
	return ep, QueryOptions{
		Filter:      filter,
		Top:         p.Top,
		Skip:        p.Skip,
		Format:      p.Format,
		InlineCount: "allpages",
	}, nil
}
