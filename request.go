package legcosearch

import "time"

// Format selects the wire format of the upstream reply.
type Format string

const (
	// FormatJSON requests a JSON reply. This is the default.
	FormatJSON Format = "json"
	// FormatXML requests an Atom XML reply.
	FormatXML Format = "xml"
)

// Pagination and format defaults applied by Normalize.
const (
	// DefaultTop is the page size used when a request leaves Top zero.
	DefaultTop = 100
	// MaxTop is the largest page size the upstream accepts.
	MaxTop = 1000
)

// Allow-lists for enum-valued request fields.
var (
	// MeetingTypes lists the meeting types accepted by voting searches.
	MeetingTypes = []string{
		"Council Meeting",
		"House Committee",
		"Finance Committee",
		"Establishment Subcommittee",
		"Public Works Subcommittee",
	}

	// QuestionTypes lists the question kinds accepted by question searches.
	QuestionTypes = []string{"oral", "written"}

	// HansardTypes lists the Hansard sub-resources accepted by Hansard
	// searches.
	HansardTypes = []string{"hansard", "questions", "bills", "motions", "voting"}

	// HansardQuestionTypes lists the question kinds accepted by the Hansard
	// questions sub-resource.
	HansardQuestionTypes = []string{"Oral", "Written", "Urgent"}
)

// Request represents one search operation against the LegCo open data
// services. It is a closed union over the five operation kinds.
// All requests are plain values; zero-valued optional fields mean "absent".
type Request interface {
	// Validate checks the request and reports the first violation. It is
	// pure: no I/O happens during validation, and a request that fails
	// validation never reaches the network.
	Validate() error
	// request is a marker method to close the union.
	request()
}

// baseRequest provides the request marker method for all request types.
type baseRequest struct{}

func (baseRequest) request() {}

// Page holds the pagination and format fields shared by every OData-backed
// request.
type Page struct {
	// Top is the number of records to return, 1 to 1000. Zero means the
	// default of 100.
	Top int
	// Skip is the number of records to skip. Must be non-negative.
	Skip int
	// Format is the requested reply format. Empty means json.
	Format Format
}

// withDefaults returns a copy of p with zero values replaced by defaults.
func (p Page) withDefaults() Page {
	if p.Top == 0 {
		p.Top = DefaultTop
	}
	if p.Format == "" {
		p.Format = FormatJSON
	}
	return p
}

// validate checks the pagination and format fields.
func (p Page) validate() error {
	if p.Top < 1 || p.Top > MaxTop {
		return NewRangeError("top", p.Top, 1, MaxTop)
	}
	if p.Skip < 0 {
		return NewRangeError("skip", p.Skip, 0, 0)
	}
	if p.Format != FormatJSON && p.Format != FormatXML {
		return NewFormatError(string(p.Format))
	}
	return nil
}

// VotingRequest searches voting results from Council and committee
// meetings.
type VotingRequest struct {
	baseRequest
	// MeetingType filters by meeting kind. Must be one of MeetingTypes.
	MeetingType string
	// StartDate is the inclusive lower bound on the meeting date,
	// YYYY-MM-DD.
	StartDate string
	// EndDate is the inclusive upper bound on the meeting date, YYYY-MM-DD.
	EndDate string
	// MemberName matches member names by substring.
	MemberName string
	// MotionKeywords matches motion text by substring.
	MotionKeywords string
	// TermNo filters by Legislative Council term number. Zero means absent.
	TermNo int
	Page
}

// Validate implements the Request interface for VotingRequest.
func (r VotingRequest) Validate() error {
	if r.MeetingType != "" && !inList(r.MeetingType, MeetingTypes) {
		return NewEnumError("meeting_type", r.MeetingType, MeetingTypes)
	}
	if err := validateDate("start_date", r.StartDate); err != nil {
		return err
	}
	if err := validateDate("end_date", r.EndDate); err != nil {
		return err
	}
	if r.TermNo != 0 && r.TermNo < 1 {
		return NewRangeError("term_no", r.TermNo, 1, 0)
	}
	return r.Page.validate()
}

// BillsRequest searches bills introduced into the Council.
type BillsRequest struct {
	baseRequest
	// TitleKeywords matches English bill titles by substring.
	TitleKeywords string
	// GazetteYear filters by the year the bill was gazetted. Zero means
	// absent.
	GazetteYear int
	// GazetteStartDate is the inclusive lower bound on the gazette date,
	// YYYY-MM-DD.
	GazetteStartDate string
	// GazetteEndDate is the inclusive upper bound on the gazette date,
	// YYYY-MM-DD.
	GazetteEndDate string
	Page
}

// Validate implements the Request interface for BillsRequest.
func (r BillsRequest) Validate() error {
	if r.GazetteYear != 0 && (r.GazetteYear < 1800 || r.GazetteYear > 2100) {
		return NewRangeError("gazette_year", r.GazetteYear, 1800, 2100)
	}
	if err := validateDate("gazette_start_date", r.GazetteStartDate); err != nil {
		return err
	}
	if err := validateDate("gazette_end_date", r.GazetteEndDate); err != nil {
		return err
	}
	return r.Page.validate()
}

// QuestionsRequest searches questions raised at Council meetings.
type QuestionsRequest struct {
	baseRequest
	// QuestionType selects the oral or written questions collection. Empty
	// means oral.
	QuestionType string
	// SubjectKeywords matches question subjects by substring.
	SubjectKeywords string
	// MemberName matches the asking member's name by substring.
	MemberName string
	// MeetingDate filters by the exact meeting date, YYYY-MM-DD.
	MeetingDate string
	// Year filters by meeting year. Zero means absent.
	Year int
	Page
}

// Validate implements the Request interface for QuestionsRequest.
func (r QuestionsRequest) Validate() error {
	if !inList(r.QuestionType, QuestionTypes) {
		return NewEnumError("question_type", r.QuestionType, QuestionTypes)
	}
	if err := validateDate("meeting_date", r.MeetingDate); err != nil {
		return err
	}
	if err := validateYear("year", r.Year); err != nil {
		return err
	}
	return r.Page.validate()
}

// HansardRequest searches the official records of proceedings.
type HansardRequest struct {
	baseRequest
	// HansardType selects the Hansard sub-resource. Empty means the base
	// hansard collection.
	HansardType string
	// SubjectKeywords matches record subjects by substring.
	SubjectKeywords string
	// Speaker filters by exact speaker name.
	Speaker string
	// MeetingDate filters by the exact meeting date, YYYY-MM-DD.
	MeetingDate string
	// Year filters by meeting year. Zero means absent.
	Year int
	// QuestionType filters the questions sub-resource by question kind.
	// Must be one of HansardQuestionTypes when set.
	QuestionType string
	Page
}

// Validate implements the Request interface for HansardRequest.
func (r HansardRequest) Validate() error {
	if !inList(r.HansardType, HansardTypes) {
		return NewEnumError("hansard_type", r.HansardType, HansardTypes)
	}
	if err := validateDate("meeting_date", r.MeetingDate); err != nil {
		return err
	}
	if err := validateYear("year", r.Year); err != nil {
		return err
	}
	if r.QuestionType != "" && !inList(r.QuestionType, HansardQuestionTypes) {
		return NewEnumError("question_type", r.QuestionType, HansardQuestionTypes)
	}
	return r.Page.validate()
}

// MeetingSummaryRequest lists Council meeting summaries scraped from the
// LegCo website. It is not OData-backed and carries no pagination.
type MeetingSummaryRequest struct {
	baseRequest
	// Year keeps only meetings in the given year. Zero means absent.
	Year int
	// Date keeps only the meeting on the given date, YYYY-MM-DD.
	Date string
}

// Validate implements the Request interface for MeetingSummaryRequest.
func (r MeetingSummaryRequest) Validate() error {
	if err := validateYear("year", r.Year); err != nil {
		return err
	}
	return validateDate("date", r.Date)
}

// Normalize returns a copy of req with defaults applied: Top 100, Skip 0,
// Format json, question_type "oral" and hansard_type "hansard". Callers
// should normalize before validating so that zero-valued fields pass the
// range checks.
func Normalize(req Request) Request {
	switch r := req.(type) {
	case VotingRequest:
		r.Page = r.Page.withDefaults()
		return r
	case BillsRequest:
		r.Page = r.Page.withDefaults()
		return r
	case QuestionsRequest:
		if r.QuestionType == "" {
			r.QuestionType = "oral"
		}
		r.Page = r.Page.withDefaults()
		return r
	case HansardRequest:
		if r.HansardType == "" {
			r.HansardType = "hansard"
		}
		r.Page = r.Page.withDefaults()
		return r
	default:
		return req
	}
}

// inList reports whether value is an exact, case-sensitive member of
// allowed.
func inList(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// validateDate checks that value is a real calendar date in exactly
// YYYY-MM-DD form. Empty values pass; an absent date is not a violation.
func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil || t.Format("2006-01-02") != value {
		return NewDateError(field, value)
	}
	return nil
}

// validateYear checks an optional year field against the range the open
// data services cover. Zero passes.
func validateYear(field string, value int) error {
	if value != 0 && (value < 2000 || value > 2100) {
		return NewRangeError(field, value, 2000, 2100)
	}
	return nil
}
