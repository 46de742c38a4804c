package legcosearch

import "github.com/cockroachdb/errors"

// EndpointName identifies one upstream OData collection.
type EndpointName string

// The registered upstream collections.
const (
	EndpointVoting           EndpointName = "voting"
	EndpointBills            EndpointName = "bills"
	EndpointQuestionsOral    EndpointName = "questions_oral"
	EndpointQuestionsWritten EndpointName = "questions_written"
	EndpointHansard          EndpointName = "hansard"
	EndpointHansardQuestions EndpointName = "hansard_questions"
	EndpointHansardBills     EndpointName = "hansard_bills"
	EndpointHansardMotions   EndpointName = "hansard_motions"
	EndpointHansardVoting    EndpointName = "hansard_voting"
)

// Endpoint describes one upstream OData collection: its logical name, base
// URL and the filter fields the compiler may reference. Descriptors are
// read-only for the process lifetime.
type Endpoint struct {
	Name    EndpointName
	BaseURL string
	Fields  []string
}

// AcceptsField reports whether the endpoint accepts filter clauses on the
// given upstream field.
func (e Endpoint) AcceptsField(field string) bool {
	return inList(field, e.Fields)
}

// endpoints is the static registry of upstream collections. The base URLs
// are the fixed, versionless OData roots published by LegCo.
var endpoints = map[EndpointName]Endpoint{
	EndpointVoting: {
		Name:    EndpointVoting,
		BaseURL: "https://app.legco.gov.hk/vrdb/odata/vVotingResult",
		Fields:  []string{"type", "start_date", "name_en", "motion_en", "term_no"},
	},
	EndpointBills: {
		Name:    EndpointBills,
		BaseURL: "https://app.legco.gov.hk/BillsDB/odata/Vbills",
		Fields:  []string{"bill_title_eng", "bill_gazette_date"},
	},
	EndpointQuestionsOral: {
		Name:    EndpointQuestionsOral,
		BaseURL: "https://app.legco.gov.hk/QuestionsDB/odata/ViewOralQuestionsEng",
		Fields:  []string{"SubjectName", "MemberName", "MeetingDate"},
	},
	EndpointQuestionsWritten: {
		Name:    EndpointQuestionsWritten,
		BaseURL: "https://app.legco.gov.hk/QuestionsDB/odata/ViewWrittenQuestionsEng",
		Fields:  []string{"SubjectName", "MemberName", "MeetingDate"},
	},
	EndpointHansard: {
		Name:    EndpointHansard,
		BaseURL: "https://app.legco.gov.hk/OpenData/HansardDB/Hansard",
		Fields:  []string{"Subject", "Speaker", "MeetingDate"},
	},
	EndpointHansardQuestions: {
		Name:    EndpointHansardQuestions,
		BaseURL: "https://app.legco.gov.hk/OpenData/HansardDB/Questions",
		Fields:  []string{"Subject", "Speaker", "MeetingDate", "QuestionType", "HansardType"},
	},
	EndpointHansardBills: {
		Name:    EndpointHansardBills,
		BaseURL: "https://app.legco.gov.hk/OpenData/HansardDB/Bills",
		Fields:  []string{"Subject", "Speaker", "MeetingDate"},
	},
	EndpointHansardMotions: {
		Name:    EndpointHansardMotions,
		BaseURL: "https://app.legco.gov.hk/OpenData/HansardDB/Motions",
		Fields:  []string{"Subject", "Speaker", "MeetingDate"},
	},
	EndpointHansardVoting: {
		Name:    EndpointHansardVoting,
		BaseURL: "https://app.legco.gov.hk/OpenData/HansardDB/VotingResults",
		Fields:  []string{"Subject", "Speaker", "MeetingDate"},
	},
}

// hansardEndpoints maps the hansard_type request field to the sub-resource
// it addresses. Sub-types outside this map are rejected, never defaulted.
var hansardEndpoints = map[string]EndpointName{
	"hansard":   EndpointHansard,
	"questions": EndpointHansardQuestions,
	"bills":     EndpointHansardBills,
	"motions":   EndpointHansardMotions,
	"voting":    EndpointHansardVoting,
}

// LookupEndpoint resolves a logical endpoint name to its descriptor. An
// unregistered name is internal misconfiguration and yields
// ErrUnknownEndpoint.
func LookupEndpoint(name EndpointName) (Endpoint, error) {
	ep, ok := endpoints[name]
	if !ok {
		return Endpoint{}, errors.Mark(errors.Newf("unknown endpoint: %q", name), ErrUnknownEndpoint)
	}
	return ep, nil
}

// Endpoints returns the descriptors of all registered endpoints. The slice
// is a copy; mutating it does not affect the registry.
func Endpoints() []Endpoint {
	out := make([]Endpoint, 0, len(endpoints))
	for _, name := range []EndpointName{
		EndpointVoting, EndpointBills, EndpointQuestionsOral,
		EndpointQuestionsWritten, EndpointHansard, EndpointHansardQuestions,
		EndpointHansardBills, EndpointHansardMotions, EndpointHansardVoting,
	} {
		out = append(out, endpoints[name])
	}
	return out
}
