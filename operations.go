package legcosearch

// Operation describes one registered search operation: its public name, a
// short description for tool listings, and a factory for its request type.
// Registration is a static table; there is no dynamic registration.
type Operation struct {
	// Name is the public operation name.
	Name string
	// Description summarizes the operation for a calling agent.
	Description string
	// NewRequest returns a zero-valued request of the operation's type.
	NewRequest func() Request
}

// Operations returns the registered operations in a fixed order.
func Operations() []Operation {
	return []Operation{
		{
			Name:        "search_voting_results",
			Description: "Search voting results from LegCo Council and committee meetings.",
			NewRequest:  func() Request { return VotingRequest{} },
		},
		{
			Name:        "search_bills",
			Description: "Search bills from the LegCo bills database.",
			NewRequest:  func() Request { return BillsRequest{} },
		},
		{
			Name:        "search_questions",
			Description: "Search oral and written questions raised at Council meetings.",
			NewRequest:  func() Request { return QuestionsRequest{} },
		},
		{
			Name:        "search_hansard",
			Description: "Search the Hansard official records of proceedings.",
			NewRequest:  func() Request { return HansardRequest{} },
		},
		{
			Name:        "search_meeting_summaries",
			Description: "Scrape Council meeting summaries (dates, agendas, links) from the LegCo website.",
			NewRequest:  func() Request { return MeetingSummaryRequest{} },
		},
	}
}
