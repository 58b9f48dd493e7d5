package simulated

import "votedesk/internal/ledger"

// Canned catalog served in dummy mode. Times are epoch seconds in 2025.
func defaultElections() []ledger.Election {
	return []ledger.Election{
		{ID: 1, Name: "General Election 2025", StartTime: 1740787200, EndTime: 1741392000},
		{ID: 2, Name: "Municipal Council Election", StartTime: 1746057600, EndTime: 1746662400},
		{ID: 3, Name: "Student Union Referendum", StartTime: 1756684800, EndTime: 1756771200},
	}
}

func defaultCandidates() []ledger.Candidate {
	return []ledger.Candidate{
		{ID: 1, ElectionID: 1, Name: "Asha Raman", Info: "Civic Alliance"},
		{ID: 2, ElectionID: 1, Name: "Daniel Okafor", Info: "Progress Party"},
		{ID: 3, ElectionID: 1, Name: "Mei Lin", Info: "Independent"},
		{ID: 1, ElectionID: 2, Name: "Jonas Berg", Info: "Residents First"},
		{ID: 2, ElectionID: 2, Name: "Priya Nair", Info: "Green Streets"},
		{ID: 1, ElectionID: 3, Name: "Yes", Info: "Adopt the revised charter"},
		{ID: 2, ElectionID: 3, Name: "No", Info: "Keep the current charter"},
	}
}
