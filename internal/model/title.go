package model

// TitleEntry is one flat record of the CFR title registry
type TitleEntry struct {
	Number          int    `json:"number"`
	Name            string `json:"name"`
	Reserved        bool   `json:"reserved"`
	LatestAmendedOn string `json:"latest_amended_on,omitempty"` // YYYY-MM-DD
	LatestIssueDate string `json:"latest_issue_date,omitempty"` // YYYY-MM-DD
	UpToDateAsOf    string `json:"up_to_date_as_of,omitempty"`  // YYYY-MM-DD
}

// IssueDate returns the best available snapshot date for fetching the
// title's structure, falling back through the registry date fields.
func (t TitleEntry) IssueDate() string {
	if t.LatestIssueDate != "" {
		return t.LatestIssueDate
	}
	if t.UpToDateAsOf != "" {
		return t.UpToDateAsOf
	}
	return t.LatestAmendedOn
}
