package domain

import "time"

// IssueCategories is the allowed category set for user-filed issues.
// "INAPROPRIATE" keeps the original spelling; it is a stored enum value.
var IssueCategories = []string{"SPAM", "ILLEGAL", "RULES", "BUG", "SECURITY", "INAPROPRIATE", "USER"}

func ValidIssueCategory(category string) bool {
	for _, c := range IssueCategories {
		if c == category {
			return true
		}
	}
	return false
}

type IssueCreationData struct {
	ByUser      Creator
	Category    string
	Problem     string
	Board       *BoardId
	ReportedURL string
}

type Issue struct {
	Id          int64     `json:"id"`
	ByUser      Creator   `json:"by_user"`
	Category    string    `json:"category"`
	Problem     string    `json:"problem"`
	Board       *BoardId  `json:"board,omitempty"`
	ReportedURL string    `json:"reported_object_url,omitempty"`
	Solved      bool      `json:"solved"`
	SolvedBy    *Creator  `json:"solved_by,omitempty"`
	Details     string    `json:"details,omitempty"`
	ReportedAt  time.Time `json:"reported_at"`
}
