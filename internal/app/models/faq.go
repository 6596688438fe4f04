package models

import "time"

// FAQEntry is a cached question/answer pair for an election, based on the
// 'faq_entries' table. The cache is regenerated wholesale: delete all rows
// for the election, then re-answer the fixed question set.
type FAQEntry struct {
	ID          int64     `json:"id" db:"id"`
	ElectionID  int64     `json:"electionId" db:"election_id"`
	Question    string    `json:"question" db:"question"`
	Answer      string    `json:"answer" db:"answer"`
	Sources     []string  `json:"sources" db:"sources"`
	GeneratedAt time.Time `json:"generatedAt" db:"generated_at"`
}
