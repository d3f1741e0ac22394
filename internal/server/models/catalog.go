package models

import "time"

// SubmissionStatus tracks moderation state of a research submission.
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// Submission is a research project uploaded by an account. The document
// itself lives in object storage under StorageKey; only metadata is stored
// in the database.
type Submission struct {
	ID         string
	AccountID  string
	Title      string
	Abstract   string
	Supervisor string
	Year       int
	StorageKey string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Tag is a label attached to submissions and resources. Student-suggested
// tags land as "suggested"/"pending" until faculty approves them.
type Tag struct {
	ID        string
	Name      string
	Category  string
	Type      string // core, suggested
	Status    string // approved, pending, rejected
	CreatedBy *string
	CreatedAt time.Time
}

// Notification is a per-account message about a system event.
type Notification struct {
	ID        string
	AccountID string
	Type      string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// Resource is a lightweight catalog record for guides, templates, and
// similar materials.
type Resource struct {
	ID          string
	Title       string
	Description string
	Type        string
	ContentURL  string
	CreatedBy   string
	CreatedAt   time.Time
}
