package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a sub-account owned by a subject that deposits can target directly.
type Account struct {
	ID        uuid.UUID `json:"id"`
	SubjectID uuid.UUID `json:"subject_id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy returns true if the account belongs to subjectID.
func (a *Account) OwnedBy(subjectID uuid.UUID) bool {
	return a != nil && a.SubjectID == subjectID
}
