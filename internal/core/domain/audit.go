package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionInitiateDeposit AuditAction = "INITIATE_DEPOSIT"
	AuditActionInitiatePayout  AuditAction = "INITIATE_PAYOUT"
	AuditActionConfirmDeposit  AuditAction = "CONFIRM_DEPOSIT"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	SubjectID    *uuid.UUID  `json:"subject_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
