package models

import "time"

// QuotaStatus describes a user's AI generation allowance for the current UTC day
type QuotaStatus struct {
	Used      int       `json:"used"`
	Remaining int       `json:"remaining"`
	Limit     int       `json:"limit"`
	ResetAt   time.Time `json:"reset_at"`
}
