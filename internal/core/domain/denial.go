package domain

import (
	"errors"
	"time"
)

// ErrAccessDenied is the only authentication failure clients ever see.
var ErrAccessDenied = errors.New("access denied")

// Denial kinds. They are recorded in the audit sink, never returned to clients.
const (
	DenialAuthMissing      = "auth_missing"
	DenialAuthInvalidToken = "auth_invalid_token"
	DenialAuthInvalidRole  = "auth_invalid_role"
	DenialLoginFailed      = "login_failed"
	DenialLoginFailedDemo  = "login_failed_demo"
)

// DenialError carries the real cause of an authentication failure.
// It unwraps to ErrAccessDenied.
type DenialError struct {
	Kind   string
	Detail string
}

func (e *DenialError) Error() string {
	if e.Detail == "" {
		return "access denied: " + e.Kind
	}
	return "access denied: " + e.Kind + ": " + e.Detail
}

func (e *DenialError) Unwrap() error { return ErrAccessDenied }

// Deny builds a DenialError.
func Deny(kind, detail string) *DenialError {
	return &DenialError{Kind: kind, Detail: detail}
}

// AuditEvent is a security-relevant event for the best-effort audit sink.
type AuditEvent struct {
	TS     time.Time `json:"ts" bson:"ts"`
	Type   string    `json:"type" bson:"type"`
	IP     string    `json:"ip" bson:"ip"`
	Path   string    `json:"path" bson:"path"`
	Detail string    `json:"detail,omitempty" bson:"detail,omitempty"`
}
