// Package audit records admin state changes and unauthorized attempts.
// Entries are written to the kv store before the guarded mutation is applied,
// and mirrored to the structured log.
package audit

import (
	"context"
	"encoding/json"
	"time"

	ierr "github.com/octavehouse/storefront/internal/errors"
	kvstore "github.com/octavehouse/storefront/internal/kv"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/types"
)

// Outcome classifies an audited attempt
type Outcome string

const (
	OutcomeApplied      Outcome = "applied"
	OutcomeRejected     Outcome = "rejected"
	OutcomeUnauthorized Outcome = "unauthorized"
)

// Entry is a single audit record
type Entry struct {
	ID        string         `json:"id"`
	Actor     string         `json:"actor"`
	Action    string         `json:"action"`
	Resource  string         `json:"resource"`
	Outcome   Outcome        `json:"outcome"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	At        time.Time      `json:"at"`
}

// Logger writes audit entries
type Logger interface {
	Record(ctx context.Context, action, resource string, outcome Outcome, details map[string]any)
}

type auditLogger struct {
	client kvstore.Client
	logger *logger.Logger
}

// NewLogger builds the audit logger. A nil kv client degrades to log-only
// recording, which keeps unauthorized-attempt logging alive even when the
// store is down.
func NewLogger(client kvstore.Client, log *logger.Logger) Logger {
	return &auditLogger{
		client: client,
		logger: log.Named("audit"),
	}
}

func (a *auditLogger) Record(ctx context.Context, action, resource string, outcome Outcome, details map[string]any) {
	entry := Entry{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT_ENTRY),
		Actor:     actor(ctx),
		Action:    action,
		Resource:  resource,
		Outcome:   outcome,
		Details:   details,
		RequestID: types.GetRequestID(ctx),
		At:        time.Now().UTC(),
	}

	a.logger.Infow("audit",
		"audit_id", entry.ID,
		"actor", entry.Actor,
		"action", entry.Action,
		"resource", entry.Resource,
		"outcome", entry.Outcome,
		"details", entry.Details,
	)

	if a.client == nil {
		return
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		a.logger.Errorw("failed to marshal audit entry", "error", err)
		return
	}
	item := &kvstore.Item{
		PK:      kvstore.PKAudit,
		SK:      entry.ID,
		Version: 0,
		Payload: payload,
	}
	if err := a.client.Put(ctx, item); err != nil && !ierr.IsVersionConflict(err) {
		a.logger.Errorw("failed to persist audit entry", "error", err, "audit_id", entry.ID)
	}
}

func actor(ctx context.Context) string {
	if email := types.GetUserEmail(ctx); email != "" {
		return email
	}
	if ip := types.GetClientIP(ctx); ip != "" {
		return ip
	}
	return "anonymous"
}
