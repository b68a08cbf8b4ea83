package core

import (
	"context"
	"time"

	"diocese/pkg/domain"
)

// Logger is the structured logging surface the service writes to. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Clock supplies timestamps for records and audit entries.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// MetricsRecorder observes the outcome of every service operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

// Tracer opens a span per service operation.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is closed exactly once with the operation's error.
type TraceSpan interface {
	End(err error)
}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

// AuditStatus is the outcome recorded for an audited operation.
type AuditStatus string

// Audit outcomes.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one completed mutation.
type AuditEntry struct {
	Operation string
	Entity    domain.EntityType
	Action    domain.Action
	EntityID  string
	Status    AuditStatus
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder receives an entry for every audited operation.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, AuditEntry) {}

type operationMetadata struct {
	entity domain.EntityType
	action domain.Action
}

// auditedOperations lists the mutations that produce audit entries. Reads and
// checks are traced and timed but not audited.
var auditedOperations = map[string]operationMetadata{
	opSaveClergy:          {domain.EntityClergy, domain.ActionUpdate},
	opUpdateClergy:        {domain.EntityClergy, domain.ActionUpdate},
	opDeleteClergy:        {domain.EntityClergy, domain.ActionDelete},
	opSetProfileImage:     {domain.EntityClergy, domain.ActionUpdate},
	opRemoveProfileImage:  {domain.EntityClergy, domain.ActionUpdate},
	opSaveParish:          {domain.EntityParish, domain.ActionUpdate},
	opDeleteParish:        {domain.EntityParish, domain.ActionDelete},
	opSaveDeanery:         {domain.EntityDeanery, domain.ActionUpdate},
	opDeleteDeanery:       {domain.EntityDeanery, domain.ActionDelete},
	opCreateUserAccount:   {domain.EntityUserAccount, domain.ActionCreate},
	opUpdateUserAccount:   {domain.EntityUserAccount, domain.ActionUpdate},
	opDeleteUserAccount:   {domain.EntityUserAccount, domain.ActionDelete},
	opSaveCalendarEvent:   {domain.EntityCalendarEvent, domain.ActionUpdate},
	opDeleteCalendarEvent: {domain.EntityCalendarEvent, domain.ActionDelete},
	opRepairAll:           {"", domain.ActionUpdate},
	opSaveClergyRoles:     {"", domain.ActionUpdate},
	opSaveSettings:        {"", domain.ActionUpdate},
}

// Operation names used for tracing, metrics and audit.
const (
	opSaveClergy          = "save_clergy"
	opUpdateClergy        = "update_clergy"
	opDeleteClergy        = "delete_clergy"
	opSetProfileImage     = "set_clergy_profile_image"
	opRemoveProfileImage  = "remove_clergy_profile_image"
	opSaveParish          = "save_parish"
	opDeleteParish        = "delete_parish"
	opSaveDeanery         = "save_deanery"
	opDeleteDeanery       = "delete_deanery"
	opCreateUserAccount   = "create_user_account"
	opUpdateUserAccount   = "update_user_account"
	opDeleteUserAccount   = "delete_user_account"
	opSaveCalendarEvent   = "save_calendar_event"
	opDeleteCalendarEvent = "delete_calendar_event"
	opRepairAll           = "repair_all"
	opSaveClergyRoles     = "save_clergy_roles"
	opSaveSettings        = "save_settings"
	opCheck               = "check"
	opSnapshot            = "snapshot"
	opUpcomingEvents      = "upcoming_events"
	opDueReminders        = "due_reminders"
	opProfileImageURL     = "profile_image_url"
)

func (s *Service) recordAuditSuccess(ctx context.Context, operation, entityID string, duration time.Duration) {
	s.recordAudit(ctx, operation, entityID, AuditStatusSuccess, nil, duration)
}

func (s *Service) recordAuditFailure(ctx context.Context, operation, entityID string, err error, duration time.Duration) {
	s.recordAudit(ctx, operation, entityID, AuditStatusError, err, duration)
}

func (s *Service) recordAudit(ctx context.Context, operation, entityID string, status AuditStatus, err error, duration time.Duration) {
	meta, ok := auditedOperations[operation]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: operation,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		Status:    status,
		Duration:  duration,
		Timestamp: s.now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}

// run wraps one public operation with tracing, timing, audit and logging.
// fn returns the id of the primary record it touched, when there is one.
func (s *Service) run(ctx context.Context, operation string, fn func(ctx context.Context) (string, error)) error {
	ctx, span := s.tracer.Start(ctx, operation)
	start := time.Now()
	entityID, err := fn(ctx)
	duration := time.Since(start)
	span.End(err)
	s.metrics.Observe(ctx, operation, err == nil, duration)
	if err != nil {
		s.logger.Error("operation failed", "operation", operation, "entity_id", entityID, "error", err)
		s.recordAuditFailure(ctx, operation, entityID, err, duration)
		return err
	}
	s.logger.Debug("operation complete", "operation", operation, "entity_id", entityID, "duration", duration)
	s.recordAuditSuccess(ctx, operation, entityID, duration)
	return nil
}
