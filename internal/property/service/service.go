// Package service implements the property registry operations. Every
// mutation runs through the store's Execute contract so authorization and
// preconditions are checked under the same exclusion region as the mutation
// itself: an operation either fully applies or fails before any state change.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	propmetrics "cadastre/internal/property/metrics"
	"cadastre/internal/property/models"
	id "cadastre/pkg/domain"
	dErrors "cadastre/pkg/domain-errors"
	"cadastre/pkg/platform/events"
	"cadastre/pkg/platform/sentinel"
	"cadastre/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Authorizer,Publisher

// Store is the persistence contract for property records.
type Store interface {
	Create(ctx context.Context, record *models.PropertyRecord) error
	Find(ctx context.Context, location id.Location) (*models.PropertyRecord, error)
	Execute(ctx context.Context, location id.Location, validate func(*models.PropertyRecord) error, mutate func(*models.PropertyRecord)) (*models.PropertyRecord, error)
}

// Authorizer answers access control list lookups. Ownership of a specific
// record is checked separately against the record itself.
type Authorizer interface {
	IsAuthorized(ctx context.Context, principal id.Principal) (bool, error)
}

// Publisher is the slice of the event pipeline the registry emits into.
type Publisher interface {
	Emit(ctx context.Context, event events.Event) error
}

// Registry orchestrates all property record operations.
type Registry struct {
	store     Store
	authz     Authorizer
	publisher Publisher
	metrics   *propmetrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

// Option configures the Registry.
type Option func(*Registry)

func WithMetrics(m *propmetrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

func NewRegistry(store Store, authz Authorizer, publisher Publisher, opts ...Option) *Registry {
	r := &Registry{
		store:     store,
		authz:     authz,
		publisher: publisher,
		logger:    slog.Default(),
		tracer:    otel.Tracer("cadastre/property"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterInput carries the caller-supplied fields for a new record.
type RegisterInput struct {
	Location       id.Location
	Price          uint64
	Description    string
	Area           uint64
	IsUsed         bool
	LegalDocuments string
}

// Register creates a property record owned by the caller. Registration is
// gated at the registry level: the caller must hold an access control list
// grant, because no record exists yet to own.
func (r *Registry) Register(ctx context.Context, input RegisterInput) (*models.PropertyRecord, error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "registry.Register",
		trace.WithAttributes(attribute.String("property.location", input.Location.String())))
	defer span.End()

	caller := requestcontext.Principal(ctx)
	authorized, err := r.aclAuthorized(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, r.reject(dErrors.New(dErrors.CodeUnauthorized, "caller is not authorized to register properties"))
	}

	record, err := models.NewPropertyRecord(input.Location, caller, input.Price,
		input.Description, input.Area, input.IsUsed, input.LegalDocuments,
		requestcontext.Now(ctx))
	if err != nil {
		return nil, r.reject(err)
	}

	if err := r.store.Create(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return nil, r.reject(dErrors.New(dErrors.CodeAlreadyExists, "a record already exists for this location"))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create property record")
	}

	if err := r.emit(ctx, events.Event{
		Action:   events.ActionPropertyRegistered,
		Location: record.Location,
		Actor:    caller,
		To:       caller,
		Price:    record.Price,
	}); err != nil {
		return nil, err
	}

	if r.metrics != nil {
		r.metrics.IncrementRegistered()
		r.metrics.ObserveRegister(start)
	}
	return record, nil
}

// TransferOwnership appends the current owner to the history and hands the
// record to newOwner. The transfer target is not validated; the zero
// principal is a legal (if regrettable) destination.
func (r *Registry) TransferOwnership(ctx context.Context, location id.Location, newOwner id.Principal) error {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "registry.TransferOwnership",
		trace.WithAttributes(attribute.String("property.location", location.String())))
	defer span.End()

	caller := requestcontext.Principal(ctx)
	now := requestcontext.Now(ctx)

	var previousOwner id.Principal
	_, err := r.execute(ctx, location,
		func(record *models.PropertyRecord) error {
			if err := r.requireRecordAccess(ctx, record, caller); err != nil {
				return err
			}
			previousOwner = record.Owner
			return nil
		},
		func(record *models.PropertyRecord) {
			record.ApplyTransfer(newOwner, now)
		},
	)
	if err != nil {
		return err
	}

	if err := r.emit(ctx, events.Event{
		Action:   events.ActionOwnershipTransferred,
		Location: location,
		Actor:    caller,
		From:     previousOwner,
		To:       newOwner,
	}); err != nil {
		return err
	}

	if r.metrics != nil {
		r.metrics.IncrementTransfers()
		r.metrics.ObserveMutation(start)
	}
	return nil
}

// ChangeStatus moves the record to the given status. The machine cycles
// freely; authorization is the only precondition.
func (r *Registry) ChangeStatus(ctx context.Context, location id.Location, status id.PropertyStatus) error {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "registry.ChangeStatus",
		trace.WithAttributes(
			attribute.String("property.location", location.String()),
			attribute.String("property.status", status.String()),
		))
	defer span.End()

	if !status.IsValid() {
		return r.reject(dErrors.New(dErrors.CodeInvalidInput, "invalid status"))
	}

	caller := requestcontext.Principal(ctx)
	now := requestcontext.Now(ctx)

	_, err := r.execute(ctx, location,
		func(record *models.PropertyRecord) error {
			return r.requireRecordAccess(ctx, record, caller)
		},
		func(record *models.PropertyRecord) {
			record.ApplyStatus(status, now)
		},
	)
	if err != nil {
		return err
	}

	if err := r.emit(ctx, events.Event{
		Action:   events.ActionStatusChanged,
		Location: location,
		Actor:    caller,
		Status:   events.StatusOf(status),
	}); err != nil {
		return err
	}

	if r.metrics != nil {
		r.metrics.ObserveMutation(start)
	}
	return nil
}

// CreateTransactionRecord sets the price and emits the notification selected
// by the record's status at call time. Guarded: it fails once the price is
// non-zero, so it can succeed at most once per record.
func (r *Registry) CreateTransactionRecord(ctx context.Context, location id.Location, price uint64) error {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "registry.CreateTransactionRecord",
		trace.WithAttributes(attribute.String("property.location", location.String())))
	defer span.End()

	caller := requestcontext.Principal(ctx)
	now := requestcontext.Now(ctx)

	var kind id.TransactionKind
	_, err := r.execute(ctx, location,
		func(record *models.PropertyRecord) error {
			if err := r.requireRecordAccess(ctx, record, caller); err != nil {
				return err
			}
			if err := record.CanCreateTransaction(); err != nil {
				return r.reject(err)
			}
			kind = record.TransactionKind()
			return nil
		},
		func(record *models.PropertyRecord) {
			record.ApplyTransaction(price, now)
		},
	)
	if err != nil {
		return err
	}

	if err := r.emit(ctx, events.Event{
		Action:   events.ActionTransactionCreated,
		Location: location,
		Actor:    caller,
		Kind:     kind,
		Price:    price,
	}); err != nil {
		return err
	}

	if r.metrics != nil {
		r.metrics.ObserveMutation(start)
	}
	return nil
}

// SetInspected flips the inspection flag.
func (r *Registry) SetInspected(ctx context.Context, location id.Location, value bool) error {
	return r.setFlag(ctx, location, events.ActionInspectionUpdated, func(record *models.PropertyRecord, now time.Time) {
		record.SetInspected(value, now)
	})
}

// SetViewed flips the viewing flag.
func (r *Registry) SetViewed(ctx context.Context, location id.Location, value bool) error {
	return r.setFlag(ctx, location, events.ActionViewingUpdated, func(record *models.PropertyRecord, now time.Time) {
		record.SetViewed(value, now)
	})
}

// SetLegalDocuments overwrites the record's legal documents text.
func (r *Registry) SetLegalDocuments(ctx context.Context, location id.Location, documents string) error {
	return r.setFlag(ctx, location, events.ActionLegalDocumentsUpdated, func(record *models.PropertyRecord, now time.Time) {
		record.SetLegalDocuments(documents, now)
	})
}

// GetDetails returns a full record snapshot. Reads are gated like record
// mutations: the record carries legal documents and the ownership history,
// both considered sensitive.
func (r *Registry) GetDetails(ctx context.Context, location id.Location) (*models.PropertyRecord, error) {
	ctx, span := r.tracer.Start(ctx, "registry.GetDetails",
		trace.WithAttributes(attribute.String("property.location", location.String())))
	defer span.End()

	caller := requestcontext.Principal(ctx)

	record, err := r.store.Find(ctx, location)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, r.reject(dErrors.New(dErrors.CodeNotFound, "no record for this location"))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load property record")
	}
	if err := r.requireRecordAccess(ctx, record, caller); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Registry) setFlag(ctx context.Context, location id.Location, action events.Action, apply func(*models.PropertyRecord, time.Time)) error {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "registry."+string(action),
		trace.WithAttributes(attribute.String("property.location", location.String())))
	defer span.End()

	caller := requestcontext.Principal(ctx)
	now := requestcontext.Now(ctx)

	_, err := r.execute(ctx, location,
		func(record *models.PropertyRecord) error {
			return r.requireRecordAccess(ctx, record, caller)
		},
		func(record *models.PropertyRecord) {
			apply(record, now)
		},
	)
	if err != nil {
		return err
	}

	if err := r.emit(ctx, events.Event{
		Action:   action,
		Location: location,
		Actor:    caller,
	}); err != nil {
		return err
	}

	if r.metrics != nil {
		r.metrics.ObserveMutation(start)
	}
	return nil
}

// execute wraps the store's Execute, translating store sentinels into coded
// domain errors.
func (r *Registry) execute(ctx context.Context, location id.Location, validate func(*models.PropertyRecord) error, mutate func(*models.PropertyRecord)) (*models.PropertyRecord, error) {
	record, err := r.store.Execute(ctx, location, validate, mutate)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, r.reject(dErrors.New(dErrors.CodeNotFound, "no record for this location"))
		}
		return nil, err
	}
	return record, nil
}

// requireRecordAccess enforces the record-level gate: the caller must be the
// record's current owner or hold an access control list grant.
func (r *Registry) requireRecordAccess(ctx context.Context, record *models.PropertyRecord, caller id.Principal) error {
	authorized, err := r.aclAuthorized(ctx, caller)
	if err != nil {
		return err
	}
	if !record.IsAuthorized(caller, authorized) {
		return r.reject(dErrors.New(dErrors.CodeUnauthorized, "caller may not mutate this record"))
	}
	return nil
}

func (r *Registry) aclAuthorized(ctx context.Context, caller id.Principal) (bool, error) {
	if caller.IsZero() {
		return false, nil
	}
	authorized, err := r.authz.IsAuthorized(ctx, caller)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check access control list")
	}
	return authorized, nil
}

// emit publishes an event after a successful mutation. Emission is
// fail-closed: an append failure surfaces to the caller so the event log
// never silently diverges from the record state.
func (r *Registry) emit(ctx context.Context, event events.Event) error {
	if err := r.publisher.Emit(ctx, event); err != nil {
		r.logger.ErrorContext(ctx, "event emission failed",
			"action", string(event.Action),
			"location", event.Location.String(),
			"error", err.Error(),
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record event")
	}
	return nil
}

func (r *Registry) reject(err error) error {
	if r.metrics != nil {
		r.metrics.IncrementRejected(string(dErrors.CodeOf(err)))
	}
	return err
}
