package crud

import (
	"context"
	"slices"
	"strings"

	"github.com/nerrad567/movie-catalog/internal/infrastructure/logging"
)

// Store is the data access contract a Service orchestrates.
// *Repository satisfies it.
type Store[E any] interface {
	Columns() []string
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, filter Filter) ([]E, error)
	Get(ctx context.Context, id int64) (*E, error)
	FindBy(ctx context.Context, column string, value any) (*E, error)
	Create(ctx context.Context, entity *E) error
	Update(ctx context.Context, id int64, columns []string, entity *E) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// UpdatePolicy decides which columns an update writes, given the field names
// present in the request body and the entity's mutable columns.
type UpdatePolicy func(supplied, mutable []string) ([]string, error)

// ExactColumns requires the body to carry every mutable column and nothing
// else. Partial updates are rejected rather than merged.
func ExactColumns() UpdatePolicy {
	return func(supplied, mutable []string) ([]string, error) {
		if len(supplied) != len(mutable) {
			return nil, Errorf(ErrInvalidArgument,
				"update must supply all %d fields except id, got %d", len(mutable), len(supplied))
		}
		for _, name := range supplied {
			if !slices.Contains(mutable, name) {
				return nil, Errorf(ErrInvalidArgument, "unknown field %q", name)
			}
		}
		return mutable, nil
	}
}

// FixedColumns always writes exactly the named columns, whatever the body
// supplied. Missing fields are written as their zero value.
func FixedColumns(columns ...string) UpdatePolicy {
	return func(_, _ []string) ([]string, error) {
		return columns, nil
	}
}

// Hooks customise a Service for one entity type. Nil hooks are skipped.
type Hooks[E any] struct {
	// Validate checks field rules before create and update.
	Validate func(entity *E) error

	// BeforeCreate runs after Validate on create only.
	BeforeCreate func(ctx context.Context, entity *E) error

	// BeforeWrite runs last before both create and update reach the store.
	BeforeWrite func(ctx context.Context, entity *E) error
}

// Service adds business rules over a Store: update policies, validation and
// write hooks. It keeps no per-request state.
type Service[E any] struct {
	store  Store[E]
	policy UpdatePolicy
	hooks  Hooks[E]
	logger *logging.Logger
}

// NewService creates a Service. A nil policy defaults to ExactColumns.
func NewService[E any](store Store[E], entity string, policy UpdatePolicy, hooks Hooks[E], logger *logging.Logger) *Service[E] {
	if policy == nil {
		policy = ExactColumns()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service[E]{
		store:  store,
		policy: policy,
		hooks:  hooks,
		logger: logger.With("entity", entity),
	}
}

// List returns every entity matching filter.
func (s *Service[E]) List(ctx context.Context, filter Filter) ([]E, error) {
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("listed", "count", len(items))
	return items, nil
}

// Count returns the number of stored entities.
func (s *Service[E]) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Get returns one entity by id.
func (s *Service[E]) Get(ctx context.Context, id int64) (*E, error) {
	return s.store.Get(ctx, id)
}

// FindBy returns one entity by a unique column.
func (s *Service[E]) FindBy(ctx context.Context, column string, value any) (*E, error) {
	return s.store.FindBy(ctx, column, value)
}

// Create validates and persists entity. On success its id is populated.
func (s *Service[E]) Create(ctx context.Context, entity *E) error {
	if s.hooks.Validate != nil {
		if err := s.hooks.Validate(entity); err != nil {
			return err
		}
	}
	if s.hooks.BeforeCreate != nil {
		if err := s.hooks.BeforeCreate(ctx, entity); err != nil {
			return err
		}
	}
	if s.hooks.BeforeWrite != nil {
		if err := s.hooks.BeforeWrite(ctx, entity); err != nil {
			return err
		}
	}

	if err := s.store.Create(ctx, entity); err != nil {
		s.logger.Warn("create failed", "error", err)
		return err
	}
	s.logger.Info("created")
	return nil
}

// Update applies patch to row id under the service's update policy and
// returns rows affected. Zero means the id did not exist.
func (s *Service[E]) Update(ctx context.Context, id int64, patch Patch[E]) (int64, error) {
	mutable := s.store.Columns()
	columns, err := s.policy(canonicalFields(patch.Fields, mutable), mutable)
	if err != nil {
		s.logger.Warn("update rejected", "id", id, "error", err)
		return 0, err
	}

	entity := patch.Value
	if s.hooks.Validate != nil {
		if err := s.hooks.Validate(&entity); err != nil {
			return 0, err
		}
	}
	if s.hooks.BeforeWrite != nil {
		if err := s.hooks.BeforeWrite(ctx, &entity); err != nil {
			return 0, err
		}
	}

	n, err := s.store.Update(ctx, id, columns, &entity)
	if err != nil {
		s.logger.Warn("update failed", "id", id, "error", err)
		return 0, err
	}
	s.logger.Info("updated", "id", id, "rows", n)
	return n, nil
}

// Delete removes row id, failing with ErrNotFound when it does not exist.
func (s *Service[E]) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted", "id", id)
	return nil
}

// canonicalFields rewrites supplied body keys to the column they decode into.
// encoding/json matches keys case-insensitively, so "Title" fills the title
// column and must count as it. Keys naming no column pass through unchanged.
func canonicalFields(supplied, mutable []string) []string {
	out := make([]string, 0, len(supplied))
	for _, name := range supplied {
		for _, col := range mutable {
			if strings.EqualFold(name, col) {
				name = col
				break
			}
		}
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
