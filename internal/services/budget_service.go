package services

import (
	"context"
	"fmt"
	"log/slog"

	"budget/internal/core"
	"budget/internal/events"
	"budget/internal/store"
)

// Publisher is the slice of the events client the service needs.
type Publisher interface {
	PublishMutation(ctx context.Context, msg *events.MutationMessage) error
	Close() error
}

// BudgetService orchestrates state mutations across the store and AMQP.
// Publishing is best effort: a failed publish never rolls back a
// committed mutation.
type BudgetService struct {
	store     *store.Store
	publisher Publisher
}

func NewBudgetService(st *store.Store, publisher Publisher) *BudgetService {
	return &BudgetService{
		store:     st,
		publisher: publisher,
	}
}

// Store exposes the underlying store for read-only queries
func (s *BudgetService) Store() *store.Store {
	return s.store
}

// AddCategory creates a category and publishes the mutation
func (s *BudgetService) AddCategory(ctx context.Context, name string) error {
	if err := s.store.AddCategory(ctx, name); err != nil {
		return err
	}
	s.publish(ctx, events.NewMutationMessage(events.KindCategoryAdded).WithCategory(name))
	return nil
}

// DeleteCategory removes a category and its expenses, then publishes the mutation
func (s *BudgetService) DeleteCategory(ctx context.Context, name string) error {
	if err := s.store.DeleteCategory(ctx, name); err != nil {
		return err
	}
	s.publish(ctx, events.NewMutationMessage(events.KindCategoryDeleted).WithCategory(name))
	return nil
}

// AddExpense records an expense and publishes the mutation
func (s *BudgetService) AddExpense(ctx context.Context, description string, amount core.Money, category string) (core.Expense, error) {
	exp, err := s.store.AddExpense(ctx, description, amount, category)
	if err != nil {
		return core.Expense{}, err
	}
	s.publish(ctx, events.NewMutationMessage(events.KindExpenseCreated).
		WithCategory(exp.Category).
		WithExpenseID(exp.ID))
	return exp, nil
}

// DeleteExpense removes an expense and publishes the mutation
func (s *BudgetService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.NewMutationMessage(events.KindExpenseDeleted).WithExpenseID(id))
	return nil
}

// ResetAll clears every expense and publishes the mutation
func (s *BudgetService) ResetAll(ctx context.Context) error {
	if err := s.store.ResetAll(ctx); err != nil {
		return err
	}
	s.publish(ctx, events.NewMutationMessage(events.KindStateReset))
	return nil
}

// ImportAll replaces the whole state from a snapshot and publishes the mutation
func (s *BudgetService) ImportAll(ctx context.Context, snap core.Snapshot) error {
	if err := s.store.ImportAll(ctx, snap); err != nil {
		return err
	}
	s.publish(ctx, events.NewMutationMessage(events.KindStateReplaced))
	return nil
}

// ExportAll returns a snapshot of the current state
func (s *BudgetService) ExportAll() core.Snapshot {
	return s.store.ExportAll()
}

func (s *BudgetService) publish(ctx context.Context, msg *events.MutationMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishMutation(ctx, msg); err != nil {
		// Don't fail the request, the mutation is already committed
		slog.ErrorContext(ctx, "Failed to publish mutation message",
			"kind", msg.Kind, "error", err)
	}
}

// Close closes the AMQP connection if one is configured
func (s *BudgetService) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
