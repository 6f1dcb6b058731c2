package events

import (
	"encoding/json"
	"time"
)

// MutationKind names the state change a message describes.
type MutationKind string

const (
	KindCategoryAdded   MutationKind = "category_added"
	KindCategoryDeleted MutationKind = "category_deleted"
	KindExpenseCreated  MutationKind = "expense_created"
	KindExpenseDeleted  MutationKind = "expense_deleted"
	KindStateReplaced   MutationKind = "state_replaced"
	KindStateReset      MutationKind = "state_reset"
)

// MutationMessage is published after every committed state change. It is
// intentionally small: the worker reads the full state from its own
// repository, the message only tells it something changed.
type MutationMessage struct {
	Kind      MutationKind `json:"kind"`
	Category  string       `json:"category,omitempty"`
	ExpenseID string       `json:"expense_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewMutationMessage creates a message for the given mutation
func NewMutationMessage(kind MutationKind) *MutationMessage {
	return &MutationMessage{
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

// WithCategory sets the category the mutation touched
func (m *MutationMessage) WithCategory(name string) *MutationMessage {
	m.Category = name
	return m
}

// WithExpenseID sets the expense the mutation touched
func (m *MutationMessage) WithExpenseID(id string) *MutationMessage {
	m.ExpenseID = id
	return m
}

// ToJSON converts the message to JSON bytes
func (m *MutationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MutationMessageFromJSON creates a message from JSON bytes
func MutationMessageFromJSON(data []byte) (*MutationMessage, error) {
	var msg MutationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
