package queue

import (
	"context"
	"sort"
	"sync"
	"time"

	"backend-sevapali/internal/models"
)

// memStore is an in-memory Store with the same conditional-update
// contract as the MySQL implementation. It hands out copies, so test
// code never shares token structs with the scheduler.
type memStore struct {
	mu     sync.Mutex
	tokens map[string]*models.Token
}

func newMemStore() *memStore {
	return &memStore{tokens: make(map[string]*models.Token)}
}

func copyToken(t *models.Token) *models.Token {
	clone := *t
	if t.ServedBy != nil {
		servedBy := *t.ServedBy
		clone.ServedBy = &servedBy
	}
	if t.ServedAt != nil {
		servedAt := *t.ServedAt
		clone.ServedAt = &servedAt
	}
	return &clone
}

func (m *memStore) Get(ctx context.Context, id string) (*models.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.tokens[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyToken(token), nil
}

func (m *memStore) GetByNumber(ctx context.Context, tokenNumber string) (*models.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found *models.Token
	for _, token := range m.tokens {
		if token.TokenNumber != tokenNumber {
			continue
		}
		if found == nil || token.CreatedAt.After(found.CreatedAt) {
			found = token
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return copyToken(found), nil
}

func (m *memStore) Insert(ctx context.Context, token *models.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[token.ID] = copyToken(token)
	return nil
}

func (m *memStore) ConditionalUpdate(ctx context.Context, id, expectedStatus string, mut Mutation) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.tokens[id]
	if !ok || token.Status != expectedStatus {
		return false, nil
	}

	token.Status = mut.Status
	token.UpdatedAt = time.Now()
	if mut.SetCreatedAt != nil {
		token.CreatedAt = *mut.SetCreatedAt
	}
	if mut.ClearServed {
		token.ServedBy = nil
		token.ServedAt = nil
	} else {
		if mut.SetServedBy != nil {
			servedBy := *mut.SetServedBy
			token.ServedBy = &servedBy
		}
		if mut.SetServedAt != nil {
			servedAt := *mut.SetServedAt
			token.ServedAt = &servedAt
		}
	}
	return true, nil
}

func (m *memStore) QueryWaiting(ctx context.Context, key Key) ([]*models.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var waiting []*models.Token
	for _, token := range m.tokens {
		if token.Status != models.StatusWaiting {
			continue
		}
		if token.OfficeID != key.OfficeID ||
			token.DepartmentID != key.DepartmentID ||
			token.AppointmentDate != key.Date {
			continue
		}
		waiting = append(waiting, copyToken(token))
	}

	sort.Slice(waiting, func(i, j int) bool {
		if waiting[i].CreatedAt.Equal(waiting[j].CreatedAt) {
			return waiting[i].ID < waiting[j].ID
		}
		return waiting[i].CreatedAt.Before(waiting[j].CreatedAt)
	})
	return waiting, nil
}

func (m *memStore) FindServing(ctx context.Context, key Key) (*models.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, token := range m.tokens {
		if token.Status != models.StatusServing {
			continue
		}
		if token.OfficeID != key.OfficeID ||
			token.DepartmentID != key.DepartmentID ||
			token.AppointmentDate != key.Date {
			continue
		}
		return copyToken(token), nil
	}
	return nil, nil
}

// servingCount reports how many tokens are serving for a key right
// now, for invariant checks.
func (m *memStore) servingCount(key Key) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, token := range m.tokens {
		if token.Status == models.StatusServing &&
			token.OfficeID == key.OfficeID &&
			token.DepartmentID == key.DepartmentID &&
			token.AppointmentDate == key.Date {
			count++
		}
	}
	return count
}
