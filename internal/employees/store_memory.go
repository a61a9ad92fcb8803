package employees

import (
	"context"
	"strings"
	"sync"

	"fairworkly/pkg/domain"
	"fairworkly/pkg/platform/sentinel"
)

// MemoryStore keeps the directory in memory. Used in tests and local runs.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[domain.EmployeeID]*Employee
	byEmail  map[string]domain.EmployeeID
	byNumber map[string]domain.EmployeeID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[domain.EmployeeID]*Employee),
		byEmail:  make(map[string]domain.EmployeeID),
		byNumber: make(map[string]domain.EmployeeID),
	}
}

func emailKey(tenantID domain.TenantID, email string) string {
	return tenantID.String() + "/" + strings.ToLower(email)
}

func numberKey(tenantID domain.TenantID, number string) string {
	return tenantID.String() + "#" + number
}

func (s *MemoryStore) Create(_ context.Context, employee *Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if employee.Email != "" {
		if _, ok := s.byEmail[emailKey(employee.TenantID, employee.Email)]; ok {
			return sentinel.ErrConflict
		}
	}
	if employee.Number != "" {
		if _, ok := s.byNumber[numberKey(employee.TenantID, employee.Number)]; ok {
			return sentinel.ErrConflict
		}
	}

	copied := *employee
	s.byID[copied.ID] = &copied
	if copied.Email != "" {
		s.byEmail[emailKey(copied.TenantID, copied.Email)] = copied.ID
	}
	if copied.Number != "" {
		s.byNumber[numberKey(copied.TenantID, copied.Number)] = copied.ID
	}
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, tenantID domain.TenantID, email string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[emailKey(tenantID, email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[id]
	return &copied, nil
}

func (s *MemoryStore) FindByNumber(_ context.Context, tenantID domain.TenantID, number string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byNumber[numberKey(tenantID, number)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[id]
	return &copied, nil
}
