package mocks

import "sync"

// MockPasswordHasher implements auth.PasswordHasher for testing
type MockPasswordHasher struct {
	// HashFn allows for custom hashing logic in tests
	HashFn func(password string) (string, error)

	mu sync.Mutex
	// HashCalledWith stores the passwords passed to Hash
	HashCalledWith []string
}

// Hash implements the auth.PasswordHasher interface.
// Without HashFn it returns "hashed:" followed by the password.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.mu.Lock()
	m.HashCalledWith = append(m.HashCalledWith, password)
	m.mu.Unlock()

	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// HashCallCount returns how many times Hash was called
func (m *MockPasswordHasher) HashCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.HashCalledWith)
}
