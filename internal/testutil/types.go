// Package testutil provides shared fixture types for rivet tests.
package testutil

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Common test errors
var (
	ErrTest        = errors.New("test error")
	ErrIntentional = errors.New("intentional error")
	ErrConstructor = errors.New("constructor error")
)

// TestService is a basic leaf service with a unique identity, useful for
// asserting instance sameness.
type TestService struct {
	ID   string
	Data string
}

// NewTestService creates a new test service.
func NewTestService() *TestService {
	return &TestService{
		ID:   uuid.NewString(),
		Data: "test",
	}
}

// ConstructionCounter counts how many times its constructor ran, for
// singleton uniqueness assertions under concurrency.
type ConstructionCounter struct {
	ID string
}

var constructions atomic.Int64

// NewConstructionCounter creates a counter instance and bumps the global
// construction count.
func NewConstructionCounter() *ConstructionCounter {
	constructions.Add(1)
	return &ConstructionCounter{ID: uuid.NewString()}
}

// Constructions returns the global construction count.
func Constructions() int64 {
	return constructions.Load()
}

// ResetConstructions resets the global construction count.
func ResetConstructions() {
	constructions.Store(0)
}

// TestLogger is a test logger interface for binding redirection tests.
type TestLogger interface {
	Log(msg string)
	Logs() []string
}

// TestLoggerImpl implements TestLogger.
type TestLoggerImpl struct {
	mu   sync.Mutex
	logs []string
}

// NewTestLogger creates a TestLoggerImpl behind the TestLogger interface.
func NewTestLogger() *TestLoggerImpl {
	return &TestLoggerImpl{}
}

func (l *TestLoggerImpl) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, msg)
}

func (l *TestLoggerImpl) Logs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.logs))
	copy(out, l.logs)
	return out
}

// TestDatabase is a leaf dependency for resolution chains.
type TestDatabase struct {
	Name string
}

// NewTestDatabase creates a test database.
func NewTestDatabase() *TestDatabase {
	return &TestDatabase{Name: "testdb"}
}

// Query returns a canned result.
func (d *TestDatabase) Query(sql string) string {
	return fmt.Sprintf("%s: %s", d.Name, sql)
}

// TestRepository depends on TestDatabase.
type TestRepository struct {
	DB *TestDatabase
}

// NewTestRepository creates a repository over a database.
func NewTestRepository(db *TestDatabase) *TestRepository {
	return &TestRepository{DB: db}
}

// TestUserService depends on TestRepository, completing a three-level
// resolution chain.
type TestUserService struct {
	Repo *TestRepository
}

// NewTestUserService creates a user service over a repository.
func NewTestUserService(repo *TestRepository) *TestUserService {
	return &TestUserService{Repo: repo}
}
