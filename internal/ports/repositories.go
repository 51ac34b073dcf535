package ports

import (
	"context"
	"time"

	"github.com/scholarsync/core/internal/domain/entities"
)

// ProfessorStore defines the mutation API over the in-memory professor collection.
//
// Mutating methods persist the whole collection before returning. When that
// write fails the change is kept in memory and the returned error wraps
// entities.ErrNotCommitted; the returned record is still valid in that case.
type ProfessorStore interface {
	ListProfessors() ([]entities.Professor, error)
	GetProfessor(id uint32) (*entities.Professor, error)
	CreateProfessor(name, dept, desc string) (*entities.Professor, error)
	UpdateProfessor(id uint32, name, dept string, desc *string) (*entities.Professor, error)
	DeleteProfessor(id uint32) error

	ListPapers(profID uint32) ([]entities.Paper, error)
	CreatePaper(profID uint32, title string) (*entities.Paper, error)
	UpdatePaper(profID, paperID uint32, title string) (*entities.Paper, error)
	DeletePaper(profID, paperID uint32) error

	GenerateDescription(ctx context.Context, profID uint32) (string, error)

	// Flush persists the current collection regardless of pending changes.
	Flush() error
	// Healthy reports whether the store lock is still usable.
	Healthy() bool
}

// Snapshotter writes the full professor collection to durable storage.
type Snapshotter interface {
	Save(professors []entities.Professor) error
}

// StoreObserver receives store-level measurements.
type StoreObserver interface {
	ObserveSnapshot(duration time.Duration, err error)
	ObserveGeneration(duration time.Duration, err error)
	SetProfessorCount(n int)
}

// DescriptionGenerator produces a short research-interest summary from paper titles.
// Implementations make a network call and honour ctx for cancellation.
type DescriptionGenerator interface {
	Generate(ctx context.Context, titles []string) (string, error)
}

// NopObserver discards all measurements.
type NopObserver struct{}

func (NopObserver) ObserveSnapshot(time.Duration, error)   {}
func (NopObserver) ObserveGeneration(time.Duration, error) {}
func (NopObserver) SetProfessorCount(int)                  {}
