package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scholarsync/core/internal/domain/entities"
	"github.com/scholarsync/core/internal/infrastructure/logger"
	"github.com/scholarsync/core/internal/ports"
)

// ProfessorStore is the in-memory working copy of the data file.
//
// Every access goes through the guard. Mutations hold the write lock across
// both the map change and the snapshot write, so two snapshots never race on
// the backing file.
type ProfessorStore struct {
	guard      *Guard
	professors map[uint32]*entities.Professor
	snapshots  ports.Snapshotter
	generator  ports.DescriptionGenerator
	observer   ports.StoreObserver
	logger     *logger.Logger
}

// NewProfessorStore creates a store seeded with the loaded professors.
func NewProfessorStore(
	initial []entities.Professor,
	snapshots ports.Snapshotter,
	generator ports.DescriptionGenerator,
	observer ports.StoreObserver,
	log *logger.Logger,
) *ProfessorStore {
	if observer == nil {
		observer = ports.NopObserver{}
	}

	professors := make(map[uint32]*entities.Professor, len(initial))
	for i := range initial {
		p := initial[i].Clone()
		professors[p.ID] = &p
	}
	observer.SetProfessorCount(len(professors))

	return &ProfessorStore{
		guard:      NewGuard(log),
		professors: professors,
		snapshots:  snapshots,
		generator:  generator,
		observer:   observer,
		logger:     log.WithComponent("store"),
	}
}

// Healthy reports whether the store lock is still usable.
func (s *ProfessorStore) Healthy() bool {
	return s.guard.Usable()
}

// ListProfessors returns a copy of every professor sorted ascending by id.
func (s *ProfessorStore) ListProfessors() ([]entities.Professor, error) {
	var out []entities.Professor
	err := s.guard.Read("list_professors", func() error {
		out = s.sortedLocked()
		return nil
	})
	return out, err
}

// GetProfessor returns a copy of a single professor.
func (s *ProfessorStore) GetProfessor(id uint32) (*entities.Professor, error) {
	var out entities.Professor
	err := s.guard.Read("get_professor", func() error {
		p, ok := s.professors[id]
		if !ok {
			return entities.ErrProfessorNotFound
		}
		out = p.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProfessor inserts a professor under max(existing ids)+1.
// A freed highest id is handed out again.
func (s *ProfessorStore) CreateProfessor(name, dept, desc string) (*entities.Professor, error) {
	var out entities.Professor
	err := s.guard.Write("create_professor", func() error {
		id, err := s.nextProfessorIDLocked()
		if err != nil {
			return err
		}
		p := &entities.Professor{
			ID:     id,
			Name:   name,
			Dept:   dept,
			Desc:   desc,
			Papers: []entities.Paper{},
		}
		s.professors[p.ID] = p
		out = p.Clone()
		return s.persistLocked("create_professor")
	})
	return committed(&out, err)
}

// UpdateProfessor overwrites name and dept, and desc when non-nil.
// The id and paper list are never touched.
func (s *ProfessorStore) UpdateProfessor(id uint32, name, dept string, desc *string) (*entities.Professor, error) {
	var out entities.Professor
	err := s.guard.Write("update_professor", func() error {
		p, ok := s.professors[id]
		if !ok {
			return entities.ErrProfessorNotFound
		}
		p.Name = name
		p.Dept = dept
		if desc != nil {
			p.Desc = *desc
		}
		out = p.Clone()
		return s.persistLocked("update_professor")
	})
	return committed(&out, err)
}

// DeleteProfessor removes a professor together with its papers.
func (s *ProfessorStore) DeleteProfessor(id uint32) error {
	return s.guard.Write("delete_professor", func() error {
		if _, ok := s.professors[id]; !ok {
			return entities.ErrProfessorNotFound
		}
		delete(s.professors, id)
		return s.persistLocked("delete_professor")
	})
}

// ListPapers returns a copy of a professor's papers in list order.
func (s *ProfessorStore) ListPapers(profID uint32) ([]entities.Paper, error) {
	var out []entities.Paper
	err := s.guard.Read("list_papers", func() error {
		p, ok := s.professors[profID]
		if !ok {
			return entities.ErrProfessorNotFound
		}
		out = p.Clone().Papers
		return nil
	})
	return out, err
}

// CreatePaper appends a paper under the professor's max(paper ids)+1.
func (s *ProfessorStore) CreatePaper(profID uint32, title string) (*entities.Paper, error) {
	var out entities.Paper
	err := s.guard.Write("create_paper", func() error {
		p, ok := s.professors[profID]
		if !ok {
			return entities.ErrProfessorNotFound
		}
		paperID, err := p.NextPaperID()
		if err != nil {
			return err
		}
		out = entities.Paper{ID: paperID, Title: title}
		p.Papers = append(p.Papers, out)
		return s.persistLocked("create_paper")
	})
	return committed(&out, err)
}

// UpdatePaper replaces a paper's title.
func (s *ProfessorStore) UpdatePaper(profID, paperID uint32, title string) (*entities.Paper, error) {
	var out entities.Paper
	err := s.guard.Write("update_paper", func() error {
		p, ok := s.professors[profID]
		if !ok {
			return entities.ErrProfessorNotFound
		}
		idx := p.FindPaper(paperID)
		if idx < 0 {
			return entities.ErrPaperNotFound
		}
		p.Papers[idx].Title = title
		out = p.Papers[idx]
		return s.persistLocked("update_paper")
	})
	return committed(&out, err)
}

// DeletePaper removes a paper, keeping the order of the remaining ones.
func (s *ProfessorStore) DeletePaper(profID, paperID uint32) error {
	return s.guard.Write("delete_paper", func() error {
		p, ok := s.professors[profID]
		if !ok {
			return entities.ErrProfessorNotFound
		}
		idx := p.FindPaper(paperID)
		if idx < 0 {
			return entities.ErrPaperNotFound
		}
		p.Papers = append(p.Papers[:idx], p.Papers[idx+1:]...)
		return s.persistLocked("delete_paper")
	})
}

// GenerateDescription asks the generator for a summary of the professor's
// paper titles and stores it in desc.
//
// The write lock is held for the whole remote call so concurrent requests
// cannot interleave on the same record; a slow generator blocks every other
// store operation until ctx expires. On generator failure desc is unchanged.
func (s *ProfessorStore) GenerateDescription(ctx context.Context, profID uint32) (string, error) {
	var desc string
	err := s.guard.Write("generate_description", func() error {
		p, ok := s.professors[profID]
		if !ok {
			return entities.ErrProfessorNotFound
		}

		start := time.Now()
		generated, err := s.generator.Generate(ctx, p.PaperTitles())
		s.observer.ObserveGeneration(time.Since(start), err)
		if err != nil {
			s.logger.Errorw("Description generation failed", "professor_id", profID, "error", err)
			return fmt.Errorf("%w: %v", entities.ErrGenerationFailed, err)
		}

		p.Desc = generated
		desc = generated
		return s.persistLocked("generate_description")
	})
	if err != nil && !errors.Is(err, entities.ErrNotCommitted) {
		return "", err
	}
	return desc, err
}

// Flush writes the current collection to the data file.
func (s *ProfessorStore) Flush() error {
	return s.guard.Write("flush", func() error {
		return s.persistLocked("flush")
	})
}

func (s *ProfessorStore) sortedLocked() []entities.Professor {
	out := make([]entities.Professor, 0, len(s.professors))
	for _, p := range s.professors {
		out = append(out, p.Clone())
	}
	entities.SortProfessors(out)
	return out
}

func (s *ProfessorStore) nextProfessorIDLocked() (uint32, error) {
	ids := make([]uint32, 0, len(s.professors))
	for id := range s.professors {
		ids = append(ids, id)
	}
	return entities.NextID(ids)
}

// persistLocked must be called with the write lock held.
func (s *ProfessorStore) persistLocked(op string) error {
	s.observer.SetProfessorCount(len(s.professors))

	start := time.Now()
	err := s.snapshots.Save(s.sortedLocked())
	elapsed := time.Since(start)
	s.observer.ObserveSnapshot(elapsed, err)
	s.logger.LogSnapshot(op, len(s.professors), float64(elapsed.Microseconds())/1000, err)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrNotCommitted, err)
	}
	return nil
}

// committed keeps the record when the only failure was the snapshot write.
func committed[T any](v *T, err error) (*T, error) {
	if err != nil && !errors.Is(err, entities.ErrNotCommitted) {
		return nil, err
	}
	return v, err
}
