package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scholarsync/core/internal/domain/entities"
	"github.com/scholarsync/core/internal/infrastructure/logger"
	"github.com/scholarsync/core/internal/ports"
)

// ProfessorService handles professor and paper operations
type ProfessorService struct {
	store             ports.ProfessorStore
	generationTimeout time.Duration
	logger            *logger.Logger
}

// NewProfessorService creates a new professor service. generationTimeout
// bounds each description request; zero leaves the generator call unbounded.
func NewProfessorService(store ports.ProfessorStore, generationTimeout time.Duration, logger *logger.Logger) *ProfessorService {
	return &ProfessorService{
		store:             store,
		generationTimeout: generationTimeout,
		logger:            logger,
	}
}

// ListProfessors returns all professors sorted by id
func (s *ProfessorService) ListProfessors(ctx context.Context) ([]entities.Professor, error) {
	professors, err := s.store.ListProfessors()
	if err != nil {
		return nil, fmt.Errorf("failed to list professors: %w", err)
	}
	return professors, nil
}

// GetProfessor retrieves a professor by ID
func (s *ProfessorService) GetProfessor(ctx context.Context, id uint32) (*entities.Professor, error) {
	professor, err := s.store.GetProfessor(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get professor %d: %w", id, err)
	}
	return professor, nil
}

// CreateProfessor creates a new professor
func (s *ProfessorService) CreateProfessor(ctx context.Context, req ports.CreateProfessorRequest) (*entities.Professor, error) {
	professor, err := s.store.CreateProfessor(req.Name, req.Dept, req.Desc)
	if professor == nil {
		return nil, fmt.Errorf("failed to create professor: %w", err)
	}

	s.logMutation("create_professor", err, map[string]interface{}{
		"professor_id": professor.ID,
		"name":         professor.Name,
	})
	return professor, s.wrapUncommitted(err)
}

// UpdateProfessor updates a professor's information
func (s *ProfessorService) UpdateProfessor(ctx context.Context, id uint32, req ports.UpdateProfessorRequest) (*entities.Professor, error) {
	professor, err := s.store.UpdateProfessor(id, req.Name, req.Dept, req.Desc)
	if professor == nil {
		return nil, fmt.Errorf("failed to update professor %d: %w", id, err)
	}

	s.logMutation("update_professor", err, map[string]interface{}{
		"professor_id": id,
	})
	return professor, s.wrapUncommitted(err)
}

// DeleteProfessor deletes a professor
func (s *ProfessorService) DeleteProfessor(ctx context.Context, id uint32) error {
	err := s.store.DeleteProfessor(id)
	if err != nil && !errors.Is(err, entities.ErrNotCommitted) {
		return fmt.Errorf("failed to delete professor %d: %w", id, err)
	}

	s.logMutation("delete_professor", err, map[string]interface{}{
		"professor_id": id,
	})
	return s.wrapUncommitted(err)
}

// ListPapers returns a professor's papers
func (s *ProfessorService) ListPapers(ctx context.Context, profID uint32) ([]entities.Paper, error) {
	papers, err := s.store.ListPapers(profID)
	if err != nil {
		return nil, fmt.Errorf("failed to list papers of professor %d: %w", profID, err)
	}
	return papers, nil
}

// CreatePaper adds a paper to a professor
func (s *ProfessorService) CreatePaper(ctx context.Context, profID uint32, req ports.PaperRequest) (*entities.Paper, error) {
	paper, err := s.store.CreatePaper(profID, req.Title)
	if paper == nil {
		return nil, fmt.Errorf("failed to create paper for professor %d: %w", profID, err)
	}

	s.logMutation("create_paper", err, map[string]interface{}{
		"professor_id": profID,
		"paper_id":     paper.ID,
	})
	return paper, s.wrapUncommitted(err)
}

// UpdatePaper changes a paper's title
func (s *ProfessorService) UpdatePaper(ctx context.Context, profID, paperID uint32, req ports.PaperRequest) (*entities.Paper, error) {
	paper, err := s.store.UpdatePaper(profID, paperID, req.Title)
	if paper == nil {
		return nil, fmt.Errorf("failed to update paper %d of professor %d: %w", paperID, profID, err)
	}

	s.logMutation("update_paper", err, map[string]interface{}{
		"professor_id": profID,
		"paper_id":     paperID,
	})
	return paper, s.wrapUncommitted(err)
}

// DeletePaper removes a paper from a professor
func (s *ProfessorService) DeletePaper(ctx context.Context, profID, paperID uint32) error {
	err := s.store.DeletePaper(profID, paperID)
	if err != nil && !errors.Is(err, entities.ErrNotCommitted) {
		return fmt.Errorf("failed to delete paper %d of professor %d: %w", paperID, profID, err)
	}

	s.logMutation("delete_paper", err, map[string]interface{}{
		"professor_id": profID,
		"paper_id":     paperID,
	})
	return s.wrapUncommitted(err)
}

// GenerateDescription replaces a professor's description with a generated one.
// The store stays write-locked until the generator answers or the timeout fires.
// Cancellation of ctx is ignored so a client that stops waiting does not abort
// the remote call or its persist; only generationTimeout bounds them.
func (s *ProfessorService) GenerateDescription(ctx context.Context, profID uint32) (string, error) {
	ctx = context.WithoutCancel(ctx)
	if s.generationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.generationTimeout)
		defer cancel()
	}

	desc, err := s.store.GenerateDescription(ctx, profID)
	if err != nil && !errors.Is(err, entities.ErrNotCommitted) {
		return "", fmt.Errorf("failed to generate description for professor %d: %w", profID, err)
	}

	s.logMutation("generate_description", err, map[string]interface{}{
		"professor_id": profID,
		"length":       len(desc),
	})
	return desc, s.wrapUncommitted(err)
}

func (s *ProfessorService) logMutation(action string, err error, metadata map[string]interface{}) {
	if err != nil {
		metadata["committed"] = false
	}
	s.logger.LogMutation(action, metadata)
}

func (s *ProfessorService) wrapUncommitted(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("change not persisted: %w", err)
}
