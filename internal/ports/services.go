package ports

import (
	"context"

	"github.com/scholarsync/core/internal/domain/entities"
)

// ProfessorService interface for professor and paper management operations
type ProfessorService interface {
	ListProfessors(ctx context.Context) ([]entities.Professor, error)
	GetProfessor(ctx context.Context, id uint32) (*entities.Professor, error)
	CreateProfessor(ctx context.Context, req CreateProfessorRequest) (*entities.Professor, error)
	UpdateProfessor(ctx context.Context, id uint32, req UpdateProfessorRequest) (*entities.Professor, error)
	DeleteProfessor(ctx context.Context, id uint32) error

	ListPapers(ctx context.Context, profID uint32) ([]entities.Paper, error)
	CreatePaper(ctx context.Context, profID uint32, req PaperRequest) (*entities.Paper, error)
	UpdatePaper(ctx context.Context, profID, paperID uint32, req PaperRequest) (*entities.Paper, error)
	DeletePaper(ctx context.Context, profID, paperID uint32) error

	GenerateDescription(ctx context.Context, profID uint32) (string, error)
}

// Request/Response Types

type CreateProfessorRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Dept string `json:"dept" validate:"required,max=200"`
	Desc string `json:"desc" validate:"max=2000"`
}

// UpdateProfessorRequest overwrites name and dept; desc only when present.
type UpdateProfessorRequest struct {
	Name string  `json:"name" validate:"required,max=200"`
	Dept string  `json:"dept" validate:"required,max=200"`
	Desc *string `json:"desc,omitempty" validate:"omitempty,max=2000"`
}

type PaperRequest struct {
	Title string `json:"title" validate:"required,max=500"`
}

type DescriptionResponse struct {
	Description string `json:"description"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
