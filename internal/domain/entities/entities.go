package entities

import (
	"errors"
	"math"
	"sort"
)

// Common errors
var (
	ErrProfessorNotFound = errors.New("professor not found")
	ErrPaperNotFound     = errors.New("paper not found")
	ErrInvalidDataset    = errors.New("invalid dataset")
	ErrGenerationFailed  = errors.New("description generation failed")
	ErrIDSpaceExhausted  = errors.New("no identifier left above the current maximum")

	// ErrNotCommitted marks a mutation that was applied in memory but could
	// not be written to the data file.
	ErrNotCommitted = errors.New("change applied in memory but not committed")

	// ErrLockUnusable is returned by every store operation once a holder of the
	// store lock has terminated abnormally. Recovery requires a restart.
	ErrLockUnusable = errors.New("store lock is unusable")
)

// Paper is a publication owned by a single professor. Its ID is only unique
// within the owning professor's paper list.
type Paper struct {
	ID    uint32 `json:"id"`
	Title string `json:"title"`
}

// Professor is the top-level record of the store.
type Professor struct {
	ID     uint32  `json:"id"`
	Name   string  `json:"name"`
	Dept   string  `json:"dept"`
	Desc   string  `json:"desc"`
	Papers []Paper `json:"papers"`
}

// Clone returns a deep copy so callers never share the paper slice with the store.
func (p *Professor) Clone() Professor {
	c := *p
	c.Papers = make([]Paper, len(p.Papers))
	copy(c.Papers, p.Papers)
	return c
}

// FindPaper returns the index of the paper with the given id, or -1.
func (p *Professor) FindPaper(paperID uint32) int {
	for i := range p.Papers {
		if p.Papers[i].ID == paperID {
			return i
		}
	}
	return -1
}

// NextPaperID allocates max(existing ids)+1, or 1 for an empty list.
func (p *Professor) NextPaperID() (uint32, error) {
	ids := make([]uint32, 0, len(p.Papers))
	for _, paper := range p.Papers {
		ids = append(ids, paper.ID)
	}
	return NextID(ids)
}

// NextID returns max(ids)+1, or 1 when ids is empty. It fails instead of
// wrapping around once the maximum id is taken.
func NextID(ids []uint32) (uint32, error) {
	var highest uint32
	for _, id := range ids {
		if id > highest {
			highest = id
		}
	}
	if highest == math.MaxUint32 {
		return 0, ErrIDSpaceExhausted
	}
	return highest + 1, nil
}

// PaperTitles returns the titles in list order.
func (p *Professor) PaperTitles() []string {
	titles := make([]string, 0, len(p.Papers))
	for _, paper := range p.Papers {
		titles = append(titles, paper.Title)
	}
	return titles
}

// SortProfessors orders professors ascending by id in place.
func SortProfessors(professors []Professor) {
	sort.Slice(professors, func(i, j int) bool {
		return professors[i].ID < professors[j].ID
	})
}
