package faqs

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used for dev without a database and in tests.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Request
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, rows: make(map[int64]Request)}
}

func (r *MemoryRepo) Insert(ctx context.Context, req Request) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	req.ID = r.nextID
	r.nextID++
	if req.QuestionCount <= 0 {
		req.QuestionCount = DefaultQuestionCount
	}
	if strings.TrimSpace(req.Result) == "" {
		req.Result = ResultPlaceholder
	}
	req.EditedResult = req.Result
	req.CreatedAt = now
	req.UpdatedAt = now
	r.rows[req.ID] = req
	return req.ID, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Request, error) {
	if err := ctx.Err(); err != nil {
		return Request{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.rows[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	return req, nil
}

func (r *MemoryRepo) UpdateResult(ctx context.Context, id int64, result string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	if strings.TrimSpace(result) == "" {
		result = ResultPlaceholder
	}
	req.Result = result
	req.UpdatedAt = time.Now().UTC()
	r.rows[id] = req
	return nil
}

// Len reports the number of stored rows.
func (r *MemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

var _ Repo = (*MemoryRepo)(nil)
