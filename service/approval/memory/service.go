package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/promptops/steward/internal/clock"
	"github.com/promptops/steward/service/approval"
	"github.com/promptops/steward/service/dao"
	"github.com/promptops/steward/service/dao/store"
)

// Service is an in-memory approval store backed by the generic DAO store.
// A single mutex spans every load-check-save sequence so that status
// transitions are check-and-set atomic.
type Service struct {
	mu  sync.Mutex
	dao dao.Service[string, approval.Request]
}

var _ approval.Service = (*Service)(nil)

func requestKey(r *approval.Request) string { return r.ID }

// New creates an empty in-memory approval store.
func New() *Service {
	return &Service{dao: store.NewMemoryStore[string, approval.Request](requestKey)}
}

// Create persists a new pending request and returns its id.
func (s *Service) Create(ctx context.Context, request *approval.Request) (string, error) {
	if request == nil {
		return "", dao.ErrNilEntity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record := request.Clone()
	if record.ID == "" {
		record.ID = approval.NewRequestID()
	}
	now := clock.Now()
	record.Status = approval.StatusPending
	record.Processed = false
	record.ProcessedAt = nil
	record.CreatedAt = now
	record.UpdatedAt = now
	if err := s.dao.Save(ctx, record); err != nil {
		return "", err
	}
	request.ID = record.ID
	return record.ID, nil
}

// Get returns the request with the given id.
func (s *Service) Get(ctx context.Context, id string) (*approval.Request, error) {
	if id == "" {
		return nil, approval.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, id)
}

// Decide transitions a pending request to approved or rejected.
func (s *Service) Decide(ctx context.Context, id string, status approval.Status, notes string) (*approval.Request, error) {
	if id == "" {
		return nil, approval.ErrInvalidID
	}
	if status != approval.StatusApproved && status != approval.StatusRejected {
		return nil, fmt.Errorf("%w: %s", approval.ErrInvalidStatus, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != approval.StatusPending {
		return nil, fmt.Errorf("%w: request %s is %s", approval.ErrInvalidTransition, id, record.Status)
	}
	record.Status = status
	record.Notes = notes
	record.UpdatedAt = clock.Now()
	if err := s.dao.Save(ctx, record); err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

// ListPending returns all requests awaiting a decision.
func (s *Service) ListPending(ctx context.Context) ([]*approval.Request, error) {
	return s.list(ctx, func(r *approval.Request) bool {
		return r.Status == approval.StatusPending
	})
}

// ListApprovedUnprocessed returns the resume-pass work list.
func (s *Service) ListApprovedUnprocessed(ctx context.Context) ([]*approval.Request, error) {
	return s.list(ctx, func(r *approval.Request) bool {
		return r.Status == approval.StatusApproved && !r.Processed
	})
}

// MarkProcessed records that the approved mutation has been executed.
func (s *Service) MarkProcessed(ctx context.Context, id string) (*approval.Request, error) {
	if id == "" {
		return nil, approval.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != approval.StatusApproved || record.Processed {
		return nil, fmt.Errorf("%w: request %s is %s, processed=%v", approval.ErrInvalidTransition, id, record.Status, record.Processed)
	}
	now := clock.Now()
	record.Processed = true
	record.ProcessedAt = &now
	record.UpdatedAt = now
	if err := s.dao.Save(ctx, record); err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

func (s *Service) load(ctx context.Context, id string) (*approval.Request, error) {
	record, err := s.dao.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", approval.ErrNotFound, id)
	}
	return record.Clone(), nil
}

func (s *Service) list(ctx context.Context, include func(*approval.Request) bool) ([]*approval.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.dao.List(ctx)
	if err != nil {
		return nil, err
	}
	ret := make([]*approval.Request, 0, len(all))
	for _, record := range all {
		if include(record) {
			ret = append(ret, record.Clone())
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].CreatedAt.Equal(ret[j].CreatedAt) {
			return ret[i].ID < ret[j].ID
		}
		return ret[i].CreatedAt.Before(ret[j].CreatedAt)
	})
	return ret, nil
}
