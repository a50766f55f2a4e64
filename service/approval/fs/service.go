// Package fs implements a filesystem-backed approval store: one JSON document
// per request, addressable by id. Listing scans the base location and filters
// in memory, which is acceptable at the expected scale; the Service contract
// leaves room for an indexed store without changing callers.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/promptops/steward/internal/clock"
	"github.com/promptops/steward/service/approval"
	"github.com/promptops/steward/service/dao"
	"github.com/promptops/steward/service/dao/criteria"
)

// Service implements a filesystem-based approval request store.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.Mutex
}

var _ approval.Service = (*Service)(nil)

// New creates a filesystem approval store rooted at baseURL, creating the
// directory when absent.
func New(baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	fsService := afs.New()
	ctx := context.Background()
	if exists, _ := fsService.Exists(ctx, baseURL); !exists {
		if err := fsService.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create approval store location: %w", err)
		}
	}
	return &Service{baseURL: url.Normalize(baseURL, file.Scheme), fs: fsService}, nil
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
	if err := s.save(ctx, record); err != nil {
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

// Decide transitions a pending request to approved or rejected. The record is
// re-read and the pending precondition re-checked under the store lock so a
// racing decision and resume pass can not both win.
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
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListPending returns all requests awaiting a decision.
func (s *Service) ListPending(ctx context.Context) ([]*approval.Request, error) {
	return s.list(ctx, dao.NewParameter("status", string(approval.StatusPending)))
}

// ListApprovedUnprocessed returns the resume-pass work list.
func (s *Service) ListApprovedUnprocessed(ctx context.Context) ([]*approval.Request, error) {
	return s.list(ctx,
		dao.NewParameter("status", string(approval.StatusApproved)),
		&dao.Parameter{Name: "processed", Value: false})
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
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) list(ctx context.Context, parameters ...*dao.Parameter) ([]*approval.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval requests: %w", err)
	}
	var ret []*approval.Request
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			continue
		}
		record := &approval.Request{}
		if err := json.Unmarshal(data, record); err != nil {
			continue
		}
		if !criteria.MatchString("status", string(record.Status), parameters) {
			continue
		}
		if !criteria.MatchBool("processed", record.Processed, parameters) {
			continue
		}
		ret = append(ret, record)
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].CreatedAt.Equal(ret[j].CreatedAt) {
			return ret[i].ID < ret[j].ID
		}
		return ret[i].CreatedAt.Before(ret[j].CreatedAt)
	})
	return ret, nil
}

func (s *Service) load(ctx context.Context, id string) (*approval.Request, error) {
	location := s.requestURL(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check approval request %s: %w", id, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", approval.ErrNotFound, id)
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read approval request %s: %w", id, err)
	}
	record := &approval.Request{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal approval request %s: %w", id, err)
	}
	return record, nil
}

func (s *Service) save(ctx context.Context, record *approval.Request) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal approval request: %w", err)
	}
	location := s.requestURL(record.ID)
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save approval request to %s: %w", location, err)
	}
	return nil
}

func (s *Service) requestURL(id string) string {
	return path.Join(s.baseURL, fmt.Sprintf("%s.json", id))
}
