package catalog

import (
	"context"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QueryService manages the search queries the sync engine works through
type QueryService struct {
	queryRepo catalog.SearchQueryRepository
	logger    *zap.Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(
	queryRepo catalog.SearchQueryRepository,
	logger *zap.Logger,
) *QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{queryRepo: queryRepo, logger: logger}
}

// List returns every query with its brand and category names in creation order
func (s *QueryService) List(ctx context.Context) ([]QueryResponse, error) {
	views, err := s.queryRepo.ListWithNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]QueryResponse, len(views))
	for i, v := range views {
		out[i] = ToQueryResponse(v)
	}
	return out, nil
}

// Create adds an enabled query
func (s *QueryService) Create(ctx context.Context, req CreateQueryRequest) (*QueryResponse, error) {
	q, err := catalog.NewSearchQuery(req.BrandID, req.CategoryID, req.QueryText)
	if err != nil {
		return nil, err
	}
	if err := s.queryRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	s.logger.Info("Search query created",
		zap.String("query_id", q.ID.String()),
		zap.String("query_text", q.QueryText),
	)
	resp := ToQueryResponse(catalog.SearchQueryView{SearchQuery: *q})
	return &resp, nil
}

// Update changes a query's text or enabled flag
func (s *QueryService) Update(ctx context.Context, id uuid.UUID, req UpdateQueryRequest) (*QueryResponse, error) {
	q, err := s.queryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.QueryText != nil {
		if err := q.UpdateText(*req.QueryText); err != nil {
			return nil, err
		}
	}
	if req.Enabled != nil {
		q.SetEnabled(*req.Enabled)
	}
	if err := s.queryRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	resp := ToQueryResponse(catalog.SearchQueryView{SearchQuery: *q})
	return &resp, nil
}

// Delete removes a query
func (s *QueryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.queryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Search query deleted", zap.String("query_id", id.String()))
	return nil
}
