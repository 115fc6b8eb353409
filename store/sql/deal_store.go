package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-crm-sync/core"
)

const defaultListLimit = 200

type DealStore struct {
	db   *bun.DB
	repo repository.Repository[*dealRecord]
}

func NewDealStore(db *bun.DB) (*DealStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*dealRecord](db, dealHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid deal repository wiring: %w", err)
		}
	}
	return &DealStore{db: db, repo: repo}, nil
}

func (s *DealStore) Create(ctx context.Context, in core.CreateDealInput) (core.Deal, error) {
	if s == nil || s.repo == nil {
		return core.Deal{}, fmt.Errorf("sqlstore: deal store is not configured")
	}
	if in.ExternalID == 0 {
		return core.Deal{}, fmt.Errorf("sqlstore: deal external id is required")
	}

	record := newDealRecord(in)
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return core.Deal{}, err
	}
	return created.toDomain(), nil
}

func (s *DealStore) Update(ctx context.Context, in core.UpdateDealInput) (core.Deal, error) {
	if s == nil || s.db == nil {
		return core.Deal{}, fmt.Errorf("sqlstore: deal store is not configured")
	}
	if in.ExternalID == 0 {
		return core.Deal{}, fmt.Errorf("sqlstore: deal external id is required")
	}

	record := &dealRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.external_id = ?", in.ExternalID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Deal{}, fmt.Errorf("sqlstore: deal %d not found", in.ExternalID)
		}
		return core.Deal{}, err
	}

	record.Title = in.Title
	record.Status = in.Status
	record.Price = copyFloat(in.Price)
	record.PipelineID = copyInt(in.PipelineID)
	record.UpdatedAt = copyTime(in.UpdatedAt)

	updated, err := s.repo.Update(ctx, record, repository.UpdateByID(strings.TrimSpace(record.ID)))
	if err != nil {
		return core.Deal{}, err
	}
	return updated.toDomain(), nil
}

func (s *DealStore) FindByExternalID(ctx context.Context, externalID int64) (core.Deal, bool, error) {
	if s == nil || s.db == nil {
		return core.Deal{}, false, fmt.Errorf("sqlstore: deal store is not configured")
	}
	if externalID == 0 {
		return core.Deal{}, false, nil
	}

	record := &dealRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.external_id = ?", externalID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Deal{}, false, nil
		}
		return core.Deal{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *DealStore) List(ctx context.Context, limit int) ([]core.Deal, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: deal store is not configured")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	var records []*dealRecord
	err := s.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]core.Deal, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}
