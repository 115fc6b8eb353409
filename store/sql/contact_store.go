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

type ContactStore struct {
	db   *bun.DB
	repo repository.Repository[*contactRecord]
}

func NewContactStore(db *bun.DB) (*ContactStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*contactRecord](db, contactHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid contact repository wiring: %w", err)
		}
	}
	return &ContactStore{db: db, repo: repo}, nil
}

func (s *ContactStore) Create(ctx context.Context, in core.CreateContactInput) (core.Contact, error) {
	if s == nil || s.repo == nil {
		return core.Contact{}, fmt.Errorf("sqlstore: contact store is not configured")
	}
	if in.ExternalID == 0 {
		return core.Contact{}, fmt.Errorf("sqlstore: contact external id is required")
	}

	record := newContactRecord(in)
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return core.Contact{}, err
	}
	return created.toDomain(), nil
}

func (s *ContactStore) Update(ctx context.Context, in core.UpdateContactInput) (core.Contact, error) {
	if s == nil || s.db == nil {
		return core.Contact{}, fmt.Errorf("sqlstore: contact store is not configured")
	}
	if in.ExternalID == 0 {
		return core.Contact{}, fmt.Errorf("sqlstore: contact external id is required")
	}

	record := &contactRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.external_id = ?", in.ExternalID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Contact{}, fmt.Errorf("sqlstore: contact %d not found", in.ExternalID)
		}
		return core.Contact{}, err
	}

	record.Name = in.Name
	record.Phone = in.Phone
	record.NormalizedPhone = in.NormalizedPhone
	record.Email = in.Email
	record.Company = in.Company
	record.UpdatedAt = copyTime(in.UpdatedAt)

	updated, err := s.repo.Update(ctx, record, repository.UpdateByID(strings.TrimSpace(record.ID)))
	if err != nil {
		return core.Contact{}, err
	}
	return updated.toDomain(), nil
}

func (s *ContactStore) FindByExternalID(ctx context.Context, externalID int64) (core.Contact, bool, error) {
	if s == nil || s.db == nil {
		return core.Contact{}, false, fmt.Errorf("sqlstore: contact store is not configured")
	}
	if externalID == 0 {
		return core.Contact{}, false, nil
	}

	record := &contactRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.external_id = ?", externalID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Contact{}, false, nil
		}
		return core.Contact{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *ContactStore) FindByNormalizedPhone(ctx context.Context, normalizedPhone string) (core.Contact, bool, error) {
	if s == nil || s.db == nil {
		return core.Contact{}, false, fmt.Errorf("sqlstore: contact store is not configured")
	}
	normalizedPhone = strings.TrimSpace(normalizedPhone)
	if normalizedPhone == "" {
		return core.Contact{}, false, nil
	}

	// normalized_phone is not unique; the first row wins, matching the
	// best-effort nature of the phone key.
	record := &contactRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.normalized_phone = ?", normalizedPhone).
		OrderExpr("?TableAlias.created_at ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Contact{}, false, nil
		}
		return core.Contact{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *ContactStore) List(ctx context.Context, limit int) ([]core.Contact, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: contact store is not configured")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	var records []*contactRecord
	err := s.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]core.Contact, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}
