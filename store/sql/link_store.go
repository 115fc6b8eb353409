package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-crm-sync/core"
)

type LinkStore struct {
	db *bun.DB
}

func NewLinkStore(db *bun.DB) (*LinkStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &LinkStore{db: db}, nil
}

// Link inserts one (contact, deal) pair. An existing pair is left alone: the
// junction has a uniqueness constraint and the insert ignores the conflict.
func (s *LinkStore) Link(ctx context.Context, contactID string, dealID string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: link store is not configured")
	}
	contactID = strings.TrimSpace(contactID)
	dealID = strings.TrimSpace(dealID)
	if contactID == "" || dealID == "" {
		return fmt.Errorf("sqlstore: contact id and deal id are required")
	}

	_, err := s.db.NewInsert().
		Model(&contactDealRecord{ContactID: contactID, DealID: dealID}).
		On("CONFLICT (contact_id, deal_id) DO NOTHING").
		Exec(ctx)
	return err
}

// Replace swaps the full link set of one deal inside a single transaction:
// delete everything, insert the new set, all-or-nothing.
func (s *LinkStore) Replace(ctx context.Context, dealID string, contactIDs []string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: link store is not configured")
	}
	dealID = strings.TrimSpace(dealID)
	if dealID == "" {
		return fmt.Errorf("sqlstore: deal id is required")
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*contactDealRecord)(nil)).
			Where("deal_id = ?", dealID).
			Exec(ctx); err != nil {
			return err
		}

		if len(contactIDs) == 0 {
			return nil
		}

		records := make([]*contactDealRecord, 0, len(contactIDs))
		for _, contactID := range contactIDs {
			contactID = strings.TrimSpace(contactID)
			if contactID == "" {
				continue
			}
			records = append(records, &contactDealRecord{
				ContactID: contactID,
				DealID:    dealID,
			})
		}
		if len(records) == 0 {
			return nil
		}

		_, err := tx.NewInsert().Model(&records).Exec(ctx)
		return err
	})
}

// ListDealContacts returns the contacts linked to a deal, joined through the
// junction table.
func (s *LinkStore) ListDealContacts(ctx context.Context, dealID string) ([]core.Contact, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: link store is not configured")
	}
	dealID = strings.TrimSpace(dealID)
	if dealID == "" {
		return nil, fmt.Errorf("sqlstore: deal id is required")
	}

	var records []*contactRecord
	err := s.db.NewSelect().
		Model(&records).
		Join("JOIN contact_deal AS cd ON cd.contact_id = ?TableAlias.id").
		Where("cd.deal_id = ?", dealID).
		OrderExpr("?TableAlias.created_at ASC").
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
