package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type contactRecord struct {
	bun.BaseModel `bun:"table:contacts,alias:c"`

	ID              string     `bun:"id,pk"`
	ExternalID      int64      `bun:"external_id,notnull,unique"`
	Name            string     `bun:"name,notnull"`
	Phone           string     `bun:"phone"`
	NormalizedPhone string     `bun:"normalized_phone"`
	Email           string     `bun:"email"`
	Company         string     `bun:"company_name"`
	CreatedAt       *time.Time `bun:"created_at,nullzero"`
	UpdatedAt       *time.Time `bun:"updated_at,nullzero"`
}

type dealRecord struct {
	bun.BaseModel `bun:"table:deals,alias:d"`

	ID         string     `bun:"id,pk"`
	ExternalID int64      `bun:"external_id,notnull,unique"`
	Title      string     `bun:"title,notnull"`
	Status     string     `bun:"status"`
	Price      *float64   `bun:"price"`
	PipelineID *int64     `bun:"pipeline_id"`
	CreatedAt  *time.Time `bun:"created_at,nullzero"`
	UpdatedAt  *time.Time `bun:"updated_at,nullzero"`
}

type contactDealRecord struct {
	bun.BaseModel `bun:"table:contact_deal,alias:cd"`

	ContactID string `bun:"contact_id,pk"`
	DealID    string `bun:"deal_id,pk"`
}
