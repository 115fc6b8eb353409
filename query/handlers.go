package query

import (
	"context"

	"github.com/goliatone/go-crm-sync/core"
)

type ContactReader interface {
	List(ctx context.Context, limit int) ([]core.Contact, error)
}

type DealReader interface {
	List(ctx context.Context, limit int) ([]core.Deal, error)
}

type DealContactReader interface {
	ListDealContacts(ctx context.Context, dealID string) ([]core.Contact, error)
}

type ListContactsQuery struct {
	reader ContactReader
}

func NewListContactsQuery(reader ContactReader) *ListContactsQuery {
	return &ListContactsQuery{reader: reader}
}

func (q *ListContactsQuery) Query(ctx context.Context, msg ListContactsMessage) ([]core.Contact, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: contact reader is required")
	}
	return q.reader.List(ctx, msg.Limit)
}

type ListDealsQuery struct {
	reader DealReader
}

func NewListDealsQuery(reader DealReader) *ListDealsQuery {
	return &ListDealsQuery{reader: reader}
}

func (q *ListDealsQuery) Query(ctx context.Context, msg ListDealsMessage) ([]core.Deal, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: deal reader is required")
	}
	return q.reader.List(ctx, msg.Limit)
}

type ListDealContactsQuery struct {
	reader DealContactReader
}

func NewListDealContactsQuery(reader DealContactReader) *ListDealContactsQuery {
	return &ListDealContactsQuery{reader: reader}
}

func (q *ListDealContactsQuery) Query(ctx context.Context, msg ListDealContactsMessage) ([]core.Contact, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: deal contact reader is required")
	}
	return q.reader.ListDealContacts(ctx, msg.DealID)
}
