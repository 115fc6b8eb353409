package query

import (
	"fmt"
	"strings"
)

const (
	TypeListContacts     = "crmsync.query.contacts.list"
	TypeListDeals        = "crmsync.query.deals.list"
	TypeListDealContacts = "crmsync.query.deal_contacts.list"
)

type ListContactsMessage struct {
	Limit int
}

func (ListContactsMessage) Type() string { return TypeListContacts }

func (m ListContactsMessage) Validate() error {
	if m.Limit < 0 {
		return fmt.Errorf("query: limit must be >= 0")
	}
	return nil
}

type ListDealsMessage struct {
	Limit int
}

func (ListDealsMessage) Type() string { return TypeListDeals }

func (m ListDealsMessage) Validate() error {
	if m.Limit < 0 {
		return fmt.Errorf("query: limit must be >= 0")
	}
	return nil
}

type ListDealContactsMessage struct {
	DealID string
}

func (ListDealContactsMessage) Type() string { return TypeListDealContacts }

func (m ListDealContactsMessage) Validate() error {
	if strings.TrimSpace(m.DealID) == "" {
		return fmt.Errorf("query: deal id is required")
	}
	return nil
}
