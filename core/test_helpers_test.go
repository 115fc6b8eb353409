package core

import (
	"context"
	"fmt"
	"sync"
)

type memoryContactStore struct {
	mu       sync.Mutex
	nextID   int
	contacts []Contact

	createErr error
	lookupErr error
}

func newMemoryContactStore() *memoryContactStore {
	return &memoryContactStore{}
}

func (s *memoryContactStore) Create(_ context.Context, in CreateContactInput) (Contact, error) {
	if s.createErr != nil {
		return Contact{}, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	contact := Contact{
		ID:              fmt.Sprintf("contact_%d", s.nextID),
		ExternalID:      in.ExternalID,
		Name:            in.Name,
		Phone:           in.Phone,
		NormalizedPhone: in.NormalizedPhone,
		Email:           in.Email,
		Company:         in.Company,
		CreatedAt:       in.CreatedAt,
		UpdatedAt:       in.UpdatedAt,
	}
	s.contacts = append(s.contacts, contact)
	return contact, nil
}

func (s *memoryContactStore) Update(_ context.Context, in UpdateContactInput) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, contact := range s.contacts {
		if contact.ExternalID != in.ExternalID {
			continue
		}
		contact.Name = in.Name
		contact.Phone = in.Phone
		contact.NormalizedPhone = in.NormalizedPhone
		contact.Email = in.Email
		contact.Company = in.Company
		contact.UpdatedAt = in.UpdatedAt
		s.contacts[i] = contact
		return contact, nil
	}
	return Contact{}, fmt.Errorf("memory store: contact %d not found", in.ExternalID)
}

func (s *memoryContactStore) FindByExternalID(_ context.Context, externalID int64) (Contact, bool, error) {
	if s.lookupErr != nil {
		return Contact{}, false, s.lookupErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, contact := range s.contacts {
		if contact.ExternalID == externalID {
			return contact, true, nil
		}
	}
	return Contact{}, false, nil
}

func (s *memoryContactStore) FindByNormalizedPhone(_ context.Context, normalizedPhone string) (Contact, bool, error) {
	if s.lookupErr != nil {
		return Contact{}, false, s.lookupErr
	}
	if normalizedPhone == "" {
		return Contact{}, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, contact := range s.contacts {
		if contact.NormalizedPhone == normalizedPhone {
			return contact, true, nil
		}
	}
	return Contact{}, false, nil
}

func (s *memoryContactStore) List(_ context.Context, limit int) ([]Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Contact(nil), s.contacts...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryContactStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts)
}

type memoryDealStore struct {
	mu     sync.Mutex
	nextID int
	deals  []Deal
}

func newMemoryDealStore() *memoryDealStore {
	return &memoryDealStore{}
}

func (s *memoryDealStore) Create(_ context.Context, in CreateDealInput) (Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	deal := Deal{
		ID:         fmt.Sprintf("deal_%d", s.nextID),
		ExternalID: in.ExternalID,
		Title:      in.Title,
		Status:     in.Status,
		Price:      in.Price,
		PipelineID: in.PipelineID,
		CreatedAt:  in.CreatedAt,
		UpdatedAt:  in.UpdatedAt,
	}
	s.deals = append(s.deals, deal)
	return deal, nil
}

func (s *memoryDealStore) Update(_ context.Context, in UpdateDealInput) (Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, deal := range s.deals {
		if deal.ExternalID != in.ExternalID {
			continue
		}
		deal.Title = in.Title
		deal.Status = in.Status
		deal.Price = in.Price
		deal.PipelineID = in.PipelineID
		deal.UpdatedAt = in.UpdatedAt
		s.deals[i] = deal
		return deal, nil
	}
	return Deal{}, fmt.Errorf("memory store: deal %d not found", in.ExternalID)
}

func (s *memoryDealStore) FindByExternalID(_ context.Context, externalID int64) (Deal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, deal := range s.deals {
		if deal.ExternalID == externalID {
			return deal, true, nil
		}
	}
	return Deal{}, false, nil
}

func (s *memoryDealStore) List(_ context.Context, limit int) ([]Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Deal(nil), s.deals...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryDealStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deals)
}

type memoryLinkStore struct {
	mu    sync.Mutex
	links map[string][]string

	replaceErr error
}

func newMemoryLinkStore() *memoryLinkStore {
	return &memoryLinkStore{links: map[string][]string{}}
}

func (s *memoryLinkStore) Link(_ context.Context, contactID string, dealID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.links[dealID] {
		if existing == contactID {
			return nil
		}
	}
	s.links[dealID] = append(s.links[dealID], contactID)
	return nil
}

func (s *memoryLinkStore) Replace(_ context.Context, dealID string, contactIDs []string) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[dealID] = append([]string(nil), contactIDs...)
	return nil
}

func (s *memoryLinkStore) ListDealContacts(_ context.Context, dealID string) ([]Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Contact, 0, len(s.links[dealID]))
	for _, contactID := range s.links[dealID] {
		out = append(out, Contact{ID: contactID})
	}
	return out, nil
}

func (s *memoryLinkStore) dealLinks(dealID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.links[dealID]...)
}

func newTestEngine(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, options ...Option) (*Engine, *memoryContactStore, *memoryDealStore, *memoryLinkStore) {
	t.Helper()
	contacts := newMemoryContactStore()
	deals := newMemoryDealStore()
	links := newMemoryLinkStore()
	engine, err := NewEngine(Config{},
		append([]Option{
			WithContactStore(contacts),
			WithDealStore(deals),
			WithLinkStore(links),
		}, options...)...,
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine, contacts, deals, links
}

func phoneField(value string) CustomField {
	return CustomField{
		Code:   "PHONE",
		Values: []CustomFieldValue{{Value: value}},
	}
}

func emailField(value string) CustomField {
	return CustomField{
		Code:   "EMAIL",
		Values: []CustomFieldValue{{Value: value}},
	}
}

