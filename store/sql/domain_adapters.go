package sqlstore

import (
	"time"

	"github.com/goliatone/go-crm-sync/core"
)

func newContactRecord(in core.CreateContactInput) *contactRecord {
	return &contactRecord{
		ExternalID:      in.ExternalID,
		Name:            in.Name,
		Phone:           in.Phone,
		NormalizedPhone: in.NormalizedPhone,
		Email:           in.Email,
		Company:         in.Company,
		CreatedAt:       copyTime(in.CreatedAt),
		UpdatedAt:       copyTime(in.UpdatedAt),
	}
}

func (r *contactRecord) toDomain() core.Contact {
	if r == nil {
		return core.Contact{}
	}
	return core.Contact{
		ID:              r.ID,
		ExternalID:      r.ExternalID,
		Name:            r.Name,
		Phone:           r.Phone,
		NormalizedPhone: r.NormalizedPhone,
		Email:           r.Email,
		Company:         r.Company,
		CreatedAt:       copyTime(r.CreatedAt),
		UpdatedAt:       copyTime(r.UpdatedAt),
	}
}

func newDealRecord(in core.CreateDealInput) *dealRecord {
	return &dealRecord{
		ExternalID: in.ExternalID,
		Title:      in.Title,
		Status:     in.Status,
		Price:      copyFloat(in.Price),
		PipelineID: copyInt(in.PipelineID),
		CreatedAt:  copyTime(in.CreatedAt),
		UpdatedAt:  copyTime(in.UpdatedAt),
	}
}

func (r *dealRecord) toDomain() core.Deal {
	if r == nil {
		return core.Deal{}
	}
	return core.Deal{
		ID:         r.ID,
		ExternalID: r.ExternalID,
		Title:      r.Title,
		Status:     r.Status,
		Price:      copyFloat(r.Price),
		PipelineID: copyInt(r.PipelineID),
		CreatedAt:  copyTime(r.CreatedAt),
		UpdatedAt:  copyTime(r.UpdatedAt),
	}
}

func copyTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func copyFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func copyInt(value *int64) *int64 {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
