package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	CRMSyncErrorBadInput        = "CRM_SYNC_BAD_INPUT"
	CRMSyncErrorContactConflict = "CRM_SYNC_CONTACT_CONFLICT"
	CRMSyncErrorNotFound        = "CRM_SYNC_NOT_FOUND"
	CRMSyncErrorStoreFailure    = "CRM_SYNC_STORE_FAILURE"
	CRMSyncErrorInternal        = "CRM_SYNC_INTERNAL_ERROR"
)

func crmSyncErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureCRMSyncErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "already exists"):
		return newCRMSyncError(err.Error(), goerrors.CategoryConflict, CRMSyncErrorContactConflict)
	case strings.Contains(msg, "not found"):
		return newCRMSyncError(err.Error(), goerrors.CategoryNotFound, CRMSyncErrorNotFound)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "missing"):
		return newCRMSyncError(err.Error(), goerrors.CategoryBadInput, CRMSyncErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureCRMSyncErrorEnvelope(mapped)
}

func newCRMSyncError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureCRMSyncErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureCRMSyncErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = crmSyncHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultCRMSyncTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultCRMSyncTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return CRMSyncErrorBadInput
	case goerrors.CategoryNotFound:
		return CRMSyncErrorNotFound
	case goerrors.CategoryConflict:
		return CRMSyncErrorContactConflict
	case goerrors.CategoryOperation:
		return CRMSyncErrorStoreFailure
	default:
		return CRMSyncErrorInternal
	}
}

func crmSyncHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsConflict reports whether err is the duplicate-add contact conflict.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Category == goerrors.CategoryConflict
	}
	return false
}

func conflictError(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryConflict).
		WithCode(http.StatusConflict).
		WithTextCode(CRMSyncErrorContactConflict)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func badInputError(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(CRMSyncErrorBadInput)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func storeError(source error, message string, metadata map[string]any) error {
	if source == nil {
		return nil
	}
	err := goerrors.Wrap(source, goerrors.CategoryOperation, message).
		WithCode(http.StatusInternalServerError).
		WithTextCode(CRMSyncErrorStoreFailure)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
