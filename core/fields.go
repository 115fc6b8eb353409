package core

import "strings"

const (
	fieldCodePhone = "PHONE"
	fieldCodeEmail = "EMAIL"

	// Account-localized field labels. amoCRM ships Russian labels by
	// default; English is matched as well for mixed-locale accounts.
	phoneFieldMarker   = "телефон"
	phoneFieldMarkerEN = "phone"
	emailFieldMarker   = "email"
)

// ExtractPhone scans the event's custom-field list for the phone field:
// either the PHONE code marker or a name containing the localized label,
// case-insensitive. Returns the first value of the first match, or "" when
// the event carries no custom fields or no phone field.
func ExtractPhone(ev ContactEvent) string {
	return extractCustomField(ev.CustomFields, fieldCodePhone, phoneFieldMarker, phoneFieldMarkerEN)
}

// ExtractEmail scans for the EMAIL code marker or a name containing "email",
// case-insensitive. Returns "" when absent.
func ExtractEmail(ev ContactEvent) string {
	return extractCustomField(ev.CustomFields, fieldCodeEmail, emailFieldMarker)
}

func extractCustomField(fields []CustomField, code string, nameMarkers ...string) string {
	for _, field := range fields {
		if !matchesField(field, code, nameMarkers) {
			continue
		}
		if len(field.Values) == 0 {
			return ""
		}
		return field.Values[0].Value
	}
	return ""
}

func matchesField(field CustomField, code string, nameMarkers []string) bool {
	if field.Code == code {
		return true
	}
	name := strings.ToLower(field.Name)
	for _, marker := range nameMarkers {
		if marker != "" && strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
