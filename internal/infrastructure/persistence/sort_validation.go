package persistence

import "strings"

// sortFields is a whitelist of columns a listing may order by. Every table
// accepts id and the timestamps.
type sortFields map[string]bool

func sortable(columns ...string) sortFields {
	fields := sortFields{"id": true, "created_at": true, "updated_at": true}
	for _, c := range columns {
		fields[c] = true
	}
	return fields
}

var (
	namedSortFields   = sortable("name")
	productSortFields = sortable("name", "code", "price", "stock", "brand")
	clientSortFields  = sortable("first_name", "last_name", "email", "balance", "credit_limit", "behavior_rating")
	orderSortFields   = sortable("total", "status")
	userSortFields    = sortable("username", "role", "last_login_at")
)

// column returns requested when whitelisted, otherwise fallback. The value is
// interpolated into ORDER BY, so nothing outside the list may pass.
func (f sortFields) column(requested, fallback string) string {
	if requested = strings.TrimSpace(requested); f[requested] {
		return requested
	}
	return fallback
}

// sortDirection is ASC only when asked for, DESC otherwise
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}
