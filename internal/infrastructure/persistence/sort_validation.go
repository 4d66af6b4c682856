package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting
// to DESC for anything invalid
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist,
// returning defaultField for anything not on it
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"category":      true,
	"unit":          true,
	"current_stock": true,
	"min_stock":     true,
}

// StockMutationSortFields contains allowed sort fields for stock mutations
var StockMutationSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"jenis_mutasi":   true,
	"quantity":       true,
	"reference_type": true,
}

// SupplyRequestSortFields contains allowed sort fields for supply requests
var SupplyRequestSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"request_number": true,
	"request_date":   true,
	"status":         true,
	"variant":        true,
	"requester_name": true,
}

// PurchaseSortFields contains allowed sort fields for purchases
var PurchaseSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"purchase_number": true,
	"purchase_date":   true,
	"status":          true,
	"supplier":        true,
	"total_amount":    true,
}

// StockOpnameSortFields contains allowed sort fields for stock opnames
var StockOpnameSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"opname_number": true,
	"opname_date":   true,
	"status":        true,
}

// NotificationLogSortFields contains allowed sort fields for notification logs
var NotificationLogSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"event_type": true,
	"status":     true,
	"sent_at":    true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
	"role":       true,
}
