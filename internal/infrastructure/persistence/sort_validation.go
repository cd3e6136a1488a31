package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"contact_person": true,
	"email":          true,
	"active":         true,
}

// SiteSortFields contains allowed sort fields for sites
var SiteSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"type":       true,
	"active":     true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"sku":                 true,
	"name":                true,
	"unit_of_measure":     true,
	"unit_price":          true,
	"minimum_stock_level": true,
}

// BinSortFields contains allowed sort fields for bins
var BinSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"site_id":    true,
	"active":     true,
}

// DocumentSortFields contains allowed sort fields for numbered documents
var DocumentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"status":     true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"status":        true,
	"supplier_id":   true,
	"site_id":       true,
	"order_date":    true,
	"grand_total":   true,
	"origin":        true,
	"expected_date": true,
}

// TransferSortFields contains allowed sort fields for internal transfers
var TransferSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"status":        true,
	"from_site_id":  true,
	"to_site_id":    true,
	"transfer_date": true,
}

// AdjustmentSortFields contains allowed sort fields for stock adjustments
var AdjustmentSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"number":          true,
	"status":          true,
	"site_id":         true,
	"reason":          true,
	"adjustment_date": true,
}

// BinCountSortFields contains allowed sort fields for bin counts
var BinCountSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"status":     true,
	"site_id":    true,
	"bin_id":     true,
	"count_date": true,
}

// DispatchSortFields contains allowed sort fields for dispatch logs
var DispatchSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"number":          true,
	"evidence_status": true,
	"site_id":         true,
	"dispatch_date":   true,
	"event_name":      true,
	"grand_total":     true,
	"people_fed":      true,
}
