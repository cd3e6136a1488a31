package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/caterflow/backend/internal/domain/partner"
	"github.com/caterflow/backend/internal/domain/shared"
)

// CreateSupplierRequest is the request to create a supplier
type CreateSupplierRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	ContactPerson string `json:"contact_person" binding:"omitempty,max=100"`
	Email         string `json:"email" binding:"omitempty,email,max=200"`
	Phone         string `json:"phone" binding:"omitempty,max=50"`
	Address       string `json:"address" binding:"omitempty,max=500"`
	Notes         string `json:"notes"`
}

// UpdateSupplierRequest is the request to update a supplier. Only the
// fields present in the payload are touched.
type UpdateSupplierRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=200"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=100"`
	Email         *string `json:"email" binding:"omitempty,max=200"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Address       *string `json:"address" binding:"omitempty,max=500"`
	Notes         *string `json:"notes"`
}

// SupplierListFilter holds the query parameters for listing suppliers
type SupplierListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
}

// SupplierResponse is the API representation of a supplier
type SupplierResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateSiteRequest is the request to create a site
type CreateSiteRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Type    string `json:"type" binding:"required,oneof=kitchen warehouse venue"`
	Address string `json:"address" binding:"omitempty,max=500"`
	Manager string `json:"manager" binding:"omitempty,max=100"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Notes   string `json:"notes"`
}

// UpdateSiteRequest is the request to update a site
type UpdateSiteRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=200"`
	Type    *string `json:"type" binding:"omitempty,oneof=kitchen warehouse venue"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Manager *string `json:"manager" binding:"omitempty,max=100"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Notes   *string `json:"notes"`
}

// SiteListFilter holds the query parameters for listing sites
type SiteListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Type     string `form:"type"`
	Active   *bool  `form:"active"`
}

// SiteResponse is the API representation of a site
type SiteResponse struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Type      partner.SiteType `json:"type"`
	Address   string           `json:"address,omitempty"`
	Manager   string           `json:"manager,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	Notes     string           `json:"notes,omitempty"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ToSupplierResponse converts a supplier aggregate to its API representation
func ToSupplierResponse(supplier *partner.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:            supplier.ID,
		Name:          supplier.Name,
		ContactPerson: supplier.ContactPerson,
		Email:         supplier.Email,
		Phone:         supplier.Phone,
		Address:       supplier.Address,
		Notes:         supplier.Notes,
		Active:        supplier.Active,
		CreatedAt:     supplier.CreatedAt,
		UpdatedAt:     supplier.UpdatedAt,
	}
}

// ToSupplierResponses converts a page of suppliers
func ToSupplierResponses(page *shared.Paginated[*partner.Supplier]) *shared.Paginated[*SupplierResponse] {
	items := make([]*SupplierResponse, len(page.Items))
	for i, supplier := range page.Items {
		items[i] = ToSupplierResponse(supplier)
	}
	return &shared.Paginated[*SupplierResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

// ToSiteResponse converts a site aggregate to its API representation
func ToSiteResponse(site *partner.Site) *SiteResponse {
	return &SiteResponse{
		ID:        site.ID,
		Name:      site.Name,
		Type:      site.Type,
		Address:   site.Address,
		Manager:   site.Manager,
		Phone:     site.Phone,
		Notes:     site.Notes,
		Active:    site.Active,
		CreatedAt: site.CreatedAt,
		UpdatedAt: site.UpdatedAt,
	}
}

// ToSiteResponses converts a page of sites
func ToSiteResponses(page *shared.Paginated[*partner.Site]) *shared.Paginated[*SiteResponse] {
	items := make([]*SiteResponse, len(page.Items))
	for i, site := range page.Items {
		items[i] = ToSiteResponse(site)
	}
	return &shared.Paginated[*SiteResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
