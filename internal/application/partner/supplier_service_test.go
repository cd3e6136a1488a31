package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caterflow/backend/internal/domain/partner"
	"github.com/caterflow/backend/internal/domain/shared"
)

func newSupplier(t *testing.T, name string) *partner.Supplier {
	t.Helper()
	supplier, err := partner.NewSupplier(name, "Maria Kelly", "maria@northfoods.example", "+44 20 1234 5678")
	require.NoError(t, err)
	return supplier
}

func TestSupplierService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active supplier", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo)

		repo.On("ExistsByName", mock.Anything, "North Foods", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Supplier")).Return(nil)

		resp, err := svc.Create(ctx, CreateSupplierRequest{
			Name:          "North Foods",
			ContactPerson: "Maria Kelly",
			Email:         "maria@northfoods.example",
			Phone:         "+44 20 1234 5678",
			Notes:         "Weekly veg delivery",
		})
		require.NoError(t, err)

		assert.Equal(t, "North Foods", resp.Name)
		assert.True(t, resp.Active)
		assert.Equal(t, "Weekly veg delivery", resp.Notes)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo)

		repo.On("ExistsByName", mock.Anything, "North Foods", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, CreateSupplierRequest{Name: "North Foods"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo)

		repo.On("ExistsByName", mock.Anything, "North Foods", (*uuid.UUID)(nil)).Return(false, nil)

		_, err := svc.Create(ctx, CreateSupplierRequest{Name: "North Foods", Email: "not-an-email"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})
}

func TestSupplierService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo)

		supplier := newSupplier(t, "North Foods")
		repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		repo.On("Save", mock.Anything, supplier).Return(nil)

		phone := "+44 20 9999 0000"
		resp, err := svc.Update(ctx, supplier.ID, UpdateSupplierRequest{Phone: &phone})
		require.NoError(t, err)

		assert.Equal(t, "+44 20 9999 0000", resp.Phone)
		assert.Equal(t, "Maria Kelly", resp.ContactPerson)
		assert.Equal(t, "maria@northfoods.example", resp.Email)
	})

	t.Run("rename checks uniqueness against other suppliers", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo)

		supplier := newSupplier(t, "North Foods")
		repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		repo.On("ExistsByName", mock.Anything, "South Foods", &supplier.ID).Return(true, nil)

		name := "South Foods"
		_, err := svc.Update(ctx, supplier.ID, UpdateSupplierRequest{Name: &name})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSupplierService_ActivateDeactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivate then reactivate", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo)

		supplier := newSupplier(t, "North Foods")
		repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		repo.On("Save", mock.Anything, supplier).Return(nil)

		resp, err := svc.Deactivate(ctx, supplier.ID)
		require.NoError(t, err)
		assert.False(t, resp.Active)

		resp, err = svc.Activate(ctx, supplier.ID)
		require.NoError(t, err)
		assert.True(t, resp.Active)
	})

	t.Run("deactivating an inactive supplier fails", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo)

		supplier := newSupplier(t, "North Foods")
		require.NoError(t, supplier.Deactivate())
		repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)

		_, err := svc.Deactivate(ctx, supplier.ID)
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSupplierService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an existing supplier", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo)

		supplier := newSupplier(t, "North Foods")
		repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		repo.On("Delete", mock.Anything, supplier.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, supplier.ID))
		repo.AssertExpectations(t)
	})

	t.Run("unknown supplier yields not found", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		svc := NewSupplierService(repo)

		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.NewDomainError("NOT_FOUND", "supplier not found"))

		err := svc.Delete(ctx, id)
		require.Error(t, err)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
