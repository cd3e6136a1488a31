package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	tests := []struct {
		name          string
		supplierName  string
		contactPerson string
		email         string
		phone         string
		wantErr       bool
	}{
		{
			name:          "valid supplier",
			supplierName:  "Fresh Produce Co",
			contactPerson: "Ann Lee",
			email:         "orders@freshproduce.example",
			phone:         "+1 555 0100",
		},
		{
			name:         "empty name",
			supplierName: "",
			wantErr:      true,
		},
		{
			name:         "whitespace only name",
			supplierName: "   ",
			wantErr:      true,
		},
		{
			name:         "invalid email",
			supplierName: "Fresh Produce Co",
			email:        "not-an-email",
			wantErr:      true,
		},
		{
			name:         "invalid phone characters",
			supplierName: "Fresh Produce Co",
			phone:        "call me",
			wantErr:      true,
		},
		{
			name:         "name trimmed",
			supplierName: "  Fresh Produce Co  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			supplier, err := NewSupplier(tt.supplierName, tt.contactPerson, tt.email, tt.phone)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, supplier)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Fresh Produce Co", supplier.Name)
			assert.True(t, supplier.IsActive())
			assert.NotEqual(t, [16]byte{}, supplier.ID)

			events := supplier.GetDomainEvents()
			require.Len(t, events, 1)
			assert.Equal(t, EventTypeSupplierCreated, events[0].EventType())
		})
	}
}

func TestSupplier_UpdateContact(t *testing.T) {
	supplier, err := NewSupplier("Fresh Produce Co", "", "", "")
	require.NoError(t, err)
	supplier.ClearDomainEvents()
	initialVersion := supplier.Version

	err = supplier.UpdateContact("Ann Lee", "ann@freshproduce.example", "+1 555 0100", "12 Market St")
	require.NoError(t, err)

	assert.Equal(t, "Ann Lee", supplier.ContactPerson)
	assert.Equal(t, "ann@freshproduce.example", supplier.Email)
	assert.Equal(t, initialVersion+1, supplier.Version)
	require.Len(t, supplier.GetDomainEvents(), 1)

	err = supplier.UpdateContact("Ann Lee", "bad-email", "", "")
	assert.Error(t, err)
}

func TestSupplier_ActivateDeactivate(t *testing.T) {
	supplier, err := NewSupplier("Fresh Produce Co", "", "", "")
	require.NoError(t, err)

	// Already active
	err = supplier.Activate()
	assert.Error(t, err)

	err = supplier.Deactivate()
	require.NoError(t, err)
	assert.False(t, supplier.IsActive())

	err = supplier.Deactivate()
	assert.Error(t, err)

	err = supplier.Activate()
	require.NoError(t, err)
	assert.True(t, supplier.IsActive())
}

func TestSupplier_Rename(t *testing.T) {
	supplier, err := NewSupplier("Fresh Produce Co", "", "", "")
	require.NoError(t, err)

	err = supplier.Rename("Valley Farms")
	require.NoError(t, err)
	assert.Equal(t, "Valley Farms", supplier.Name)

	err = supplier.Rename("")
	assert.Error(t, err)
	assert.Equal(t, "Valley Farms", supplier.Name)
}
