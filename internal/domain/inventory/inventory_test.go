package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreStock(t *testing.T) {
	s, err := NewStoreStock(uuid.New(), uuid.New(), 7)
	require.NoError(t, err)
	assert.True(t, s.CanSupply(7))
	assert.False(t, s.CanSupply(8))

	_, err = NewStoreStock(uuid.Nil, uuid.New(), 1)
	assert.Error(t, err)
	_, err = NewStoreStock(uuid.New(), uuid.New(), -1)
	assert.Error(t, err)

	assert.Error(t, s.SetQuantity(-2))
	require.NoError(t, s.SetQuantity(0))
	assert.Equal(t, 0, s.Quantity)
}

func TestValidateTransfer(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		from    uuid.UUID
		to      uuid.UUID
		items   []TransferItem
		wantErr bool
	}{
		{"empty item list is allowed", a, b, nil, false},
		{"same store is allowed", a, a, []TransferItem{{ProductID: uuid.New(), Quantity: 1}}, false},
		{"missing source store", uuid.Nil, b, nil, true},
		{"zero quantity", a, b, []TransferItem{{ProductID: uuid.New(), Quantity: 0}}, true},
		{"negative quantity", a, b, []TransferItem{{ProductID: uuid.New(), Quantity: -4}}, true},
		{"missing product", a, b, []TransferItem{{Quantity: 2}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransfer(tt.from, tt.to, tt.items)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewStockTransfer(t *testing.T) {
	by := uuid.New()
	tr := NewStockTransfer(uuid.New(), uuid.New(), uuid.New(), 3, &by)
	assert.NotEqual(t, uuid.Nil, tr.ID)
	assert.Equal(t, 3, tr.Quantity)
	assert.False(t, tr.CreatedAt.IsZero())
}
