package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "cadastre/pkg/domain-errors"
)

// TestParsePrincipal_Invariants validates the parsing invariant:
// "principals arriving at trust boundaries must be non-empty".
func TestParsePrincipal_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePrincipal("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects whitespace-only string", func(t *testing.T) {
		_, err := ParsePrincipal("   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts opaque token", func(t *testing.T) {
		p, err := ParsePrincipal("alice@example")
		require.NoError(t, err)
		assert.Equal(t, Principal("alice@example"), p)
		assert.False(t, p.IsZero())
	})

	t.Run("zero principal is expressible by direct cast", func(t *testing.T) {
		// Transfer targets may legally be the zero principal; only the
		// parse path rejects it.
		assert.True(t, ZeroPrincipal.IsZero())
	})
}

func TestParseLocation(t *testing.T) {
	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseLocation("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts street address", func(t *testing.T) {
		l, err := ParseLocation("123 Elm St")
		require.NoError(t, err)
		assert.Equal(t, "123 Elm St", l.String())
	})
}

func TestParsePropertyStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PropertyStatus
		wantErr bool
	}{
		{name: "for_sale", input: "for_sale", want: StatusForSale},
		{name: "mortgaged", input: "mortgaged", want: StatusMortgaged},
		{name: "rented", input: "rented", want: StatusRented},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "unknown rejected", input: "condemned", wantErr: true},
		{name: "case sensitive", input: "ForSale", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePropertyStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransactionKindFor(t *testing.T) {
	assert.Equal(t, TransactionRent, TransactionKindFor(StatusRented))
	assert.Equal(t, TransactionMortgage, TransactionKindFor(StatusMortgaged))
	assert.Equal(t, TransactionPurchase, TransactionKindFor(StatusForSale))
	// Unknown statuses fall through to purchase, matching the notification
	// selection rule "else purchase".
	assert.Equal(t, TransactionPurchase, TransactionKindFor(PropertyStatus("")))
}
