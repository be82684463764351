package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingPayment(t *testing.T) *Payment {
	p, err := NewPayment(uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(15000), "+254700000001", "2026-08", "ws_CO_123", PaymentTypeRent)
	require.NoError(t, err)
	return p
}

func TestPaymentLifecycle(t *testing.T) {
	t.Run("completes with receipt", func(t *testing.T) {
		p := newPendingPayment(t)

		require.NoError(t, p.Complete("QCR7TX91LM"))
		assert.Equal(t, PaymentStatusCompleted, p.Status)
		assert.Equal(t, "QCR7TX91LM", p.MpesaReceipt)
		assert.NotNil(t, p.CompletedAt)

		assert.Error(t, p.Complete("AGAIN"))
		assert.Error(t, p.Fail("too late"))
	})

	t.Run("completion requires a receipt", func(t *testing.T) {
		p := newPendingPayment(t)
		assert.Error(t, p.Complete(""))
		assert.Equal(t, PaymentStatusPending, p.Status)
	})

	t.Run("fails with reason", func(t *testing.T) {
		p := newPendingPayment(t)

		require.NoError(t, p.Fail("Request cancelled by user"))
		assert.Equal(t, PaymentStatusFailed, p.Status)
		assert.Equal(t, "Request cancelled by user", p.FailureReason)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		p, err := NewPayment(uuid.New(), uuid.New(), uuid.New(),
			decimal.Zero, "+254700000001", "2026-08", "ws_CO_124", PaymentTypeRent)
		assert.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestPaymentArchive(t *testing.T) {
	t.Run("archives completed payment with original reference", func(t *testing.T) {
		p := newPendingPayment(t)
		require.NoError(t, p.Complete("QCR7TX91LM"))

		archived, err := p.Archive("landlord_deleted")

		require.NoError(t, err)
		assert.Equal(t, p.ID, archived.OriginalPaymentID)
		assert.NotEqual(t, p.ID, archived.ID)
		assert.Equal(t, p.LandlordID, archived.LandlordID)
		assert.True(t, archived.Amount.Equal(p.Amount))
		assert.Equal(t, "QCR7TX91LM", archived.MpesaReceipt)
		assert.Equal(t, "landlord_deleted", archived.ArchivedReason)
		assert.False(t, archived.ArchivedAt.IsZero())
	})

	t.Run("pending payments are not archived", func(t *testing.T) {
		p := newPendingPayment(t)

		archived, err := p.Archive("landlord_deleted")

		assert.Error(t, err)
		assert.Nil(t, archived)
	})
}
