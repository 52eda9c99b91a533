package upi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/upiqr/pkg/upi"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	base := upi.FieldSet{
		PayeeAddress: upi.Some("m@bank"),
		Amount:       upi.Some("100"),
	}

	t.Run("override replaces only present keys", func(t *testing.T) {
		t.Parallel()

		merged := upi.Merge(base, upi.ModifyRequest{Amount: upi.Some("200")})
		assert.True(t, merged.Equal(upi.FieldSet{
			PayeeAddress: upi.Some("m@bank"),
			Amount:       upi.Some("200"),
		}))
	})

	t.Run("empty request leaves fields unchanged", func(t *testing.T) {
		t.Parallel()

		req := upi.ModifyRequest{}
		assert.True(t, req.IsEmpty())
		assert.True(t, upi.Merge(base, req).Equal(base))
	})

	t.Run("present empty value clears", func(t *testing.T) {
		t.Parallel()

		merged := upi.Merge(base, upi.ModifyRequest{Amount: upi.Some("")})
		raw, err := upi.Build(merged)
		require.NoError(t, err)
		assert.Equal(t, "upi://pay?pa=m@bank", raw)
	})

	t.Run("clearing payee address fails the build", func(t *testing.T) {
		t.Parallel()

		merged := upi.Merge(base, upi.ModifyRequest{PayeeAddress: upi.Some("")})
		_, err := upi.Build(merged)
		assert.ErrorIs(t, err, upi.ErrFieldRequired)
	})

	t.Run("adds new fields", func(t *testing.T) {
		t.Parallel()

		merged := upi.Merge(base, upi.ModifyRequest{TransactionNote: upi.Some("Modified Payment")})
		assert.Equal(t, upi.Some("Modified Payment"), merged.TransactionNote)
		assert.Equal(t, upi.Some("100"), merged.Amount)
	})

	t.Run("passthrough overrides keep position", func(t *testing.T) {
		t.Parallel()

		src, err := upi.Parse("upi://pay?pa=m@bank&aa=1&bb=2")
		require.NoError(t, err)

		var req upi.ModifyRequest
		req.Set("aa", "9")
		req.Set("cc", "3")

		merged := upi.Merge(src, req)
		assert.Equal(t, []upi.Param{
			{Code: "aa", Value: "9"},
			{Code: "bb", Value: "2"},
			{Code: "cc", Value: "3"},
		}, merged.Params())
	})

	t.Run("base is not mutated", func(t *testing.T) {
		t.Parallel()

		src, err := upi.Parse("upi://pay?pa=m@bank&aa=1")
		require.NoError(t, err)
		snapshot := src.Clone()

		var req upi.ModifyRequest
		req.Set("aa", "2")
		req.Amount = upi.Some("5")
		_ = upi.Merge(src, req)

		assert.True(t, src.Equal(snapshot))
	})
}
