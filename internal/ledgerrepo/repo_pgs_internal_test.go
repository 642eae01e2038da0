package ledgerrepo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pruthvirajsm/bank-ledger/internal/domain"
)

func TestNegated(t *testing.T) {
	testCases := []struct {
		name    string
		amount  string
		want    string
		wantErr error
	}{
		{"Plain", "10", "-10", nil},
		{"Decimal", "100.50", "-100.5", nil},
		{"LeadingPlus", "+10", "-10", nil},
		{"Malformed", "ten", "", domain.ErrInvalidAmount},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			got, err := negated(tc.amount)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
