package reservation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatrix_UsesOverallSpan(t *testing.T) {
	rows := BuildMatrix(Month{Year: 2025, Month: 1}, []int64{7, 8}, []Booking{threeWindowBooking(1, 7)})
	require.Len(t, rows, 31)

	for i, row := range rows {
		if i < 6 {
			require.NotNil(t, row.Venues[7], row.Date)
			assert.Equal(t, "Expo", *row.Venues[7])
		} else {
			assert.Nil(t, row.Venues[7], row.Date)
		}
		assert.Nil(t, row.Venues[8])
	}
}

func TestBuildMatrix_LastOrderWins(t *testing.T) {
	first := threeWindowBooking(1, 7)
	second := threeWindowBooking(2, 7)
	second.EventName = "Concert"

	rows := BuildMatrix(Month{Year: 2025, Month: 1}, []int64{7}, []Booking{first, second})
	require.NotNil(t, rows[0].Venues[7])
	assert.Equal(t, "Concert", *rows[0].Venues[7])
}

func TestMatrixRow_JSONIsFlat(t *testing.T) {
	name := "Expo"
	row := MatrixRow{Date: "2025-01-01", Venues: map[int64]*string{7: &name, 8: nil}}
	raw, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-01-01","7":"Expo","8":null}`, string(raw))
}
