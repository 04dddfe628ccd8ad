package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Advance(t *testing.T) {
	next, err := StatusNewInquiry.Advance(StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, next)

	again, err := next.Advance(StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, again)

	done, err := again.Advance(StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done)

	_, err = done.Advance(StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = StatusNewInquiry.Advance(Status(7))
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestStatus_Color(t *testing.T) {
	assert.Equal(t, "green", StatusNewInquiry.Color())
	assert.Equal(t, "yellow", StatusConfirmed.Color())
	assert.Equal(t, "blue", StatusCompleted.Color())
}

func TestSummarize(t *testing.T) {
	today := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)

	inJanuary := threeWindowBooking(1, 7)
	february := Booking{
		OrderID:   2,
		EventName: "Winter Gala",
		Windows:   []Window{{Type: WindowShow, Start: dayPtr("2025-02-14"), End: dayPtr("2025-02-15")}},
	}
	past := Booking{
		OrderID: 3,
		Windows: []Window{{Type: WindowShow, Start: dayPtr("2024-11-01"), End: dayPtr("2024-11-02")}},
	}

	s := Summarize(today, []Booking{february, inJanuary, past})
	assert.Equal(t, 1, s.EventsThisMonth)
	assert.Equal(t, 1, s.EventsNextMonth)
	require.NotNil(t, s.NearestEvent)
	assert.Equal(t, int64(1), s.NearestEvent.OrderID)
	assert.Equal(t, "2025-01-04", s.NearestEvent.StartsOn)
	assert.Equal(t, 2, s.NearestEvent.DaysUntil)
}

func TestSummarize_NoUpcoming(t *testing.T) {
	s := Summarize(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), []Booking{threeWindowBooking(1, 7)})
	assert.Zero(t, s.EventsThisMonth)
	assert.Nil(t, s.NearestEvent)
}
