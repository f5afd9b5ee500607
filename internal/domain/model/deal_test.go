package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDealStatusAt(t *testing.T) {
	starts := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	ends := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		now       time.Time
		remaining int64
		want      DealStatus
	}{
		{"開始前", starts.Add(-time.Second), 10, DealStatusScheduled},
		{"開始時刻ちょうどはactive", starts, 10, DealStatusActive},
		{"期間中", starts.Add(time.Hour), 10, DealStatusActive},
		{"終了時刻ちょうどはまだactive", ends, 10, DealStatusActive},
		{"終了後", ends.Add(time.Second), 10, DealStatusEnded},
		{"残数0は期間中でもsold_out", starts.Add(time.Hour), 0, DealStatusSoldOut},
		{"残数0は開始前でもsold_out", starts.Add(-time.Hour), 0, DealStatusSoldOut},
		{"残数0は終了後でもsold_out", ends.Add(time.Hour), 0, DealStatusSoldOut},
		{"負の残数もsold_out", starts.Add(time.Hour), -1, DealStatusSoldOut},
		{"残数1はactive", starts.Add(time.Hour), 1, DealStatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DealStatusAt(tt.now, starts, ends, tt.remaining)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDealStatusAt_ReceiverHelper(t *testing.T) {
	d := &Deal{
		StartsAt:       time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndsAt:         time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		RemainingStock: 5,
	}
	assert.Equal(t, DealStatusActive, d.StatusAt(time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)))
}

func TestOrderStatusCanCancel(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPending, true},
		{OrderStatusConfirmed, true},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.CanCancel(), "status=%s", tt.status)
	}
}
