package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestBookingPolicy_CheckDate(t *testing.T) {
	p := BookingPolicy{AdvanceBookingDays: 30}
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, DateOK, p.CheckDate(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, DateInPast, p.CheckDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, DateOK, p.CheckDate(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, DateTooFar, p.CheckDate(time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), now))

	unlimited := BookingPolicy{}
	assert.Equal(t, DateOK, unlimited.CheckDate(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestBookingPolicy_CheckDate_UsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	p := BookingPolicy{AdvanceBookingDays: 10, Location: loc}

	// 22:30 UTC is already the next day in UTC+3
	now := time.Date(2026, 3, 2, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, DateInPast, p.CheckDate(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, DateOK, p.CheckDate(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), now))
}

func TestBookingPolicy_EarliestStart(t *testing.T) {
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	tests := []struct {
		name   string
		notice int
		now    time.Time
		date   time.Time
		want   types.TimeString
		wantOK bool
	}{
		{
			name:   "today with notice",
			notice: 60,
			now:    time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC),
			date:   today,
			want:   "11:15",
			wantOK: true,
		},
		{
			name:   "seconds round up",
			notice: 0,
			now:    time.Date(2026, 3, 2, 10, 15, 20, 0, time.UTC),
			date:   today,
			want:   "10:16",
			wantOK: true,
		},
		{
			name:   "tomorrow unrestricted",
			notice: 60,
			now:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			date:   tomorrow,
			wantOK: false,
		},
		{
			name:   "notice spills into tomorrow",
			notice: 120,
			now:    time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC),
			date:   tomorrow,
			want:   "01:30",
			wantOK: true,
		},
		{
			name:   "rest of today unbookable",
			notice: 120,
			now:    time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC),
			date:   today,
			want:   "24:00",
			wantOK: true,
		},
		{
			name:   "midnight without notice",
			notice: 0,
			now:    today,
			date:   today,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BookingPolicy{MinNoticeMinutes: tt.notice}
			got, ok := p.EarliestStart(tt.date, tt.now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
