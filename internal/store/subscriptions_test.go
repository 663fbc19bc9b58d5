package store

import (
	"database/sql"
	"testing"
	"time"
)

func TestAccessRecordAllows(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rec  AccessRecord
		want bool
	}{
		{
			name: "premium always allows",
			rec:  AccessRecord{HasPremium: true},
			want: true,
		},
		{
			name: "premium allows even with expired trial fields",
			rec: AccessRecord{
				HasPremium: true,
				TrialEnd:   sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
			},
			want: true,
		},
		{
			name: "unexpired trial allows",
			rec: AccessRecord{
				TrialEnd: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
			},
			want: true,
		},
		{
			name: "expired trial denies",
			rec: AccessRecord{
				TrialEnd: sql.NullTime{Time: now.Add(-time.Minute), Valid: true},
			},
			want: false,
		},
		{
			name: "no trial and no premium denies",
			rec:  AccessRecord{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Allows(now); got != tt.want {
				t.Errorf("Allows() = %v, want %v", got, tt.want)
			}
		})
	}
}
