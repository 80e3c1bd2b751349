package dto

import (
	"testing"
	"time"

	"eventhub_backend/internals/helpers/apperror"
)

func TestResolve(t *testing.T) {
	now := time.Date(2026, 3, 18, 10, 30, 0, 0, time.UTC)
	endOfToday := time.Date(2026, 3, 18, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)

	cases := []struct {
		name      string
		q         MetaQuery
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"default is month to date", MetaQuery{}, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), endOfToday},
		{"1month", MetaQuery{Duration: "1month"}, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), endOfToday},
		{"7days", MetaQuery{Duration: "7days"}, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), endOfToday},
		{"15days", MetaQuery{Duration: "15days"}, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), endOfToday},
		{
			"explicit range wins",
			MetaQuery{StartDate: "2026-01-05", EndDate: "2026-01-10", Duration: "7days"},
			time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 10, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := tc.q.Resolve(now)
			if err != nil {
				t.Fatal(err)
			}
			if !r.Start.Equal(tc.wantStart) || !r.End.Equal(tc.wantEnd) {
				t.Fatalf("got [%s, %s]", r.Start, r.End)
			}
		})
	}
}

func TestResolveRejects(t *testing.T) {
	now := time.Now()
	bad := []MetaQuery{
		{Duration: "1year"},
		{StartDate: "2026-01-05"},
		{StartDate: "yesterday", EndDate: "2026-01-10"},
		{StartDate: "2026-01-10", EndDate: "2026-01-05"},
	}
	for _, q := range bad {
		if _, err := q.Resolve(now); !apperror.IsKind(err, apperror.KindValidation) {
			t.Errorf("%+v: got %v", q, err)
		}
	}
}
