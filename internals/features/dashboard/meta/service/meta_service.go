package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"eventhub_backend/internals/constants"
	"eventhub_backend/internals/features/dashboard/meta/dto"
	eventModel "eventhub_backend/internals/features/events/event/model"
	paymentModel "eventhub_backend/internals/features/payments/payment/model"
	userModel "eventhub_backend/internals/features/users/user/model"
	"eventhub_backend/internals/helpers/apperror"
)

const dayLayout = "2006-01-02"

type MetaService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMetaService(db *gorm.DB) *MetaService {
	return &MetaService{db: db, now: time.Now}
}

// GetAdminDashboardMetaData aggregates the admin dashboard for the window
// selected by q. Nothing is written.
func (s *MetaService) GetAdminDashboardMetaData(ctx context.Context, q dto.MetaQuery) (*dto.MetaResponse, error) {
	rng, err := q.Resolve(s.now())
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	out := &dto.MetaResponse{}

	// ===== summary =====
	if err := db.Model(&userModel.User{}).
		Where("role IN ? AND status = ? AND is_deleted = ?",
			[]string{constants.RoleUser, constants.RoleHost}, constants.UserStatusActive, false).
		Count(&out.Summary.TotalUsers).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	if err := db.Model(&eventModel.Event{}).
		Where("created_at BETWEEN ? AND ?", rng.Start, rng.End).
		Count(&out.Summary.TotalEvents).Error; err != nil {
		return nil, apperror.FromDB(err)
	}

	// ===== distribution (all events) =====
	out.EventDistribution = make(map[string]int64, len(eventModel.Statuses))
	for _, st := range eventModel.Statuses {
		out.EventDistribution[st] = 0
	}
	var dist []struct {
		Status string
		Total  int64
	}
	if err := db.Model(&eventModel.Event{}).
		Select("status, COUNT(*) AS total").Group("status").
		Scan(&dist).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	for _, d := range dist {
		out.EventDistribution[d.Status] = d.Total
	}

	// ===== series, bucketed per UTC day =====
	var payments []struct {
		CreatedAt time.Time
		Amount    float64
	}
	if err := db.Model(&paymentModel.Payment{}).
		Select("created_at", "amount").
		Where("payment_status = ? AND created_at BETWEEN ? AND ?", paymentModel.StatusPaid, rng.Start, rng.End).
		Scan(&payments).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	revenue := map[string]float64{}
	for _, p := range payments {
		revenue[p.CreatedAt.UTC().Format(dayLayout)] += p.Amount
		out.Summary.TotalRevenue += p.Amount
	}
	out.Summary.TotalSales = int64(len(payments))
	out.Charts.Revenue = toSeries(revenue)

	users, err := s.createdPerDay(db.Model(&userModel.User{}).
		Where("role IN ? AND is_deleted = ?", []string{constants.RoleUser, constants.RoleHost}, false), rng)
	if err != nil {
		return nil, err
	}
	out.Charts.Users = users

	events, err := s.createdPerDay(db.Model(&eventModel.Event{}), rng)
	if err != nil {
		return nil, err
	}
	out.Charts.Events = events

	return out, nil
}

// createdPerDay counts rows of q created inside rng, per day.
func (s *MetaService) createdPerDay(q *gorm.DB, rng dto.Range) ([]dto.ChartPoint, error) {
	var stamps []time.Time
	if err := q.Where("created_at BETWEEN ? AND ?", rng.Start, rng.End).
		Pluck("created_at", &stamps).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	counts := map[string]float64{}
	for _, t := range stamps {
		counts[t.UTC().Format(dayLayout)]++
	}
	return toSeries(counts), nil
}

// toSeries sorts the buckets by date; days without rows are omitted.
func toSeries(buckets map[string]float64) []dto.ChartPoint {
	out := make([]dto.ChartPoint, 0, len(buckets))
	for day, v := range buckets {
		out = append(out, dto.ChartPoint{Date: day, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
