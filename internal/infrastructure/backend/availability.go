package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/jhoicas/clinic-console/internal/domain/repository"
)

// AvailabilityRepository disponibilidad sobre /api/availability.
type AvailabilityRepository struct{ c *Client }

var _ repository.AvailabilityRepository = (*AvailabilityRepository)(nil)

// Availability repositorio de disponibilidad.
func (c *Client) Availability() *AvailabilityRepository { return &AvailabilityRepository{c: c} }

// availabilityWire forma de la API: recurrence_days usa 0=lunes … 6=domingo.
type availabilityWire struct {
	ID             string              `json:"id,omitempty"`
	StaffID        string              `json:"staff_id"`
	OutletID       string              `json:"outlet_id"`
	RecurrenceType string              `json:"recurrence_type"`
	RecurrenceDays []entity.APIWeekday `json:"recurrence_days"`
	StartTime      entity.ClockTime    `json:"start_time"`
	EndTime        entity.ClockTime    `json:"end_time"`
}

func toAvailabilityWire(a *entity.Availability) availabilityWire {
	days := make([]entity.APIWeekday, 0, len(a.Days))
	for _, d := range a.Days {
		days = append(days, entity.ToAPIWeekday(d))
	}
	return availabilityWire{
		ID:             a.ID,
		StaffID:        a.StaffID,
		OutletID:       a.OutletID,
		RecurrenceType: a.RecurrenceType,
		RecurrenceDays: days,
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
	}
}

func (w availabilityWire) entity() entity.Availability {
	days := make([]time.Weekday, 0, len(w.RecurrenceDays))
	for _, d := range w.RecurrenceDays {
		days = append(days, d.Weekday())
	}
	return entity.Availability{
		ID:             w.ID,
		StaffID:        w.StaffID,
		OutletID:       w.OutletID,
		RecurrenceType: w.RecurrenceType,
		Days:           days,
		StartTime:      w.StartTime,
		EndTime:        w.EndTime,
	}
}

func (r *AvailabilityRepository) CreateWeekly(ctx context.Context, a *entity.Availability) (*entity.Availability, error) {
	in := toAvailabilityWire(a)
	in.RecurrenceType = entity.RecurrenceWeekly
	out := in
	if err := r.c.call(ctx, http.MethodPost, "/api/availability", nil, in, &out, "create availability"); err != nil {
		return nil, err
	}
	created := out.entity()
	return &created, nil
}

// Grid acepta la grilla como mapa fecha -> franjas, plano o bajo "grid".
func (r *AvailabilityRepository) Grid(ctx context.Context, q repository.GridQuery) (entity.AvailabilityGrid, error) {
	params := map[string]string{
		"service_id": q.ServiceID,
		"start_date": q.StartDate,
	}
	if q.StaffID != "" {
		params["staff_id"] = q.StaffID
	}
	if q.OutletID != "" {
		params["outlet_id"] = q.OutletID
	}
	if q.NumDays > 0 {
		params["num_days"] = strconv.Itoa(q.NumDays)
	}
	if q.SlotIntervalMinutes > 0 {
		params["slot_interval_minutes"] = strconv.Itoa(q.SlotIntervalMinutes)
	}
	var raw json.RawMessage
	if err := r.c.call(ctx, http.MethodGet, "/api/availability/grid", params, nil, &raw, "load availability grid"); err != nil {
		return nil, err
	}
	var wrapped struct {
		Grid entity.AvailabilityGrid `json:"grid"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Grid != nil {
		return wrapped.Grid, nil
	}
	grid := entity.AvailabilityGrid{}
	if err := json.Unmarshal(raw, &grid); err != nil {
		return nil, decodeError(http.StatusBadGateway, nil, "decode availability grid")
	}
	return grid, nil
}

func (r *AvailabilityRepository) Check(ctx context.Context, q repository.CheckQuery) (*entity.AvailabilityCheck, error) {
	params := map[string]string{
		"staff_id":   q.StaffID,
		"date":       q.Date,
		"start_time": string(q.StartTime),
		"end_time":   string(q.EndTime),
	}
	if q.ServiceID != "" {
		params["service_id"] = q.ServiceID
	}
	var out entity.AvailabilityCheck
	if err := r.c.call(ctx, http.MethodGet, "/api/availability/check", params, nil, &out, "check availability"); err != nil {
		return nil, err
	}
	return &out, nil
}
