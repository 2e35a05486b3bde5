package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/noah-isme/hurricane-api/internal/models"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
)

type scheduleState interface {
	LoadSchedule(ctx context.Context) (models.WeeklySchedule, error)
	SaveSchedule(ctx context.Context, schedule models.WeeklySchedule) error
}

// Short weekday labels, Monday first.
var weekdayLabels = [7]string{"T2", "T3", "T4", "T5", "T6", "T7", "CN"}

// sessionSlot is the calendar window of a study session.
type sessionSlot struct {
	label       string
	startHour   int
	startMinute int
	endHour     int
	endMinute   int
}

var sessionSlots = map[models.ScheduleSession]sessionSlot{
	models.SessionMorning:   {label: "Sáng", startHour: 7, endHour: 11, endMinute: 30},
	models.SessionAfternoon: {label: "Chiều", startHour: 13, startMinute: 30, endHour: 17},
	models.SessionEvening:   {label: "Tối", startHour: 19, endHour: 21, endMinute: 30},
}

var sessionOrder = []models.ScheduleSession{models.SessionMorning, models.SessionAfternoon, models.SessionEvening}

// ScheduleService manages the weekly study plan.
type ScheduleService struct {
	state    scheduleState
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
	mu       sync.Mutex
}

// NewScheduleService constructs the service. Dates are resolved in loc,
// defaulting to Asia/Ho_Chi_Minh.
func NewScheduleService(state scheduleState, loc *time.Location, logger *zap.Logger) *ScheduleService {
	if loc == nil {
		loc = DefaultLocation()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{state: state, location: loc, logger: logger, now: time.Now}
}

// DefaultLocation returns the Vietnam time zone, or a fixed UTC+7 zone when
// the tz database is unavailable.
func DefaultLocation() *time.Location {
	if loc, err := time.LoadLocation("Asia/Ho_Chi_Minh"); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*60*60)
}

// ParseDate parses a YYYY-MM-DD key in the service location. An empty key
// means today.
func (s *ScheduleService) ParseDate(key string) (time.Time, error) {
	if strings.TrimSpace(key) == "" {
		return s.now().In(s.location), nil
	}
	t, err := time.ParseInLocation(models.DateKeyLayout, key, s.location)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must use YYYY-MM-DD")
	}
	return t, nil
}

// Week returns the Monday-first week containing anchor.
func (s *ScheduleService) Week(ctx context.Context, anchor time.Time) (*models.ScheduleWeek, error) {
	schedule, err := s.state.LoadSchedule(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	start := weekStart(anchor.In(s.location))
	today := s.now().In(s.location).Format(models.DateKeyLayout)
	week := &models.ScheduleWeek{Start: start, Days: make([]models.ScheduleDay, 7)}
	for i := range week.Days {
		day := start.AddDate(0, 0, i)
		key := day.Format(models.DateKeyLayout)
		week.Days[i] = models.ScheduleDay{
			Date:    key,
			Weekday: weekdayLabels[i],
			IsToday: key == today,
			Entry:   schedule[key],
		}
	}
	return week, nil
}

// Update replaces the text of one session of a day.
func (s *ScheduleService) Update(ctx context.Context, dateKey string, session models.ScheduleSession, value string) (models.ScheduleEntry, error) {
	if _, err := time.Parse(models.DateKeyLayout, dateKey); err != nil {
		return models.ScheduleEntry{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must use YYYY-MM-DD")
	}
	if !session.Valid() {
		return models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrValidation, "session must be morning, afternoon or evening")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	schedule, err := s.state.LoadSchedule(ctx)
	if err != nil {
		return models.ScheduleEntry{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if schedule == nil {
		schedule = models.WeeklySchedule{}
	}
	entry := schedule[dateKey].With(session, value)
	if entry.IsEmpty() {
		delete(schedule, dateKey)
	} else {
		schedule[dateKey] = entry
	}
	if err := s.state.SaveSchedule(ctx, schedule); err != nil {
		return models.ScheduleEntry{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule")
	}
	return entry, nil
}

// ExportICS renders the planned sessions of the week containing anchor as
// an iCalendar document.
func (s *ScheduleService) ExportICS(ctx context.Context, anchor time.Time) ([]byte, error) {
	week, err := s.Week(ctx, anchor)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Hurricane//Study Schedule//VI")

	stamp := s.now().UTC()
	events := 0
	for _, day := range week.Days {
		date, err := time.ParseInLocation(models.DateKeyLayout, day.Date, s.location)
		if err != nil {
			return nil, fmt.Errorf("parse schedule day %s: %w", day.Date, err)
		}
		for _, session := range sessionOrder {
			text := strings.TrimSpace(sessionText(day.Entry, session))
			if text == "" {
				continue
			}
			slot := sessionSlots[session]
			event := cal.AddEvent(fmt.Sprintf("%s-%s@hurricane", day.Date, session))
			event.SetDtStampTime(stamp)
			event.SetStartAt(slot.at(date, slot.startHour, slot.startMinute))
			event.SetEndAt(slot.at(date, slot.endHour, slot.endMinute))
			event.SetSummary(fmt.Sprintf("%s: %s", slot.label, firstLine(text)))
			event.SetDescription(text)
			events++
		}
	}
	s.logger.Debug("schedule exported", zap.String("week", week.Start.Format(models.DateKeyLayout)), zap.Int("events", events))
	return []byte(cal.Serialize()), nil
}

func (sessionSlot) at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func sessionText(entry models.ScheduleEntry, session models.ScheduleSession) string {
	switch session {
	case models.SessionMorning:
		return entry.Morning
	case models.SessionAfternoon:
		return entry.Afternoon
	default:
		return entry.Evening
	}
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return strings.TrimSpace(text[:i])
	}
	return text
}

func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
