package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taskforge-labs/taskforge-backend/internal/repository"
)

// ============================================
// Time Entry Service
// ============================================

type TimeEntryService interface {
	// Timer operations. One running entry per user.
	StartTimer(ctx context.Context, taskID, userID string, description *string) (*repository.TimeEntry, error)
	StopTimer(ctx context.Context, entryID, userID string) (*repository.TimeEntry, error)
	ActiveTimer(ctx context.Context, userID string) (*repository.TimeEntry, error)

	// Manual entries
	Create(ctx context.Context, userID string, req *CreateTimeEntryRequest) (*repository.TimeEntry, error)
	GetByID(ctx context.Context, entryID, userID string) (*repository.TimeEntry, error)
	Update(ctx context.Context, entryID, userID string, req *UpdateTimeEntryRequest) (*repository.TimeEntry, error)
	Delete(ctx context.Context, entryID, userID string) error

	List(ctx context.Context, userID string, f *TimeEntryListFilters) ([]*repository.TimeEntry, error)
	Stats(ctx context.Context, userID string, f *TimeEntryListFilters) (*TimeStats, error)
}

type CreateTimeEntryRequest struct {
	TaskID      string
	StartTime   time.Time
	EndTime     time.Time
	Description *string
}

type UpdateTimeEntryRequest struct {
	StartTime   *time.Time
	EndTime     *time.Time
	Description *string
}

type TimeEntryListFilters struct {
	TaskID    *string
	ProjectID *string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// TimeStats aggregates closed entries. Hours are reported with two
// decimal places so 90 minutes comes out as exactly 1.5, not
// 1.4999999999999998.
type TimeStats struct {
	TotalSeconds int              `json:"totalSeconds"`
	TotalHours   decimal.Decimal  `json:"totalHours"`
	EntryCount   int              `json:"entryCount"`
	ByTask       []TaskTimeBucket `json:"byTask"`
	ByDay        []DayTimeBucket  `json:"byDay"`
}

type TaskTimeBucket struct {
	TaskID  string          `json:"taskId"`
	Seconds int             `json:"seconds"`
	Hours   decimal.Decimal `json:"hours"`
}

type DayTimeBucket struct {
	Date    string          `json:"date"`
	Seconds int             `json:"seconds"`
	Hours   decimal.Decimal `json:"hours"`
}

type timeEntryService struct {
	timeEntryRepo repository.TimeEntryRepository
	access        *accessResolver
}

func NewTimeEntryService(timeEntryRepo repository.TimeEntryRepository, access *accessResolver) TimeEntryService {
	return &timeEntryService{timeEntryRepo: timeEntryRepo, access: access}
}

// ============================================
// Timers
// ============================================

func (s *timeEntryService) StartTimer(ctx context.Context, taskID, userID string, description *string) (*repository.TimeEntry, error) {
	// Membership in the task's project is required to log time on it.
	if _, _, err := s.access.ScopedTask(ctx, taskID, userID); err != nil {
		return nil, err
	}

	// Check-then-create: two racing starts can both pass the check.
	// The stale-timer cleanup caps the damage, so no lock is taken.
	active, err := s.timeEntryRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrTimerAlreadyRunning
	}

	entry := &repository.TimeEntry{
		TaskID:      taskID,
		UserID:      userID,
		StartTime:   time.Now().UTC(),
		Description: description,
	}
	if err := s.timeEntryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *timeEntryService) StopTimer(ctx context.Context, entryID, userID string) (*repository.TimeEntry, error) {
	entry, err := s.ownEntry(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}
	if entry.EndTime != nil {
		return nil, ErrTimerNotRunning
	}

	now := time.Now().UTC()
	duration := int(now.Sub(entry.StartTime).Seconds())
	entry.EndTime = &now
	entry.Duration = &duration

	if err := s.timeEntryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *timeEntryService) ActiveTimer(ctx context.Context, userID string) (*repository.TimeEntry, error) {
	return s.timeEntryRepo.FindActiveByUserID(ctx, userID)
}

// ============================================
// Manual entries
// ============================================

func (s *timeEntryService) Create(ctx context.Context, userID string, req *CreateTimeEntryRequest) (*repository.TimeEntry, error) {
	if _, _, err := s.access.ScopedTask(ctx, req.TaskID, userID); err != nil {
		return nil, err
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidInput
	}

	duration := int(req.EndTime.Sub(req.StartTime).Seconds())
	end := req.EndTime
	entry := &repository.TimeEntry{
		TaskID:      req.TaskID,
		UserID:      userID,
		StartTime:   req.StartTime,
		EndTime:     &end,
		Duration:    &duration,
		Description: req.Description,
	}
	if err := s.timeEntryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *timeEntryService) GetByID(ctx context.Context, entryID, userID string) (*repository.TimeEntry, error) {
	return s.ownEntry(ctx, entryID, userID)
}

func (s *timeEntryService) Update(ctx context.Context, entryID, userID string, req *UpdateTimeEntryRequest) (*repository.TimeEntry, error) {
	entry, err := s.ownEntry(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	if req.StartTime != nil {
		entry.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		entry.EndTime = req.EndTime
	}
	if req.Description != nil {
		entry.Description = req.Description
	}

	if entry.EndTime != nil {
		if !entry.EndTime.After(entry.StartTime) {
			return nil, ErrInvalidInput
		}
		duration := int(entry.EndTime.Sub(entry.StartTime).Seconds())
		entry.Duration = &duration
	}

	if err := s.timeEntryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *timeEntryService) Delete(ctx context.Context, entryID, userID string) error {
	if _, err := s.ownEntry(ctx, entryID, userID); err != nil {
		return err
	}
	return s.timeEntryRepo.Delete(ctx, entryID)
}

func (s *timeEntryService) List(ctx context.Context, userID string, f *TimeEntryListFilters) ([]*repository.TimeEntry, error) {
	return s.timeEntryRepo.FindByUser(ctx, s.repoFilters(userID, f, false))
}

// ============================================
// Stats
// ============================================

func (s *timeEntryService) Stats(ctx context.Context, userID string, f *TimeEntryListFilters) (*TimeStats, error) {
	entries, err := s.timeEntryRepo.FindByUser(ctx, s.repoFilters(userID, f, true))
	if err != nil {
		return nil, err
	}

	stats := &TimeStats{
		EntryCount: len(entries),
		ByTask:     []TaskTimeBucket{},
		ByDay:      []DayTimeBucket{},
	}

	byTask := map[string]int{}
	byDay := map[string]int{}
	for _, e := range entries {
		if e.Duration == nil {
			continue
		}
		stats.TotalSeconds += *e.Duration
		byTask[e.TaskID] += *e.Duration
		byDay[e.StartTime.UTC().Format("2006-01-02")] += *e.Duration
	}
	stats.TotalHours = secondsToHours(stats.TotalSeconds)

	for taskID, secs := range byTask {
		stats.ByTask = append(stats.ByTask, TaskTimeBucket{TaskID: taskID, Seconds: secs, Hours: secondsToHours(secs)})
	}
	sort.Slice(stats.ByTask, func(i, j int) bool { return stats.ByTask[i].Seconds > stats.ByTask[j].Seconds })

	for day, secs := range byDay {
		stats.ByDay = append(stats.ByDay, DayTimeBucket{Date: day, Seconds: secs, Hours: secondsToHours(secs)})
	}
	sort.Slice(stats.ByDay, func(i, j int) bool { return stats.ByDay[i].Date < stats.ByDay[j].Date })

	return stats, nil
}

func secondsToHours(seconds int) decimal.Decimal {
	return decimal.NewFromInt(int64(seconds)).Div(decimal.NewFromInt(3600)).Round(2)
}

// ============================================
// Helpers
// ============================================

// ownEntry returns the entry only when it belongs to the caller.
// Foreign entries look like missing ones.
func (s *timeEntryService) ownEntry(ctx context.Context, entryID, userID string) (*repository.TimeEntry, error) {
	entry, err := s.timeEntryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.UserID != userID {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (s *timeEntryService) repoFilters(userID string, f *TimeEntryListFilters, closedOnly bool) *repository.TimeEntryFilters {
	rf := &repository.TimeEntryFilters{UserID: userID, ClosedOnly: closedOnly}
	if f != nil {
		rf.TaskID = f.TaskID
		rf.ProjectID = f.ProjectID
		rf.DateFrom = f.DateFrom
		rf.DateTo = f.DateTo
	}
	return rf
}
