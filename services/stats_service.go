package services

import (
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/atma-chethana/counselling-api/model"
)

// StatsService is the read-only reporting layer over appointment and
// student records. Group-bys go through the query builder; the
// time-bucketed trends use parameterized raw SQL with Postgres date
// functions.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a stats service.
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// StatusCount is one group-by bucket keyed by status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TypeCount is one group-by bucket keyed by appointment type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// PriorityCount is one group-by bucket keyed by priority or risk level.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int64  `json:"count"`
}

// MonthBucket is one month of the trend series.
type MonthBucket struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

// WeekBucket is one ISO week of the current month.
type WeekBucket struct {
	Week  int   `json:"week"`
	Count int64 `json:"count"`
}

// StudentDashboard is the student branch of the dashboard payload.
type StudentDashboard struct {
	TotalAppointments     int64              `json:"totalAppointments"`
	CompletedAppointments int64              `json:"completedAppointments"`
	UpcomingAppointments  int64              `json:"upcomingAppointments"`
	PendingAppointments   int64              `json:"pendingAppointments"`
	LastAppointment       *model.Appointment `json:"lastAppointment"`
	NextAppointment       *model.Appointment `json:"nextAppointment"`
}

// StudentDashboard aggregates a single student's appointment picture.
func (s *StatsService) StudentDashboard(studentID uint, now time.Time) (*StudentDashboard, error) {
	out := &StudentDashboard{}
	base := func() *gorm.DB {
		return s.db.Model(&model.Appointment{}).Where("student_id = ?", studentID)
	}

	if err := base().Count(&out.TotalAppointments).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", model.StatusCompleted).Count(&out.CompletedAppointments).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ? AND requested_date >= ?", model.StatusConfirmed, now).Count(&out.UpcomingAppointments).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", model.StatusPending).Count(&out.PendingAppointments).Error; err != nil {
		return nil, err
	}

	var last model.Appointment
	err := s.db.
		Where("student_id = ? AND status = ?", studentID, model.StatusCompleted).
		Order("confirmed_date DESC").
		Preload("Counsellor").
		First(&last).Error
	if err == nil {
		out.LastAppointment = &last
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var next model.Appointment
	err = s.db.
		Where("student_id = ? AND status = ? AND requested_date >= ?", studentID, model.StatusConfirmed, now).
		Order("requested_date ASC").
		Preload("Counsellor").
		First(&next).Error
	if err == nil {
		out.NextAppointment = &next
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return out, nil
}

// StaffOverview is the headline block of the staff dashboard.
type StaffOverview struct {
	TotalStudents         int64 `json:"totalStudents"`
	ActiveStudents        int64 `json:"activeStudents"`
	TotalAppointments     int64 `json:"totalAppointments"`
	PendingAppointments   int64 `json:"pendingAppointments"`
	ConfirmedAppointments int64 `json:"confirmedAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	TodaysAppointments    int64 `json:"todaysAppointments"`
	HighPriorityStudents  int64 `json:"highPriorityStudents"`
	RecentAppointments    int64 `json:"recentAppointments"`
}

// StaffDashboard is the staff branch of the dashboard payload.
type StaffDashboard struct {
	Overview         StaffOverview `json:"overview"`
	AppointmentTypes []TypeCount   `json:"appointmentTypes"`
	MonthlyTrend     []MonthBucket `json:"monthlyTrend"`
}

// StaffDashboard aggregates the whole-system counselling picture.
func (s *StatsService) StaffDashboard(now time.Time) (*StaffDashboard, error) {
	out := &StaffDashboard{}

	students := func() *gorm.DB { return s.db.Model(&model.Student{}) }
	appointments := func() *gorm.DB { return s.db.Model(&model.Appointment{}) }

	if err := students().Where("is_active = ?", true).Count(&out.Overview.TotalStudents).Error; err != nil {
		return nil, err
	}
	if err := students().Where("status = ?", model.StudentActive).Count(&out.Overview.ActiveStudents).Error; err != nil {
		return nil, err
	}
	if err := appointments().Count(&out.Overview.TotalAppointments).Error; err != nil {
		return nil, err
	}
	if err := appointments().Where("status = ?", model.StatusPending).Count(&out.Overview.PendingAppointments).Error; err != nil {
		return nil, err
	}
	if err := appointments().Where("status = ?", model.StatusConfirmed).Count(&out.Overview.ConfirmedAppointments).Error; err != nil {
		return nil, err
	}
	if err := appointments().Where("status = ?", model.StatusCompleted).Count(&out.Overview.CompletedAppointments).Error; err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	if err := appointments().Where("requested_date >= ? AND requested_date < ?", today, tomorrow).Count(&out.Overview.TodaysAppointments).Error; err != nil {
		return nil, err
	}

	if err := students().Where("risk_level = ?", model.RiskHigh).Count(&out.Overview.HighPriorityStudents).Error; err != nil {
		return nil, err
	}

	weekAgo := now.AddDate(0, 0, -7)
	if err := appointments().Where("created_at >= ?", weekAgo).Count(&out.Overview.RecentAppointments).Error; err != nil {
		return nil, err
	}

	if err := appointments().
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&out.AppointmentTypes).Error; err != nil {
		return nil, err
	}

	sixMonthsAgo := now.AddDate(0, -6, 0)
	err := s.db.Raw(`
		SELECT
			EXTRACT(YEAR FROM created_at)::int AS year,
			EXTRACT(MONTH FROM created_at)::int AS month,
			COUNT(*) AS count
		FROM appointments
		WHERE created_at >= ? AND deleted_at IS NULL
		GROUP BY year, month
		ORDER BY year, month`, sixMonthsAgo).
		Scan(&out.MonthlyTrend).Error
	if err != nil {
		return nil, err
	}

	return out, nil
}

// StudentStats is the /stats/students payload.
type StudentStats struct {
	StatusStats         []StatusCount   `json:"statusStats"`
	PriorityStats       []PriorityCount `json:"priorityStats"`
	RecentRegistrations int64           `json:"recentRegistrations"`
	Total               int64           `json:"total"`
}

// StudentStats groups the student body by status and risk level.
func (s *StatsService) StudentStats(now time.Time) (*StudentStats, error) {
	out := &StudentStats{}

	if err := s.db.Model(&model.Student{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&out.StatusStats).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&model.Student{}).
		Select("risk_level AS priority, COUNT(*) AS count").
		Group("risk_level").
		Scan(&out.PriorityStats).Error; err != nil {
		return nil, err
	}

	thirtyDaysAgo := now.AddDate(0, 0, -30)
	if err := s.db.Model(&model.Student{}).
		Where("created_at >= ?", thirtyDaysAgo).
		Count(&out.RecentRegistrations).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&model.Student{}).Count(&out.Total).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// AppointmentStats is the /stats/appointments payload.
type AppointmentStats struct {
	StatusStats    []StatusCount   `json:"statusStats"`
	TypeStats      []TypeCount     `json:"typeStats"`
	PriorityStats  []PriorityCount `json:"priorityStats"`
	WeeklyStats    []WeekBucket    `json:"weeklyStats"`
	CompletionRate float64         `json:"completionRate"`
	Total          int64           `json:"total"`
}

// AppointmentStats groups appointments and computes the completion rate.
func (s *StatsService) AppointmentStats(now time.Time) (*AppointmentStats, error) {
	out := &AppointmentStats{}
	appointments := func() *gorm.DB { return s.db.Model(&model.Appointment{}) }

	if err := appointments().
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&out.StatusStats).Error; err != nil {
		return nil, err
	}
	if err := appointments().
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&out.TypeStats).Error; err != nil {
		return nil, err
	}
	if err := appointments().
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&out.PriorityStats).Error; err != nil {
		return nil, err
	}

	if err := appointments().Count(&out.Total).Error; err != nil {
		return nil, err
	}
	var completed int64
	if err := appointments().Where("status = ?", model.StatusCompleted).Count(&completed).Error; err != nil {
		return nil, err
	}
	out.CompletionRate = CompletionRate(completed, out.Total)

	err := s.db.Raw(`
		SELECT
			EXTRACT(WEEK FROM requested_date)::int AS week,
			COUNT(*) AS count
		FROM appointments
		WHERE EXTRACT(MONTH FROM requested_date) = ?
		  AND EXTRACT(YEAR FROM requested_date) = ?
		  AND deleted_at IS NULL
		GROUP BY week
		ORDER BY week`, int(now.Month()), now.Year()).
		Scan(&out.WeeklyStats).Error
	if err != nil {
		return nil, err
	}

	return out, nil
}

// CompletionRate returns completed/total as a percentage rounded to two
// decimal places; zero totals yield zero.
func CompletionRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*10000) / 100
}

// CalendarEntry summarises one appointment on the calendar.
type CalendarEntry struct {
	ID        uint                    `json:"id"`
	Time      string                  `json:"time"`
	Status    model.AppointmentStatus `json:"status"`
	Type      string                  `json:"type"`
	StudentID uint                    `json:"studentId"`
}

// CalendarDay is one day of the month view.
type CalendarDay struct {
	Day          int             `json:"day"`
	Count        int             `json:"count"`
	Appointments []CalendarEntry `json:"appointments"`
}

// Calendar returns per-day appointment summaries for a month.
func (s *StatsService) Calendar(month, year int) ([]CalendarDay, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var appointments []model.Appointment
	err := s.db.
		Where("requested_date >= ? AND requested_date < ?", start, end).
		Order("requested_date ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[int][]CalendarEntry)
	for _, apt := range appointments {
		day := apt.RequestedDate.Day()
		byDay[day] = append(byDay[day], CalendarEntry{
			ID:        apt.ID,
			Time:      apt.RequestedTime,
			Status:    apt.Status,
			Type:      apt.Type,
			StudentID: apt.StudentID,
		})
	}

	days := make([]CalendarDay, 0, len(byDay))
	for day := 1; day <= 31; day++ {
		entries, ok := byDay[day]
		if !ok {
			continue
		}
		days = append(days, CalendarDay{Day: day, Count: len(entries), Appointments: entries})
	}

	return days, nil
}
