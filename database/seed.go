package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/atma-chethana/counselling-api/model"
	"github.com/atma-chethana/counselling-api/utils/auth"
)

// Default admin credentials used when the environment does not override them.
const (
	DefaultAdminName     = "Admin User"
	DefaultAdminEmail    = "admin@atmachetna.com"
	DefaultAdminPassword = "admin123"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAdminUser creates the default admin account if no staff exist yet.
// Runs at every startup; it is idempotent.
func (s *Seeder) SeedAdminUser(name, email, password string) error {
	var count int64
	if err := s.db.Model(&model.Staff{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping...")
		return nil
	}

	if name == "" {
		name = DefaultAdminName
	}
	if email == "" {
		email = DefaultAdminEmail
	}
	if password == "" {
		password = DefaultAdminPassword
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.Staff{
		Name:     name,
		Email:    email,
		Password: passwordHash,
		Role:     model.RoleAdmin,
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Created admin user: %s\n", admin.Email)
	return nil
}

// SeedSampleData wipes counselling data and loads a small demo dataset.
// Admin accounts are preserved. Meant for the standalone seed command only.
func (s *Seeder) SeedSampleData() error {
	log.Println("Clearing old data...")

	tables := []interface{}{
		&model.ActionItem{},
		&model.RecurringPattern{},
		&model.FollowUpEmail{},
		&model.Appointment{},
		&model.StudentSubject{},
		&model.StudentInterest{},
		&model.Student{},
	}
	for _, t := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(t).Error; err != nil {
			return err
		}
	}

	if err := s.SeedAdminUser("", "", ""); err != nil {
		return err
	}

	var admin model.Staff
	if err := s.db.First(&admin).Error; err != nil {
		return err
	}

	log.Println("Creating sample students...")

	studentPassword, err := auth.HashPassword("student123")
	if err != nil {
		return err
	}

	dob := func(s string) *time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return &t
	}
	usn := func(s string) *string { return &s }

	type sampleStudent struct {
		student   model.Student
		subjects  []string
		interests []string
	}

	samples := []sampleStudent{
		{
			student: model.Student{
				FirstName: "John", LastName: "Doe",
				Email: "john.doe@student.com", Phone: "9876543210", USN: usn("1AB21CS001"),
				Gender: "Male", DateOfBirth: dob("2005-05-15"),
				Street: "123 Main St", City: "Bangalore", State: "Karnataka", Pincode: "560001",
				CurrentClass: "4th Year", School: "Computer Science and Engineering", Board: "VTU",
				CareerGoals: "Software Engineer", RiskLevel: model.RiskLow, SpecialNeeds: "None",
				ParentName: "Jane Doe", ParentRelationship: "Mother",
				ParentPhone: "9876543211", ParentEmail: "jane.doe@parent.com",
			},
			subjects:  []string{"Data Structures", "Algorithms", "Database Systems", "Software Engineering"},
			interests: []string{"Programming", "Web Development", "Problem Solving"},
		},
		{
			student: model.Student{
				FirstName: "Alice", LastName: "Smith",
				Email: "alice.smith@student.com", Phone: "9876543212", USN: usn("1AB22BT014"),
				Gender: "Female", DateOfBirth: dob("2006-03-22"),
				Street: "456 Oak Ave", City: "Mysore", State: "Karnataka", Pincode: "570001",
				CurrentClass: "3rd Year", School: "Bio Technology", Board: "VTU",
				CareerGoals: "Biotechnology Researcher", RiskLevel: model.RiskMedium, SpecialNeeds: "Study anxiety",
				ParentName: "Robert Smith", ParentRelationship: "Father",
				ParentPhone: "9876543213", ParentEmail: "robert.smith@parent.com",
			},
			subjects:  []string{"Biochemistry", "Molecular Biology", "Genetics", "Bioprocess Engineering"},
			interests: []string{"Research", "Biotechnology", "Life Sciences"},
		},
		{
			student: model.Student{
				FirstName: "Michael", LastName: "Johnson",
				Email: "michael.johnson@student.com", Phone: "9876543214", USN: usn("1AB23AI042"),
				Gender: "Male", DateOfBirth: dob("2004-11-08"),
				Street: "789 Pine St", City: "Hubli", State: "Karnataka", Pincode: "580020",
				CurrentClass: "2nd Year", School: "Artificial Intelligence and Machine Learning", Board: "VTU",
				CareerGoals: "AI Engineer", RiskLevel: model.RiskHigh, SpecialNeeds: "Social anxiety",
				ParentName: "Sarah Johnson", ParentRelationship: "Mother",
				ParentPhone: "9876543215", ParentEmail: "sarah.johnson@parent.com",
			},
			subjects:  []string{"Machine Learning", "Python Programming", "Statistics", "Linear Algebra"},
			interests: []string{"AI/ML", "Data Science", "Innovation"},
		},
	}

	created := make([]model.Student, 0, len(samples))
	for _, sample := range samples {
		student := sample.student
		student.Password = studentPassword
		student.Role = model.RoleStudent
		student.IsVerified = true
		student.IsActive = true
		student.Status = model.StudentActive

		if err := s.db.Create(&student).Error; err != nil {
			return err
		}

		for _, name := range sample.subjects {
			if err := s.db.Create(&model.StudentSubject{StudentID: student.ID, Name: name}).Error; err != nil {
				return err
			}
		}
		for _, name := range sample.interests {
			if err := s.db.Create(&model.StudentInterest{StudentID: student.ID, Name: name}).Error; err != nil {
				return err
			}
		}

		created = append(created, student)
	}

	log.Printf("Created %d students\n", len(created))
	log.Println("Creating sample appointments...")

	type sampleAppointment struct {
		student     model.Student
		kind        string
		daysFromNow int
		status      model.AppointmentStatus
		timeOfDay   string
		reason      string
		concerns    string
		summary     string
		items       []string
		followUp    bool
	}

	appointments := []sampleAppointment{
		{
			student: created[0], kind: "Academic Counseling", daysFromNow: 1,
			status: model.StatusConfirmed, timeOfDay: "10:00 AM",
			reason:   "Need guidance on course selection for engineering",
			concerns: "Confused about engineering branch",
		},
		{
			student: created[1], kind: "Stress Management", daysFromNow: -3,
			status: model.StatusCompleted, timeOfDay: "2:00 PM",
			reason: "Study related stress", concerns: "Exam pressure",
			summary:  "Discussed stress management",
			items:    []string{"Breathing exercises", "Study schedule", "Breaks"},
			followUp: true,
		},
		{
			student: created[2], kind: "Personal Counseling", daysFromNow: 2,
			status: model.StatusPending, timeOfDay: "11:30 AM",
			reason: "Social anxiety", concerns: "Peer interaction issues",
		},
	}

	for _, apt := range appointments {
		date := time.Now().AddDate(0, 0, apt.daysFromNow)

		appointment := model.Appointment{
			StudentID:        apt.student.ID,
			CounsellorID:     &admin.ID,
			RequestedDate:    date,
			RequestedTime:    apt.timeOfDay,
			Duration:         60,
			Type:             apt.kind,
			Mode:             "In-Person",
			Priority:         "Medium",
			Reason:           apt.reason,
			Status:           apt.status,
			StudentConcerns:  apt.concerns,
			SessionSummary:   apt.summary,
			FollowUpRequired: apt.followUp,
		}
		if apt.status == model.StatusConfirmed {
			appointment.ConfirmedDate = &date
			t := apt.timeOfDay
			appointment.ConfirmedTime = &t
		}

		if err := s.db.Create(&appointment).Error; err != nil {
			return err
		}

		for _, value := range apt.items {
			if err := s.db.Create(&model.ActionItem{AppointmentID: appointment.ID, Value: value}).Error; err != nil {
				return err
			}
		}
	}

	log.Println("Appointments created successfully!")
	log.Printf("Admin: %s / %s\n", DefaultAdminEmail, DefaultAdminPassword)
	for _, st := range created {
		log.Printf("Student: %s / student123\n", st.Email)
	}

	return nil
}
