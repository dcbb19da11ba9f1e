package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/atma-chethana/counselling-api/model"
	"github.com/atma-chethana/counselling-api/utils/auth"
	"github.com/atma-chethana/counselling-api/utils/response"
)

// Sortable columns for student listings.
var studentSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"status":    "status",
	"riskLevel": "risk_level",
}

// StudentService owns student records: self-service profiles and the
// staff-side CRUD surface.
type StudentService struct {
	db *gorm.DB
}

// NewStudentService creates a student service.
func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

// GetByID fetches a single student with their tag collections.
func (s *StudentService) GetByID(id uint) (*model.Student, error) {
	var student model.Student
	err := s.db.Preload("Subjects").Preload("Interests").First(&student, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// ProfileUpdateInput mirrors the nested self-service profile payload.
// Absent fields stay untouched.
type ProfileUpdateInput struct {
	PersonalInfo *struct {
		FirstName   *string `json:"firstName"`
		LastName    *string `json:"lastName"`
		Phone       *string `json:"phone"`
		DateOfBirth *string `json:"dateOfBirth"`
		Gender      *string `json:"gender"`
		Address     *struct {
			Street  *string `json:"street"`
			City    *string `json:"city"`
			State   *string `json:"state"`
			Pincode *string `json:"pincode"`
		} `json:"address"`
	} `json:"personalInfo"`
	AcademicInfo *struct {
		CurrentClass *string `json:"currentClass"`
		School       *string `json:"school"`
		Board        *string `json:"board"`
		CareerGoals  *string `json:"careerGoals"`
	} `json:"academicInfo"`
	CounselingInfo *struct {
		ParentGuardianInfo *struct {
			Name         *string `json:"name"`
			Relationship *string `json:"relationship"`
			Phone        *string `json:"phone"`
			Email        *string `json:"email"`
		} `json:"parentGuardianInfo"`
	} `json:"counselingInfo"`
}

// UpdateProfile flattens the nested profile payload onto student columns.
// Email is deliberately not updatable through this path.
func (s *StudentService) UpdateProfile(studentID uint, input ProfileUpdateInput) (*model.Student, error) {
	updates := make(map[string]interface{})
	put := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}

	if p := input.PersonalInfo; p != nil {
		put("first_name", p.FirstName)
		put("last_name", p.LastName)
		put("phone", p.Phone)
		put("gender", p.Gender)
		if p.DateOfBirth != nil {
			dob, err := ParseAppointmentDate(*p.DateOfBirth)
			if err != nil {
				return nil, err
			}
			updates["date_of_birth"] = &dob
		}
		if a := p.Address; a != nil {
			put("street", a.Street)
			put("city", a.City)
			put("state", a.State)
			put("pincode", a.Pincode)
		}
	}
	if a := input.AcademicInfo; a != nil {
		put("current_class", a.CurrentClass)
		put("school", a.School)
		put("board", a.Board)
		put("career_goals", a.CareerGoals)
	}
	if c := input.CounselingInfo; c != nil {
		if pg := c.ParentGuardianInfo; pg != nil {
			put("parent_name", pg.Name)
			put("parent_relationship", pg.Relationship)
			put("parent_phone", pg.Phone)
			put("parent_email", pg.Email)
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(&model.Student{}).Where("id = ?", studentID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetByID(studentID)
}

// StudentFilter narrows and pages a staff-side student listing.
type StudentFilter struct {
	Search    string
	Status    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// List returns students matching the filter. The search term is bound as a
// parameterized pattern across name, email, phone and USN columns.
func (s *StudentService) List(filter StudentFilter) ([]model.Student, response.PaginationMeta, error) {
	query := s.db.Model(&model.Student{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR LOWER(usn) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, response.PaginationMeta{}, err
	}

	sortColumn, ok := studentSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	pagination := response.CalculatePagination(filter.Page, filter.Limit, total)

	var students []model.Student
	err := query.
		Order(sortColumn + " " + direction).
		Offset((pagination.Current - 1) * pagination.Limit).
		Limit(pagination.Limit).
		Find(&students).Error
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}

	return students, pagination, nil
}

// CreateStudentInput carries the staff-side creation payload.
type CreateStudentInput struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Phone        string `json:"phone"`
	USN          string `json:"usn"`
	Gender       string `json:"gender"`
	DateOfBirth  string `json:"dateOfBirth"`
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	CurrentClass string `json:"currentClass"`
	School       string `json:"school"`
	Board        string `json:"board"`
	CareerGoals  string `json:"careerGoals"`
	SpecialNeeds string `json:"specialNeeds"`
	RiskLevel    string `json:"riskLevel"`
	Status       string `json:"status"`
}

// Create provisions a student record from the staff CRUD surface. Staff
// created students are verified immediately.
func (s *StudentService) Create(input CreateStudentInput) (*model.Student, error) {
	var count int64
	if err := s.db.Model(&model.Student{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}
	if input.USN != "" {
		if err := s.db.Model(&model.Student{}).Where("usn = ?", input.USN).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateUSN
		}
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	student := model.Student{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Password:     hashed,
		Phone:        input.Phone,
		Gender:       input.Gender,
		Street:       input.Street,
		City:         input.City,
		State:        input.State,
		Pincode:      input.Pincode,
		CurrentClass: input.CurrentClass,
		School:       input.School,
		Board:        input.Board,
		CareerGoals:  input.CareerGoals,
		SpecialNeeds: input.SpecialNeeds,
		Role:         model.RoleStudent,
		IsVerified:   true,
		IsActive:     true,
	}
	if input.USN != "" {
		student.USN = &input.USN
	}
	if input.DateOfBirth != "" {
		dob, err := ParseAppointmentDate(input.DateOfBirth)
		if err != nil {
			return nil, err
		}
		student.DateOfBirth = &dob
	}
	if input.RiskLevel != "" {
		student.RiskLevel = model.RiskLevel(input.RiskLevel)
	}
	if input.Status != "" {
		student.Status = model.StudentStatus(input.Status)
	} else {
		student.Status = model.StudentActive
	}

	if err := s.db.Create(&student).Error; err != nil {
		return nil, err
	}

	return s.GetByID(student.ID)
}

// UpdateStudentInput is the staff-side sparse patch.
type UpdateStudentInput struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Phone        *string `json:"phone"`
	USN          *string `json:"usn"`
	Gender       *string `json:"gender"`
	DateOfBirth  *string `json:"dateOfBirth"`
	Street       *string `json:"street"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Pincode      *string `json:"pincode"`
	CurrentClass *string `json:"currentClass"`
	School       *string `json:"school"`
	Board        *string `json:"board"`
	CareerGoals  *string `json:"careerGoals"`
	SpecialNeeds *string `json:"specialNeeds"`
	RiskLevel    *string `json:"riskLevel"`
	Status       *string `json:"status"`
	IsActive     *bool   `json:"isActive"`
}

// Update applies a staff-side partial update to a student record.
func (s *StudentService) Update(id uint, input UpdateStudentInput) (*model.Student, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	put := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	put("first_name", input.FirstName)
	put("last_name", input.LastName)
	put("phone", input.Phone)
	put("usn", input.USN)
	put("gender", input.Gender)
	put("street", input.Street)
	put("city", input.City)
	put("state", input.State)
	put("pincode", input.Pincode)
	put("current_class", input.CurrentClass)
	put("school", input.School)
	put("board", input.Board)
	put("career_goals", input.CareerGoals)
	put("special_needs", input.SpecialNeeds)
	put("risk_level", input.RiskLevel)
	put("status", input.Status)
	if input.DateOfBirth != nil {
		dob, err := ParseAppointmentDate(*input.DateOfBirth)
		if err != nil {
			return nil, err
		}
		updates["date_of_birth"] = &dob
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) == 0 {
		return nil, ErrNoValidFields
	}

	if err := s.db.Model(&model.Student{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Delete hard-deletes a student and their owned rows.
func (s *StudentService) Delete(id uint) error {
	result := s.db.Unscoped().Delete(&model.Student{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// StudentOverview holds headline enrolment counts.
type StudentOverview struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Inactive  int64 `json:"inactive"`
	Graduated int64 `json:"graduated"`
}

// Overview counts students by enrolment status.
func (s *StudentService) Overview() (*StudentOverview, error) {
	var out StudentOverview

	if err := s.db.Model(&model.Student{}).Count(&out.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Student{}).Where("status = ?", model.StudentActive).Count(&out.Active).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Student{}).Where("status = ?", model.StudentInactive).Count(&out.Inactive).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Student{}).Where("status = ?", model.StudentGraduated).Count(&out.Graduated).Error; err != nil {
		return nil, err
	}

	return &out, nil
}
