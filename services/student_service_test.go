package services

import (
	"errors"
	"testing"

	"github.com/atma-chethana/counselling-api/model"
)

func TestStudentCreateAndDuplicates(t *testing.T) {
	db := openTestDB(t)
	svc := NewStudentService(db)

	student, err := svc.Create(CreateStudentInput{
		FirstName:   "Ravi",
		LastName:    "Kumar",
		Email:       "ravi@test.com",
		Password:    "password123",
		USN:         "1AB21CS001",
		DateOfBirth: "2004-06-15",
		RiskLevel:   string(model.RiskMedium),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !student.IsVerified {
		t.Error("staff-created students should be verified immediately")
	}
	if student.Status != model.StudentActive {
		t.Errorf("Status = %q, want Active", student.Status)
	}
	if student.RiskLevel != model.RiskMedium {
		t.Errorf("RiskLevel = %q, want Medium", student.RiskLevel)
	}
	if student.Password == "password123" {
		t.Error("password stored in plaintext")
	}

	if _, err := svc.Create(CreateStudentInput{
		FirstName: "Other", LastName: "Person",
		Email: "ravi@test.com", Password: "password123",
	}); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("duplicate email = %v, want ErrDuplicateEmail", err)
	}

	if _, err := svc.Create(CreateStudentInput{
		FirstName: "Other", LastName: "Person",
		Email: "other@test.com", Password: "password123",
		USN: "1AB21CS001",
	}); !errors.Is(err, ErrDuplicateUSN) {
		t.Errorf("duplicate USN = %v, want ErrDuplicateUSN", err)
	}
}

func TestStudentUpdate(t *testing.T) {
	db := openTestDB(t)
	svc := NewStudentService(db)

	student := seedStudent(t, db, "update@test.com")

	phone := "9876543210"
	risk := string(model.RiskHigh)
	updated, err := svc.Update(student.ID, UpdateStudentInput{
		Phone:     &phone,
		RiskLevel: &risk,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Phone != phone {
		t.Errorf("Phone = %q, want %q", updated.Phone, phone)
	}
	if updated.RiskLevel != model.RiskHigh {
		t.Errorf("RiskLevel = %q, want High", updated.RiskLevel)
	}

	if _, err := svc.Update(student.ID, UpdateStudentInput{}); !errors.Is(err, ErrNoValidFields) {
		t.Errorf("empty Update = %v, want ErrNoValidFields", err)
	}

	badDate := "15-06-2004"
	if _, err := svc.Update(student.ID, UpdateStudentInput{DateOfBirth: &badDate}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date = %v, want ErrInvalidDate", err)
	}

	if _, err := svc.Update(999, UpdateStudentInput{Phone: &phone}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(999) = %v, want ErrNotFound", err)
	}
}

func TestUpdateProfileNestedPayload(t *testing.T) {
	db := openTestDB(t)
	svc := NewStudentService(db)

	student := seedStudent(t, db, "profile@test.com")

	var input ProfileUpdateInput
	firstName := "Changed"
	city := "Bengaluru"
	school := "National Public School"
	parentName := "Guardian Name"
	dob := "2005-01-20"

	input.PersonalInfo = &struct {
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
	}{
		FirstName:   &firstName,
		DateOfBirth: &dob,
		Address: &struct {
			Street  *string `json:"street"`
			City    *string `json:"city"`
			State   *string `json:"state"`
			Pincode *string `json:"pincode"`
		}{City: &city},
	}
	input.AcademicInfo = &struct {
		CurrentClass *string `json:"currentClass"`
		School       *string `json:"school"`
		Board        *string `json:"board"`
		CareerGoals  *string `json:"careerGoals"`
	}{School: &school}
	input.CounselingInfo = &struct {
		ParentGuardianInfo *struct {
			Name         *string `json:"name"`
			Relationship *string `json:"relationship"`
			Phone        *string `json:"phone"`
			Email        *string `json:"email"`
		} `json:"parentGuardianInfo"`
	}{
		ParentGuardianInfo: &struct {
			Name         *string `json:"name"`
			Relationship *string `json:"relationship"`
			Phone        *string `json:"phone"`
			Email        *string `json:"email"`
		}{Name: &parentName},
	}

	updated, err := svc.UpdateProfile(student.ID, input)
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.FirstName != firstName {
		t.Errorf("FirstName = %q, want %q", updated.FirstName, firstName)
	}
	if updated.City != city {
		t.Errorf("City = %q, want %q", updated.City, city)
	}
	if updated.School != school {
		t.Errorf("School = %q, want %q", updated.School, school)
	}
	if updated.ParentName != parentName {
		t.Errorf("ParentName = %q, want %q", updated.ParentName, parentName)
	}
	if updated.DateOfBirth == nil || updated.DateOfBirth.Format("2006-01-02") != dob {
		t.Errorf("DateOfBirth = %v, want %s", updated.DateOfBirth, dob)
	}
	// Email never moves through this path.
	if updated.Email != "profile@test.com" {
		t.Errorf("Email = %q, changed by profile update", updated.Email)
	}
}

func TestStudentListSearch(t *testing.T) {
	db := openTestDB(t)
	svc := NewStudentService(db)

	for i, spec := range []struct {
		first, last, usn string
	}{
		{"Alice", "Smith", "1AB21CS001"},
		{"Bob", "Smithers", "1AB21CS002"},
		{"Charlie", "Jones", "1AB21EC003"},
	} {
		if _, err := svc.Create(CreateStudentInput{
			FirstName: spec.first,
			LastName:  spec.last,
			Email:     uniqueEmail(i),
			Password:  "password123",
			USN:       spec.usn,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	tests := []struct {
		search string
		want   int
	}{
		{"smith", 2},
		{"ALICE", 1},
		{"1ab21ec", 1},
		{"nobody", 0},
		{"", 3},
	}
	for _, tt := range tests {
		students, pagination, err := svc.List(StudentFilter{Search: tt.search})
		if err != nil {
			t.Fatalf("List(%q) failed: %v", tt.search, err)
		}
		if len(students) != tt.want {
			t.Errorf("List(%q) = %d rows, want %d", tt.search, len(students), tt.want)
		}
		if pagination.Total != int64(tt.want) {
			t.Errorf("List(%q) total = %d, want %d", tt.search, pagination.Total, tt.want)
		}
	}
}

func TestStudentDeleteAndOverview(t *testing.T) {
	db := openTestDB(t)
	svc := NewStudentService(db)

	active := seedStudent(t, db, "active@test.com")
	inactive := seedStudent(t, db, "inactive@test.com")
	graduated := seedStudent(t, db, "graduated@test.com")

	db.Model(inactive).Update("status", model.StudentInactive)
	db.Model(graduated).Update("status", model.StudentGraduated)

	overview, err := svc.Overview()
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if overview.Total != 3 || overview.Active != 1 || overview.Inactive != 1 || overview.Graduated != 1 {
		t.Errorf("Overview = %+v, want 3/1/1/1", overview)
	}

	if err := svc.Delete(active.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.GetByID(active.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(active.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double Delete = %v, want ErrNotFound", err)
	}
}
