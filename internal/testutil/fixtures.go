package testutil

import (
	"fmt"
	"testing"

	"clinic-booking/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateDepartment inserts a department named name.
func CreateDepartment(t *testing.T, db *gorm.DB, name string) *entity.Department {
	t.Helper()
	department := &entity.Department{Name: name}
	require.NoError(t, db.Create(department).Error)
	return department
}

// CreateDoctor inserts a doctor in department with a unique email derived from name.
func CreateDoctor(t *testing.T, db *gorm.DB, department *entity.Department, name, specialization string) *entity.Doctor {
	t.Helper()
	doctor := &entity.Doctor{
		Name:            name,
		DepartmentID:    department.ID,
		Specialization:  specialization,
		Email:           fmt.Sprintf("%s@clinic.test", name),
		Phone:           "0123456789",
		AvailableDays:   entity.DefaultAvailableDays,
		ConsultationFee: decimal.RequireFromString("50.00"),
	}
	require.NoError(t, db.Omit("Department").Create(doctor).Error)
	doctor.Department = department
	return doctor
}

// CreateUser inserts an active user with the given password.
func CreateUser(t *testing.T, db *gorm.DB, username, password string, staff bool) *entity.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &entity.User{Username: username, Password: string(hashed), IsStaff: staff}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&entity.UserProfile{UserID: user.ID}).Error)
	return user
}
