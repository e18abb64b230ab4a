package store

import (
	"errors"

	"classroom/backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Users struct {
	DB *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{DB: db}
}

// Create registers a new student account. The role is always student;
// teachers only ever come from EnsureTeacher.
func (u *Users) Create(username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
	}
	if err := u.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return &user, nil
}

func (u *Users) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := u.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *Users) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := u.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EnsureTeacher seeds the teacher account on first run. Calling it again
// with an existing username is a no-op.
func (u *Users) EnsureTeacher(username, password string) error {
	if username == "" || password == "" {
		return ErrValidation
	}

	var count int64
	if err := u.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return u.DB.Create(&models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleTeacher,
	}).Error
}
