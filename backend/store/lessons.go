package store

import (
	"errors"

	"classroom/backend/models"

	"gorm.io/gorm"
)

type Lessons struct {
	DB *gorm.DB
}

func NewLessons(db *gorm.DB) *Lessons {
	return &Lessons{DB: db}
}

type LessonInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`
	Kind        string `json:"kind"`
}

func (in *LessonInput) validate() error {
	if in.Kind == "" {
		in.Kind = models.KindLesson
	}
	if in.Title == "" || in.Body == "" || !models.ValidKind(in.Kind) {
		return ErrValidation
	}
	return nil
}

func (l *Lessons) Create(in LessonInput) (*models.Lesson, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	lesson := models.Lesson{
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		Kind:        in.Kind,
	}
	if err := l.DB.Create(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Update overwrites the lesson in place. No versioning; last write wins.
func (l *Lessons) Update(id uint, in LessonInput) (*models.Lesson, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	lesson, err := l.Get(id)
	if err != nil {
		return nil, err
	}

	lesson.Title = in.Title
	lesson.Description = in.Description
	lesson.Body = in.Body
	lesson.Kind = in.Kind
	if err := l.DB.Save(lesson).Error; err != nil {
		return nil, err
	}
	return lesson, nil
}

// Delete removes the lesson and cascades to its completion records in a
// single transaction.
func (l *Lessons) Delete(id uint) error {
	return l.DB.Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.First(&lesson, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Unscoped().Where("lesson_id = ?", id).Delete(&models.Completion{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&lesson).Error
	})
}

// ListByKind returns lessons of the given kind ordered by creation. An
// empty kind returns everything.
func (l *Lessons) ListByKind(kind string) ([]models.Lesson, error) {
	query := l.DB.Order("id")
	if kind != "" {
		if !models.ValidKind(kind) {
			return nil, ErrValidation
		}
		query = query.Where("kind = ?", kind)
	}

	var lessons []models.Lesson
	if err := query.Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (l *Lessons) Get(id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := l.DB.First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}
