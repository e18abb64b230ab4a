package store

import (
	"classroom/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Completions struct {
	DB *gorm.DB
}

func NewCompletions(db *gorm.DB) *Completions {
	return &Completions{DB: db}
}

// Insert records that the student completed the lesson. Inserting an
// existing pair is a no-op, not an error: the pre-check catches the common
// case and ON CONFLICT DO NOTHING on the unique index settles the race
// between two concurrent verifies. Returns whether a new row was written.
func (c *Completions) Insert(userID, lessonID uint) (bool, error) {
	created := false
	err := c.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Completion{}).
			Where("user_id = ? AND lesson_id = ?", userID, lessonID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Completion{UserID: userID, LessonID: lessonID})
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		return nil
	})
	return created, err
}

func (c *Completions) Exists(userID, lessonID uint) (bool, error) {
	var count int64
	err := c.DB.Model(&models.Completion{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Count(&count).Error
	return count > 0, err
}

// LessonIDsForUser returns the ids of every lesson the student completed.
func (c *Completions) LessonIDsForUser(userID uint) ([]uint, error) {
	var ids []uint
	err := c.DB.Model(&models.Completion{}).
		Where("user_id = ?", userID).
		Order("lesson_id").
		Pluck("lesson_id", &ids).Error
	return ids, err
}

// UsernamesForLesson lists who completed the lesson, for the teacher
// overview.
func (c *Completions) UsernamesForLesson(lessonID uint) ([]string, error) {
	var names []string
	err := c.DB.Model(&models.Completion{}).
		Joins("JOIN users ON users.id = completions.user_id").
		Where("completions.lesson_id = ?", lessonID).
		Order("users.username").
		Pluck("users.username", &names).Error
	return names, err
}

func (c *Completions) CountForLesson(lessonID uint) (int64, error) {
	var count int64
	err := c.DB.Model(&models.Completion{}).
		Where("lesson_id = ?", lessonID).
		Count(&count).Error
	return count, err
}
