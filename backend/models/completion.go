package models

import "gorm.io/gorm"

// Completion is the join record "student completed lesson". The composite
// unique index is the guard of last resort against duplicate rows; the
// workflow's existence check is only an optimization.
type Completion struct {
	gorm.Model
	UserID   uint `gorm:"not null;uniqueIndex:idx_user_lesson"`
	LessonID uint `gorm:"not null;uniqueIndex:idx_user_lesson"`
}
