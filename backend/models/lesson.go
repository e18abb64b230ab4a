package models

import "gorm.io/gorm"

const (
	KindLesson   = "lesson"
	KindExercise = "exercise"
)

func ValidKind(kind string) bool {
	return kind == KindLesson || kind == KindExercise
}

type Lesson struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	Body        string       `gorm:"not null"`                // code text shown (or masked) to students
	Kind        string       `gorm:"not null;default:lesson"` // lesson, exercise
	Completions []Completion `gorm:"constraint:OnDelete:CASCADE"`
}
