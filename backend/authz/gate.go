// Package authz holds the permission matrix in one place so every
// protected entry point consults the same rule.
package authz

import "classroom/backend/models"

type Action int

const (
	ViewTeacherDashboard Action = iota
	ManageLessons
	ViewStudentDashboard
	MarkComplete
	ViewOwnCompletions
)

// Can reports whether the role permits the action. Pure function, no side
// effects; an empty role (no session) is never permitted anything.
func Can(role string, action Action) bool {
	switch action {
	case ViewTeacherDashboard, ManageLessons:
		return role == models.RoleTeacher
	case ViewStudentDashboard, MarkComplete, ViewOwnCompletions:
		return role == models.RoleStudent
	}
	return false
}
