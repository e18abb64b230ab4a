package store

import (
	"testing"

	"classroom/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLessonValidation(t *testing.T) {
	lessons := NewLessons(openTestDB(t))

	_, err := lessons.Create(LessonInput{Title: "", Body: "print(1)"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = lessons.Create(LessonInput{Title: "Loops", Body: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = lessons.Create(LessonInput{Title: "Loops", Body: "print(1)", Kind: "quiz"})
	assert.ErrorIs(t, err, ErrValidation)

	// Description may be empty; kind defaults to lesson.
	lesson, err := lessons.Create(LessonInput{Title: "Loops", Body: "print(1)"})
	require.NoError(t, err)
	assert.Equal(t, models.KindLesson, lesson.Kind)
	assert.Empty(t, lesson.Description)
}

func TestUpdateLesson(t *testing.T) {
	lessons := NewLessons(openTestDB(t))

	lesson, err := lessons.Create(LessonInput{Title: "Loops", Body: "print(1)", Kind: models.KindExercise})
	require.NoError(t, err)

	updated, err := lessons.Update(lesson.ID, LessonInput{Title: "Loops II", Description: "harder", Body: "print(2)", Kind: models.KindExercise})
	require.NoError(t, err)
	assert.Equal(t, "Loops II", updated.Title)
	assert.Equal(t, "print(2)", updated.Body)

	_, err = lessons.Update(9999, LessonInput{Title: "x", Body: "y"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByKind(t *testing.T) {
	lessons := NewLessons(openTestDB(t))

	_, err := lessons.Create(LessonInput{Title: "A", Body: "a", Kind: models.KindLesson})
	require.NoError(t, err)
	_, err = lessons.Create(LessonInput{Title: "B", Body: "b", Kind: models.KindExercise})
	require.NoError(t, err)
	_, err = lessons.Create(LessonInput{Title: "C", Body: "c", Kind: models.KindLesson})
	require.NoError(t, err)

	all, err := lessons.ListByKind("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Title)
	assert.Equal(t, "C", all[2].Title)

	exercises, err := lessons.ListByKind(models.KindExercise)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "B", exercises[0].Title)

	_, err = lessons.ListByKind("quiz")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteLessonCascades(t *testing.T) {
	db := openTestDB(t)
	lessons := NewLessons(db)
	completions := NewCompletions(db)
	users := NewUsers(db)

	alice, err := users.Create("alice", "password123")
	require.NoError(t, err)
	lesson, err := lessons.Create(LessonInput{Title: "E1", Body: "solve it", Kind: models.KindExercise})
	require.NoError(t, err)

	_, err = completions.Insert(alice.ID, lesson.ID)
	require.NoError(t, err)

	require.NoError(t, lessons.Delete(lesson.ID))

	_, err = lessons.Get(lesson.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := completions.Exists(alice.ID, lesson.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := completions.CountForLesson(lesson.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	assert.ErrorIs(t, lessons.Delete(lesson.ID), ErrNotFound)
}
