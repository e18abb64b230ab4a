package workflow

import (
	"path/filepath"
	"testing"

	"classroom/backend/models"
	"classroom/backend/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeIntent stands in for the session-backed pending store.
type fakeIntent map[uint]bool

func (f fakeIntent) Set(lessonID uint) error   { f[lessonID] = true; return nil }
func (f fakeIntent) Clear(lessonID uint) error { delete(f, lessonID); return nil }
func (f fakeIntent) Has(lessonID uint) bool    { return f[lessonID] }

type fixture struct {
	flow    *Completions
	ledger  *store.Completions
	student *models.User
	lesson  *models.Lesson
}

func setup(t *testing.T, passphrase string) fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	users := store.NewUsers(db)
	lessons := store.NewLessons(db)
	ledger := store.NewCompletions(db)

	student, err := users.Create("alice", "password123")
	require.NoError(t, err)
	lesson, err := lessons.Create(store.LessonInput{Title: "E1", Body: "solve it", Kind: models.KindExercise})
	require.NoError(t, err)

	return fixture{
		flow:    NewCompletions(lessons, ledger, passphrase),
		ledger:  ledger,
		student: student,
		lesson:  lesson,
	}
}

func TestRequestMovesToPending(t *testing.T) {
	f := setup(t, "magic-words")
	intent := fakeIntent{}

	state, err := f.flow.State(intent, f.student.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, NotCompleted, state)

	state, err = f.flow.Request(intent, f.student.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, PendingVerification, state)

	state, err = f.flow.State(intent, f.student.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, PendingVerification, state)

	// Nothing persisted yet.
	exists, err := f.ledger.Exists(f.student.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRequestUnknownLesson(t *testing.T) {
	f := setup(t, "magic-words")

	_, err := f.flow.Request(fakeIntent{}, f.student.ID, 9999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestVerifyCorrectPassphrase(t *testing.T) {
	f := setup(t, "magic-words")
	intent := fakeIntent{}

	_, err := f.flow.Request(intent, f.student.ID, f.lesson.ID)
	require.NoError(t, err)

	state, err := f.flow.Verify(intent, f.student.ID, f.lesson.ID, "magic-words")
	require.NoError(t, err)
	assert.Equal(t, Completed, state)
	assert.False(t, intent.Has(f.lesson.ID))

	exists, err := f.ledger.Exists(f.student.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestVerifyTwiceKeepsSingleRecord(t *testing.T) {
	f := setup(t, "magic-words")
	intent := fakeIntent{}

	for i := 0; i < 2; i++ {
		state, err := f.flow.Verify(intent, f.student.ID, f.lesson.ID, "magic-words")
		require.NoError(t, err)
		assert.Equal(t, Completed, state)
	}

	count, err := f.ledger.CountForLesson(f.lesson.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestVerifyWrongPassphrase(t *testing.T) {
	f := setup(t, "magic-words")
	intent := fakeIntent{}

	_, err := f.flow.Request(intent, f.student.ID, f.lesson.ID)
	require.NoError(t, err)

	state, err := f.flow.Verify(intent, f.student.ID, f.lesson.ID, "guess")
	assert.ErrorIs(t, err, ErrIncorrectPassphrase)
	assert.Equal(t, NotCompleted, state)
	assert.False(t, intent.Has(f.lesson.ID))

	exists, err := f.ledger.Exists(f.student.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVerifyWithNoConfiguredPassphrase(t *testing.T) {
	f := setup(t, "")

	// An unset secret can never be matched, not even by an empty guess.
	_, err := f.flow.Verify(fakeIntent{}, f.student.ID, f.lesson.ID, "")
	assert.ErrorIs(t, err, ErrIncorrectPassphrase)
}

func TestCancelRevertsPending(t *testing.T) {
	f := setup(t, "magic-words")
	intent := fakeIntent{}

	_, err := f.flow.Request(intent, f.student.ID, f.lesson.ID)
	require.NoError(t, err)

	require.NoError(t, f.flow.Cancel(intent, f.lesson.ID))

	state, err := f.flow.State(intent, f.student.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, NotCompleted, state)
}

func TestCompletedIsTerminal(t *testing.T) {
	f := setup(t, "magic-words")
	intent := fakeIntent{}

	_, err := f.flow.Verify(intent, f.student.ID, f.lesson.ID, "magic-words")
	require.NoError(t, err)

	// Requesting again does not reopen the machine.
	state, err := f.flow.Request(intent, f.student.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, Completed, state)
	assert.False(t, intent.Has(f.lesson.ID))

	// A stale pending intent never downgrades a persisted completion.
	require.NoError(t, intent.Set(f.lesson.ID))
	state, err = f.flow.State(intent, f.student.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, Completed, state)
}
