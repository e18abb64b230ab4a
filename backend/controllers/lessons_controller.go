package controllers

import (
	"errors"
	"strconv"

	"classroom/backend/middleware"
	"classroom/backend/models"
	"classroom/backend/session"
	"classroom/backend/store"
	"classroom/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// PlaceholderBody replaces an exercise's real body in responses to a
// student who has not completed it yet.
const PlaceholderBody = "Do The Exercise First"

type LessonsController struct {
	Lessons *store.Lessons
	Ledger  *store.Completions
}

func NewLessonsController(lessons *store.Lessons, ledger *store.Completions) *LessonsController {
	return &LessonsController{Lessons: lessons, Ledger: ledger}
}

// presentLesson serializes a lesson for the given identity. Masking happens
// here, at the representation boundary, so no response ever carries an
// exercise body the student has not earned.
func presentLesson(lesson models.Lesson, ident session.Identity, completed bool) fiber.Map {
	body := lesson.Body
	if ident.Role != models.RoleTeacher && lesson.Kind == models.KindExercise && !completed {
		body = PlaceholderBody
	}

	return fiber.Map{
		"id":          lesson.ID,
		"title":       lesson.Title,
		"description": lesson.Description,
		"body":        body,
		"kind":        lesson.Kind,
		"completed":   completed,
	}
}

// List godoc
// @Summary List lessons
// @Description Returns lessons ordered by creation, optionally filtered by kind; exercise bodies are masked for students without a completion
// @Tags lessons
// @Produce json
// @Param kind query string false "lesson or exercise"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Router /lessons [get]
func (lc *LessonsController) List(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	lessons, err := lc.Lessons.ListByKind(c.Query("kind"))
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			return utils.BadRequest(c, "Invalid lesson kind")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	completed := map[uint]bool{}
	if ident.Role == models.RoleStudent {
		ids, err := lc.Ledger.LessonIDsForUser(ident.ID)
		if err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
		for _, id := range ids {
			completed[id] = true
		}
	}

	result := make([]fiber.Map, 0, len(lessons))
	for _, lesson := range lessons {
		result = append(result, presentLesson(lesson, ident, completed[lesson.ID]))
	}

	return c.JSON(fiber.Map{"lessons": result})
}

// Get godoc
// @Summary Get one lesson
// @Tags lessons
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /lessons/{id} [get]
func (lc *LessonsController) Get(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	lesson, err := lc.Lessons.Get(uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	completed := false
	if ident.Role == models.RoleStudent {
		completed, err = lc.Ledger.Exists(ident.ID, lesson.ID)
		if err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
	}

	return c.JSON(fiber.Map{"lesson": presentLesson(*lesson, ident, completed)})
}

// Create godoc
// @Summary Create a lesson or exercise
// @Description Teacher only
// @Tags lessons
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /lessons [post]
func (lc *LessonsController) Create(c *fiber.Ctx) error {
	var input store.LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	lesson, err := lc.Lessons.Create(input)
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			return utils.ValidationError(c, "Title and body are required")
		}
		return utils.InternalServerError(c, "Could not create lesson")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"lesson": presentLesson(*lesson, middleware.Identity(c), false),
	})
}

// Update godoc
// @Summary Update a lesson in place
// @Description Teacher only; edits overwrite, last write wins
// @Tags lessons
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /lessons/{id} [put]
func (lc *LessonsController) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input store.LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	lesson, err := lc.Lessons.Update(uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return utils.NotFound(c, "Lesson not found")
		case errors.Is(err, store.ErrValidation):
			return utils.ValidationError(c, "Title and body are required")
		}
		return utils.InternalServerError(c, "Could not update lesson")
	}

	return c.JSON(fiber.Map{
		"lesson": presentLesson(*lesson, middleware.Identity(c), false),
	})
}

// Delete godoc
// @Summary Delete a lesson
// @Description Teacher only; cascades to the lesson's completion records
// @Tags lessons
// @Success 204
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /lessons/{id} [delete]
func (lc *LessonsController) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	if err := lc.Lessons.Delete(uint(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not delete lesson")
	}

	return utils.NoContent(c)
}

// Completions godoc
// @Summary Who completed a lesson
// @Description Teacher overview of a lesson's completions
// @Tags lessons
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /lessons/{id}/completions [get]
func (lc *LessonsController) Completions(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	if _, err := lc.Lessons.Get(uint(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	usernames, err := lc.Ledger.UsernamesForLesson(uint(id))
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	count, err := lc.Ledger.CountForLesson(uint(id))
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"lesson_id": id,
		"count":     count,
		"usernames": usernames,
	})
}
