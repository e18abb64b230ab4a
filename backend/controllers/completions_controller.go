package controllers

import (
	"errors"
	"strconv"

	"classroom/backend/middleware"
	"classroom/backend/session"
	"classroom/backend/store"
	"classroom/backend/utils"
	"classroom/backend/workflow"

	"github.com/gofiber/fiber/v2"
)

type CompletionsController struct {
	Workflow *workflow.Completions
	Lessons  *store.Lessons
	Ledger   *store.Completions
	Sessions *session.Manager
}

func NewCompletionsController(flow *workflow.Completions, lessons *store.Lessons, ledger *store.Completions, sessions *session.Manager) *CompletionsController {
	return &CompletionsController{Workflow: flow, Lessons: lessons, Ledger: ledger, Sessions: sessions}
}

func (cc *CompletionsController) lessonID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// Request godoc
// @Summary Signal intent to mark a lesson complete
// @Description Opens the passphrase challenge; nothing is persisted yet
// @Tags completions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /completions/{lessonId}/request [post]
func (cc *CompletionsController) Request(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	lessonID, err := cc.lessonID(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	intents, err := cc.Sessions.Intents(c)
	if err != nil {
		return utils.InternalServerError(c, "Could not read session")
	}

	state, err := cc.Workflow.Request(intents, ident.ID, lessonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not update completion state")
	}

	return c.JSON(fiber.Map{"state": state})
}

// Verify godoc
// @Summary Verify the shared passphrase and persist the completion
// @Description A correct passphrase completes the lesson idempotently; a wrong one reverts to not_completed
// @Tags completions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /completions/{lessonId}/verify [post]
func (cc *CompletionsController) Verify(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	lessonID, err := cc.lessonID(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input struct {
		Passphrase string `json:"passphrase"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	intents, err := cc.Sessions.Intents(c)
	if err != nil {
		return utils.InternalServerError(c, "Could not read session")
	}

	state, err := cc.Workflow.Verify(intents, ident.ID, lessonID, input.Passphrase)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return utils.NotFound(c, "Lesson not found")
		case errors.Is(err, workflow.ErrIncorrectPassphrase):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Incorrect passphrase",
				"state": state,
			})
		}
		return utils.InternalServerError(c, "Could not persist completion")
	}

	// Verified: the real body is revealed from here on.
	lesson, err := cc.Lessons.Get(lessonID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"state":  state,
		"lesson": presentLesson(*lesson, ident, true),
	})
}

// Cancel godoc
// @Summary Abandon a pending verification
// @Description Equivalent to closing the passphrase dialog; no persisted side effect
// @Tags completions
// @Success 204
// @Router /completions/{lessonId}/request [delete]
func (cc *CompletionsController) Cancel(c *fiber.Ctx) error {
	lessonID, err := cc.lessonID(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	intents, err := cc.Sessions.Intents(c)
	if err != nil {
		return utils.InternalServerError(c, "Could not read session")
	}

	if err := cc.Workflow.Cancel(intents, lessonID); err != nil {
		return utils.InternalServerError(c, "Could not update completion state")
	}

	return utils.NoContent(c)
}

// Mine godoc
// @Summary The student's own completion state
// @Tags completions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /completions [get]
func (cc *CompletionsController) Mine(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	ids, err := cc.Ledger.LessonIDsForUser(ident.ID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if ids == nil {
		ids = []uint{}
	}

	return c.JSON(fiber.Map{"lesson_ids": ids})
}
