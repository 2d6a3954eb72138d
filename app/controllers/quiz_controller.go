package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quizhub/quizhub/app/models"
	"github.com/quizhub/quizhub/app/repository"
	"github.com/quizhub/quizhub/internal/pkg/httperr"
	"github.com/quizhub/quizhub/internal/pkg/middleware"
)

// QuizController serves quiz creation and retrieval.
type QuizController struct {
	quizzes repository.QuizRepository
}

// NewQuizController creates a new quiz controller instance
func NewQuizController(quizzes repository.QuizRepository) *QuizController {
	return &QuizController{quizzes: quizzes}
}

type createQuizRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

// HandleCreate creates a new draft quiz owned by the current user.
//
// POST /quiz/create
func (ctrl *QuizController) HandleCreate(c *fiber.Ctx) error {
	user := middleware.UserFromContext(c)

	var req createQuizRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	quiz := models.NewQuiz(user, req.Title)
	if err := ctrl.quizzes.Create(quiz); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// HandleGet returns a quiz owned by the current user.
//
// GET /quiz/:id
func (ctrl *QuizController) HandleGet(c *fiber.Ctx) error {
	user := middleware.UserFromContext(c)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return httperr.QuizNotFound
	}

	quiz, err := ctrl.quizzes.GetByID(uint(id))
	if err != nil {
		return err
	}
	if quiz == nil {
		return httperr.QuizNotFound
	}
	if quiz.OwnerID != user.ID {
		return httperr.MissingPermission
	}

	return c.JSON(quiz)
}

// HandleList returns every quiz owned by the current user.
//
// GET /quiz
func (ctrl *QuizController) HandleList(c *fiber.Ctx) error {
	user := middleware.UserFromContext(c)

	quizzes, err := ctrl.quizzes.ListByOwner(user.ID)
	if err != nil {
		return err
	}

	return c.JSON(quizzes)
}
