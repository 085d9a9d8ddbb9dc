package controllers

import (
	"github.com/shapovv/InterviewerServer/backend/config"
	"github.com/shapovv/InterviewerServer/backend/models"
	"github.com/shapovv/InterviewerServer/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuestionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuestionsController(db *gorm.DB, cfg *config.Config) *QuestionsController {
	return &QuestionsController{DB: db, Cfg: cfg}
}

type QuestionRequest struct {
	Topic        *string `json:"topic"`
	QuestionText *string `json:"question_text"`
	Explanation  *string `json:"explanation"`
}

type AnswerRequest struct {
	Text      *string `json:"text"`
	IsCorrect *bool   `json:"is_correct"`
}

// GetQuestionsByTest godoc
// @Summary List questions of a test
// @Tags questions
// @Produce json
// @Param id path string true "Test UUID"
// @Success 200 {array} models.Question
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tests/{id}/questions [get]
func (qc *QuestionsController) GetQuestionsByTest(c *fiber.Ctx) error {
	var test models.Test
	if err := qc.DB.First(&test, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Тест не найден")
	}

	var questions []models.Question
	if err := qc.DB.Where("test_id = ?", test.ID).Order("created_at").Find(&questions).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(questions)
}

// GetQuestion возвращает вопрос по UUID.
func (qc *QuestionsController) GetQuestion(c *fiber.Ctx) error {
	var question models.Question
	if err := qc.DB.First(&question, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Вопрос не найден")
	}
	return c.JSON(question)
}

// CreateQuestion создаёт вопрос внутри теста (только админ).
func (qc *QuestionsController) CreateQuestion(c *fiber.Ctx) error {
	var test models.Test
	if err := qc.DB.First(&test, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Тест не найден")
	}

	var input QuestionRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.QuestionText == nil || *input.QuestionText == "" {
		return utils.BadRequest(c, "Question text is required")
	}

	question := models.Question{
		TestID:       test.ID,
		QuestionText: *input.QuestionText,
	}
	if input.Topic != nil {
		question.Topic = *input.Topic
	}
	if input.Explanation != nil {
		question.Explanation = *input.Explanation
	}

	if err := qc.DB.Create(&question).Error; err != nil {
		return utils.InternalServerError(c, "Could not create question")
	}
	return c.JSON(question)
}

// UpdateQuestion обновляет topic/question_text/explanation (только админ).
func (qc *QuestionsController) UpdateQuestion(c *fiber.Ctx) error {
	var question models.Question
	if err := qc.DB.First(&question, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Вопрос не найден")
	}

	var input QuestionRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Topic != nil {
		question.Topic = *input.Topic
	}
	if input.QuestionText != nil {
		question.QuestionText = *input.QuestionText
	}
	if input.Explanation != nil {
		question.Explanation = *input.Explanation
	}

	if err := qc.DB.Save(&question).Error; err != nil {
		return utils.InternalServerError(c, "Could not update question")
	}
	return c.JSON(question)
}

// DeleteQuestion удаляет вопрос, его варианты ответов и ответы
// пользователей на него (только админ).
func (qc *QuestionsController) DeleteQuestion(c *fiber.Ctx) error {
	var question models.Question
	if err := qc.DB.First(&question, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Вопрос не найден")
	}

	err := qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.UserQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete question")
	}

	return c.JSON(fiber.Map{"detail": "Вопрос удалён"})
}

// GetAnswers godoc
// @Summary List answer options of a question
// @Tags questions
// @Produce json
// @Param id path string true "Question UUID"
// @Success 200 {array} models.Answer
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /questions/{id}/answers [get]
func (qc *QuestionsController) GetAnswers(c *fiber.Ctx) error {
	var question models.Question
	if err := qc.DB.First(&question, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Вопрос не найден")
	}

	var answers []models.Answer
	if err := qc.DB.Where("question_id = ?", question.ID).Order("created_at").Find(&answers).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(answers)
}

// CreateAnswer создаёт вариант ответа (только админ).
func (qc *QuestionsController) CreateAnswer(c *fiber.Ctx) error {
	var question models.Question
	if err := qc.DB.First(&question, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Вопрос не найден")
	}

	var input AnswerRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Text == nil || *input.Text == "" {
		return utils.BadRequest(c, "Answer text is required")
	}

	answer := models.Answer{
		QuestionID: question.ID,
		Text:       *input.Text,
	}
	if input.IsCorrect != nil {
		answer.IsCorrect = *input.IsCorrect
	}

	if err := qc.DB.Create(&answer).Error; err != nil {
		return utils.InternalServerError(c, "Could not create answer")
	}
	return c.JSON(answer)
}

// UpdateAnswer обновляет текст или флаг is_correct (только админ).
// Вопрос не может остаться без единственного правильного ответа.
func (qc *QuestionsController) UpdateAnswer(c *fiber.Ctx) error {
	var answer models.Answer
	if err := qc.DB.First(&answer, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Ответ не найден")
	}

	var input AnswerRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.IsCorrect != nil && !*input.IsCorrect && answer.IsCorrect {
		others, err := qc.countOtherCorrect(answer)
		if err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
		if others == 0 {
			return utils.BadRequest(c, "У вопроса должен остаться хотя бы один правильный ответ")
		}
	}

	if input.Text != nil {
		answer.Text = *input.Text
	}
	if input.IsCorrect != nil {
		answer.IsCorrect = *input.IsCorrect
	}

	if err := qc.DB.Save(&answer).Error; err != nil {
		return utils.InternalServerError(c, "Could not update answer")
	}
	return c.JSON(answer)
}

// DeleteAnswer удаляет вариант ответа (только админ) с той же проверкой
// на последний правильный ответ.
func (qc *QuestionsController) DeleteAnswer(c *fiber.Ctx) error {
	var answer models.Answer
	if err := qc.DB.First(&answer, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Ответ не найден")
	}

	if answer.IsCorrect {
		others, err := qc.countOtherCorrect(answer)
		if err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
		if others == 0 {
			return utils.BadRequest(c, "У вопроса должен остаться хотя бы один правильный ответ")
		}
	}

	if err := qc.DB.Delete(&answer).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete answer")
	}
	return c.JSON(fiber.Map{"detail": "Вариант ответа удалён"})
}

func (qc *QuestionsController) countOtherCorrect(answer models.Answer) (int64, error) {
	var count int64
	err := qc.DB.Model(&models.Answer{}).
		Where("question_id = ? AND id <> ? AND is_correct = ?", answer.QuestionID, answer.ID, true).
		Count(&count).Error
	return count, err
}
