package controllers

import (
	"errors"
	"math"
	"time"

	"github.com/shapovv/InterviewerServer/backend/config"
	"github.com/shapovv/InterviewerServer/backend/middleware"
	"github.com/shapovv/InterviewerServer/backend/models"
	"github.com/shapovv/InterviewerServer/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSessionsController(db *gorm.DB, cfg *config.Config) *SessionsController {
	return &SessionsController{DB: db, Cfg: cfg}
}

var errActiveSession = errors.New("активная сессия уже существует")

type AnswerQuestionRequest struct {
	SelectedAnswerID string `json:"selected_answer_id"`
}

// StartTest godoc
// @Summary Start a test session
// @Description Creates a session; a second start before finish is rejected
// @Tags sessions
// @Produce json
// @Param id path string true "Test UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tests/{id}/start [post]
func (sc *SessionsController) StartTest(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var test models.Test
	if err := sc.DB.First(&test, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Тест не найден")
	}

	var session models.UserTestSession
	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.UserTestSession
		err := tx.Where("user_id = ? AND test_id = ? AND is_completed = ?", user.ID, test.ID, false).
			First(&existing).Error
		if err == nil {
			return errActiveSession
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		session = models.UserTestSession{
			UserID:      user.ID,
			TestID:      test.ID,
			StartTime:   time.Now().UTC(),
			IsCompleted: false,
		}
		if err := tx.Create(&session).Error; err != nil {
			// Проигравший гонку одновременных стартов упирается
			// в частичный уникальный индекс
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errActiveSession
			}
			return err
		}
		return nil
	})
	if errors.Is(err, errActiveSession) {
		return utils.BadRequest(c, "У вас уже есть незавершённый тест")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not start session")
	}

	return c.JSON(fiber.Map{
		"session_id": session.ID,
		"start_time": session.StartTime,
	})
}

// AnswerQuestion godoc
// @Summary Submit an answer within an active session
// @Description Upserts the user's answer; a repeated submission overwrites the stored one
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Test UUID"
// @Param qid path string true "Question UUID"
// @Param input body AnswerQuestionRequest true "Selected answer"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tests/{id}/questions/{qid}/answer [post]
func (sc *SessionsController) AnswerQuestion(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	testID := c.Params("id")
	questionID := c.Params("qid")

	var input AnswerQuestionRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var session models.UserTestSession
	err := sc.DB.Where("user_id = ? AND test_id = ? AND is_completed = ?", user.ID, testID, false).
		First(&session).Error
	if err != nil {
		return utils.BadRequest(c, "Нет активной сессии для этого теста")
	}

	// Вопрос должен принадлежать тесту
	var question models.Question
	if err := sc.DB.Where("id = ? AND test_id = ?", questionID, testID).First(&question).Error; err != nil {
		return utils.NotFound(c, "Вопрос не найден в этом тесте")
	}

	// Вариант ответа должен принадлежать вопросу
	var answer models.Answer
	if err := sc.DB.Where("id = ? AND question_id = ?", input.SelectedAnswerID, questionID).
		First(&answer).Error; err != nil {
		return utils.NotFound(c, "Ответ не найден или не соответствует вопросу")
	}

	// Корректность берём из сохранённого флага, не пересчитываем
	userQuestion := models.UserQuestion{
		UserID:           user.ID,
		QuestionID:       question.ID,
		SelectedAnswerID: answer.ID,
		IsCorrect:        answer.IsCorrect,
		AnsweredAt:       time.Now().UTC(),
	}
	err = sc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"selected_answer_id", "is_correct", "answered_at"}),
	}).Create(&userQuestion).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not save answer")
	}

	// При перезаписи в базе остаётся исходный id записи — перечитываем
	if err := sc.DB.Where("user_id = ? AND question_id = ?", user.ID, question.ID).
		First(&userQuestion).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"user_question_id": userQuestion.ID,
		"is_correct":       userQuestion.IsCorrect,
		"answered_at":      userQuestion.AnsweredAt,
	})
}

// FinishTest godoc
// @Summary Finish the active test session
// @Description Closes the session and returns correct/wrong counts over the user's current answers
// @Tags sessions
// @Produce json
// @Param id path string true "Test UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tests/{id}/finish [post]
func (sc *SessionsController) FinishTest(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	testID := c.Params("id")

	var session models.UserTestSession
	err := sc.DB.Where("user_id = ? AND test_id = ? AND is_completed = ?", user.ID, testID, false).
		First(&session).Error
	if err != nil {
		return utils.BadRequest(c, "Нет активной сессии или тест уже завершён")
	}

	endTime := time.Now().UTC()
	// start_time без таймзоны трактуем как UTC
	totalTime := int(endTime.Sub(session.StartTime.UTC()).Seconds())
	if totalTime < 0 {
		totalTime = 0
	}

	session.EndTime = &endTime
	session.TotalTimeSeconds = &totalTime
	session.IsCompleted = true
	if err := sc.DB.Save(&session).Error; err != nil {
		return utils.InternalServerError(c, "Could not finish session")
	}

	correct, wrong, err := sc.countUserAnswers(user.ID, testID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"session_id":            session.ID,
		"end_time":              endTime,
		"total_time_seconds":    totalTime,
		"correct_answers_count": correct,
		"wrong_answers_count":   wrong,
	})
}

// GetMyTestStats godoc
// @Summary Current user's result for a test
// @Tags sessions
// @Produce json
// @Param id path string true "Test UUID"
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /tests/{id}/stats/me [get]
func (sc *SessionsController) GetMyTestStats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	testID := c.Params("id")

	var session models.UserTestSession
	err := sc.DB.Where("user_id = ? AND test_id = ?", user.ID, testID).
		Order("start_time DESC").First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Пользователь ещё не проходил тест
		return c.JSON(fiber.Map{
			"is_completed":          false,
			"total_time_seconds":    nil,
			"correct_answers_count": 0,
			"wrong_answers_count":   0,
		})
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	correct, wrong, err := sc.countUserAnswers(user.ID, testID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"is_completed":          session.IsCompleted,
		"total_time_seconds":    session.TotalTimeSeconds,
		"correct_answers_count": correct,
		"wrong_answers_count":   wrong,
	})
}

// GetTestStats godoc
// @Summary Aggregate statistics of a test (admin only)
// @Description Averages are per distinct attempting user, not per session
// @Tags sessions
// @Produce json
// @Param id path string true "Test UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tests/{id}/stats [get]
func (sc *SessionsController) GetTestStats(c *fiber.Ctx) error {
	testID := c.Params("id")

	var sessions []models.UserTestSession
	err := sc.DB.Where("test_id = ? AND is_completed = ?", testID, true).Find(&sessions).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	if len(sessions) == 0 {
		return c.JSON(fiber.Map{
			"total_users_attempted": 0,
			"avg_correct_answers":   0.0,
			"avg_wrong_answers":     0.0,
			"avg_time_seconds":      0.0,
		})
	}

	userIDs := make([]string, 0, len(sessions))
	seen := make(map[string]bool)
	for _, s := range sessions {
		if !seen[s.UserID] {
			seen[s.UserID] = true
			userIDs = append(userIDs, s.UserID)
		}
	}

	var userQuestions []models.UserQuestion
	err = sc.DB.Where("user_id IN ? AND question_id IN (?)", userIDs,
		sc.DB.Model(&models.Question{}).Select("id").Where("test_id = ?", testID)).
		Find(&userQuestions).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	correctCount := 0
	for _, uq := range userQuestions {
		if uq.IsCorrect {
			correctCount++
		}
	}
	wrongCount := len(userQuestions) - correctCount

	// Знаменатель — уникальные пользователи: два прохождения одного
	// человека считаются одной попыткой
	totalUsers := len(userIDs)
	avgCorrect := float64(correctCount) / float64(totalUsers)
	avgWrong := float64(wrongCount) / float64(totalUsers)

	// Среднее время — по сессиям с заполненным total_time_seconds
	timeSum, timeCount := 0, 0
	for _, s := range sessions {
		if s.TotalTimeSeconds != nil {
			timeSum += *s.TotalTimeSeconds
			timeCount++
		}
	}
	avgTime := 0.0
	if timeCount > 0 {
		avgTime = float64(timeSum) / float64(timeCount)
	}

	return c.JSON(fiber.Map{
		"total_users_attempted": totalUsers,
		"avg_correct_answers":   round2(avgCorrect),
		"avg_wrong_answers":     round2(avgWrong),
		"avg_time_seconds":      round2(avgTime),
	})
}

// GetMySessions godoc
// @Summary List the current user's test sessions
// @Tags sessions
// @Produce json
// @Success 200 {array} models.UserTestSession
// @Security ApiKeyAuth
// @Router /users/me/sessions [get]
func (sc *SessionsController) GetMySessions(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var sessions []models.UserTestSession
	err := sc.DB.Where("user_id = ?", user.ID).Order("start_time DESC").Find(&sessions).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(sessions)
}

// countUserAnswers считает правильные/неправильные ответы пользователя по
// вопросам теста. Учитывается текущее состояние UserQuestion, то есть
// последняя версия каждого ответа.
func (sc *SessionsController) countUserAnswers(userID, testID string) (int, int, error) {
	var userQuestions []models.UserQuestion
	err := sc.DB.Where("user_id = ? AND question_id IN (?)", userID,
		sc.DB.Model(&models.Question{}).Select("id").Where("test_id = ?", testID)).
		Find(&userQuestions).Error
	if err != nil {
		return 0, 0, err
	}

	correct := 0
	for _, uq := range userQuestions {
		if uq.IsCorrect {
			correct++
		}
	}
	return correct, len(userQuestions) - correct, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
