package controllers

import (
	"github.com/shapovv/InterviewerServer/backend/config"
	"github.com/shapovv/InterviewerServer/backend/models"
	"github.com/shapovv/InterviewerServer/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TestsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewTestsController(db *gorm.DB, cfg *config.Config) *TestsController {
	return &TestsController{DB: db, Cfg: cfg}
}

type TestRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// GetTests godoc
// @Summary List tests
// @Description Returns all tests, optionally filtered by a search term
// @Tags tests
// @Produce json
// @Param search query string false "Search in title and description"
// @Success 200 {array} models.Test
// @Security ApiKeyAuth
// @Router /tests [get]
func (tc *TestsController) GetTests(c *fiber.Ctx) error {
	query := tc.DB.Model(&models.Test{})

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var tests []models.Test
	if err := query.Order("created_at DESC").Find(&tests).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(tests)
}

// GetTest godoc
// @Summary Get test by id
// @Tags tests
// @Produce json
// @Param id path string true "Test UUID"
// @Success 200 {object} models.Test
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tests/{id} [get]
func (tc *TestsController) GetTest(c *fiber.Ctx) error {
	var test models.Test
	if err := tc.DB.First(&test, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Тест не найден")
	}
	return c.JSON(test)
}

// CreateTest создаёт тест (только админ).
func (tc *TestsController) CreateTest(c *fiber.Ctx) error {
	var input TestRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == nil || *input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	test := models.Test{Title: *input.Title}
	if input.Description != nil {
		test.Description = *input.Description
	}

	if err := tc.DB.Create(&test).Error; err != nil {
		return utils.InternalServerError(c, "Could not create test")
	}
	return c.JSON(test)
}

// UpdateTest обновляет title/description теста (только админ).
func (tc *TestsController) UpdateTest(c *fiber.Ctx) error {
	var test models.Test
	if err := tc.DB.First(&test, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Тест не найден")
	}

	var input TestRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != nil {
		test.Title = *input.Title
	}
	if input.Description != nil {
		test.Description = *input.Description
	}

	if err := tc.DB.Save(&test).Error; err != nil {
		return utils.InternalServerError(c, "Could not update test")
	}
	return c.JSON(test)
}

// DeleteTest удаляет тест вместе с вопросами, ответами и пользовательскими
// записями по ним (только админ). Схема без каскадов, чистим явно.
func (tc *TestsController) DeleteTest(c *fiber.Ctx) error {
	var test models.Test
	if err := tc.DB.First(&test, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Тест не найден")
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		questionIDs := tx.Model(&models.Question{}).Select("id").Where("test_id = ?", test.ID)

		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.UserQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", test.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", test.ID).Delete(&models.UserTestSession{}).Error; err != nil {
			return err
		}
		return tx.Delete(&test).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete test")
	}

	return c.JSON(fiber.Map{"detail": "Тест удалён"})
}
