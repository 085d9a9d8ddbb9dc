package controllers

import (
	"errors"

	"github.com/shapovv/InterviewerServer/backend/config"
	"github.com/shapovv/InterviewerServer/backend/middleware"
	"github.com/shapovv/InterviewerServer/backend/models"
	"github.com/shapovv/InterviewerServer/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MaterialsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewMaterialsController(db *gorm.DB, cfg *config.Config) *MaterialsController {
	return &MaterialsController{DB: db, Cfg: cfg}
}

type MaterialRequest struct {
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
	Content  *string `json:"content"`
	Level    *string `json:"level"`
}

type MaterialLikeRequest struct {
	IsLiked bool `json:"is_liked"`
}

// GetMaterials godoc
// @Summary List materials
// @Description Returns all materials, optionally filtered by level and search term
// @Tags materials
// @Produce json
// @Param level query string false "Level filter (junior/middle/senior)"
// @Param search query string false "Search in title and subtitle"
// @Success 200 {array} models.Material
// @Security ApiKeyAuth
// @Router /materials [get]
func (mc *MaterialsController) GetMaterials(c *fiber.Ctx) error {
	query := mc.DB.Model(&models.Material{})

	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		// LOWER + LIKE вместо ILIKE, чтобы работало и на postgres, и на sqlite
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(subtitle) LIKE LOWER(?)", pattern, pattern)
	}

	var materials []models.Material
	if err := query.Order("created_at DESC").Find(&materials).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(materials)
}

// GetMaterial godoc
// @Summary Get material by id
// @Tags materials
// @Produce json
// @Param id path string true "Material UUID"
// @Success 200 {object} models.Material
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /materials/{id} [get]
func (mc *MaterialsController) GetMaterial(c *fiber.Ctx) error {
	var material models.Material
	if err := mc.DB.First(&material, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Материал не найден")
	}
	return c.JSON(material)
}

// CreateMaterial создаёт материал (только админ).
func (mc *MaterialsController) CreateMaterial(c *fiber.Ctx) error {
	var input MaterialRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == nil || *input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	material := models.Material{Title: *input.Title}
	if input.Subtitle != nil {
		material.Subtitle = *input.Subtitle
	}
	if input.Content != nil {
		material.Content = *input.Content
	}
	if input.Level != nil {
		material.Level = *input.Level
	}

	if err := mc.DB.Create(&material).Error; err != nil {
		return utils.InternalServerError(c, "Could not create material")
	}
	return c.JSON(material)
}

// UpdateMaterial обновляет поля материала (только админ).
func (mc *MaterialsController) UpdateMaterial(c *fiber.Ctx) error {
	var material models.Material
	if err := mc.DB.First(&material, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Материал не найден")
	}

	var input MaterialRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != nil {
		material.Title = *input.Title
	}
	if input.Subtitle != nil {
		material.Subtitle = *input.Subtitle
	}
	if input.Content != nil {
		material.Content = *input.Content
	}
	if input.Level != nil {
		material.Level = *input.Level
	}

	if err := mc.DB.Save(&material).Error; err != nil {
		return utils.InternalServerError(c, "Could not update material")
	}
	return c.JSON(material)
}

// DeleteMaterial удаляет материал вместе с лайками (только админ).
func (mc *MaterialsController) DeleteMaterial(c *fiber.Ctx) error {
	var material models.Material
	if err := mc.DB.First(&material, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Материал не найден")
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("material_id = ?", material.ID).Delete(&models.UserMaterial{}).Error; err != nil {
			return err
		}
		return tx.Delete(&material).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete material")
	}

	return c.JSON(fiber.Map{"detail": "Материал удалён"})
}

// SetLike godoc
// @Summary Like or unlike a material
// @Tags materials
// @Accept json
// @Produce json
// @Param id path string true "Material UUID"
// @Param input body MaterialLikeRequest true "Like flag"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /materials/{id}/like [post]
func (mc *MaterialsController) SetLike(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var material models.Material
	if err := mc.DB.First(&material, "id = ?", c.Params("id")).Error; err != nil {
		return utils.NotFound(c, "Материал не найден")
	}

	var input MaterialLikeRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var userMaterial models.UserMaterial
	err := mc.DB.Where("user_id = ? AND material_id = ?", user.ID, material.ID).First(&userMaterial).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		userMaterial = models.UserMaterial{
			UserID:     user.ID,
			MaterialID: material.ID,
			IsLiked:    input.IsLiked,
		}
		// OnConflict на случай гонки двух одновременных лайков
		if err := mc.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "material_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_liked"}),
		}).Create(&userMaterial).Error; err != nil {
			return utils.InternalServerError(c, "Could not save like")
		}
	case err != nil:
		return utils.InternalServerError(c, "Could not query database")
	default:
		userMaterial.IsLiked = input.IsLiked
		if err := mc.DB.Save(&userMaterial).Error; err != nil {
			return utils.InternalServerError(c, "Could not save like")
		}
	}

	return c.JSON(fiber.Map{"is_liked": input.IsLiked})
}

// GetLiked godoc
// @Summary List materials liked by the current user
// @Tags materials
// @Produce json
// @Success 200 {array} models.Material
// @Security ApiKeyAuth
// @Router /materials/my/liked [get]
func (mc *MaterialsController) GetLiked(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var materials []models.Material
	err := mc.DB.
		Joins("JOIN user_materials ON user_materials.material_id = materials.id").
		Where("user_materials.user_id = ? AND user_materials.is_liked = ?", user.ID, true).
		Find(&materials).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(materials)
}
