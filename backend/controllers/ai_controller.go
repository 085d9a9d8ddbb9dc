package controllers

import (
	"github.com/shapovv/InterviewerServer/backend/ai"
	"github.com/shapovv/InterviewerServer/backend/config"
	"github.com/shapovv/InterviewerServer/backend/middleware"
	"github.com/shapovv/InterviewerServer/backend/models"
	"github.com/shapovv/InterviewerServer/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AIController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Client ai.Completer
}

func NewAIController(db *gorm.DB, cfg *config.Config, client ai.Completer) *AIController {
	return &AIController{DB: db, Cfg: cfg, Client: client}
}

// Глубина истории, которая передаётся модели на каждом ходу
const maxChatHistory = 15

const swiftInterviewerPrompt = "Ты технический интервьюер по iOS-разработке, специализирующийся на языке Swift и сопутствующих технологиях. " +
	"Твоя цель — оценить знания кандидата: глубину понимания языка, архитектур, фреймворков и умение решать нестандартные задачи. " +
	"Ты ведёшь структурированное интервью, не чат и не обсуждение. " +
	"В начале объясни формат собеседования, затем задавай по одному вопросу за раз; после ответа оценивай, уточняй и усложняй. " +
	"Темы: основы Swift (типы, опционалы, свойства, enum, протоколы), память и ARC, замыкания и захваты, SwiftUI и UIKit, " +
	"многопоточность (async/await, GCD), архитектура (MVC, MVVM, Clean Swift), работа с сетью, краевые случаи (retain cycles, race conditions, force unwrap). " +
	"Не объясняй ответы до ответа кандидата, не обсуждай темы вне технического контекста, всегда спрашивай о краевых случаях. " +
	"Не используй markdown, JSON и bullet-пункты — только обычный текст. " +
	"Если кандидат просит завершить — поблагодари и дай фидбек по сильным и слабым сторонам, владению Swift и рекомендациям по улучшению. " +
	"Начни с простого вопроса и усложняй по ходу."

const hrInterviewerPrompt = "Ты HR-интервьюер. Проводишь профессиональное собеседование с кандидатом на позицию разработчика. " +
	"Твоя цель — оценить мотивацию, коммуникативные навыки, самооценку, адаптивность и командную работу. " +
	"В начале объясни, как будет проходить интервью. Задавай по одному вопросу за раз, после ответа задавай уточняющие вопросы и переходи к следующему блоку. " +
	"Блоки: мотивация и цели; предыдущий опыт и конфликты в команде; работа с обратной связью; стресс и неопределённость. " +
	"Не отвечай на вопросы вместо кандидата, не переходи на личности, поддерживай уважительный нейтральный стиль; " +
	"если кандидат уклоняется от ответа — мягко верни его к теме. " +
	"При завершении поблагодари за участие и дай честный фидбек по коммуникативным навыкам, самоосознанности и зрелости с советами для роста. " +
	"Сначала представь формат интервью, затем задай первый вопрос про мотивацию."

const techInterviewerPrompt = "Ты опытный технический интервьюер, который проводит собеседование с кандидатом на позицию разработчика. " +
	"Ты задаёшь только вопросы по алгоритмам, структурам данных и логическому мышлению; другие темы не обсуждаешь. " +
	"Ты сохраняешь контроль над собеседованием: если ответ неполный или некорректный — уточняешь или задаёшь наводящий вопрос. " +
	"Решение сразу не объясняешь, сначала даёшь кандидату подумать. Отвечаешь короткими фразами, максимально лаконично. " +
	"Формат ответа: только вопрос или краткое уточнение, без предисловий и без какого-либо форматирования — чистый текст. " +
	"Темы: поиск и сортировка, структуры данных (стек, очередь, хэш-таблица, дерево, граф), сложность алгоритмов (Big O), " +
	"задачи на массивы, строки, списки, деревья и графы, основы динамического программирования."

const generateTestPrompt = "Сгенерируй JSON-массив из 10 коротких вопросов по программированию для теста. " +
	"Структура каждого вопроса: {\"id\": \"уникальный id (q1, q2...)\", \"topic\": \"Тема теста\", " +
	"\"questionText\": \"Текст вопроса\", \"answers\": [{\"text\": \"вариант ответа\", \"isCorrect\": true/false}], " +
	"\"explanation\": \"Пояснение к правильному ответу\"}. " +
	"Только JSON! Без лишнего текста, без описаний. Тема теста: Основы Swift."

type AIRequest struct {
	Question string `json:"question"` // Вопрос от клиента
}

type InterviewRequest struct {
	Answer string `json:"answer"` // Реплика пользователя
}

// Ask godoc
// @Summary One-shot question to the LLM
// @Description Stateless: no history is read or persisted
// @Tags ai
// @Accept json
// @Produce json
// @Param input body AIRequest true "Question"
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /ai/ask [post]
func (ac *AIController) Ask(c *fiber.Ctx) error {
	var input AIRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	answer, err := ac.Client.Complete(c.Context(), []ai.Message{
		{Role: models.ChatRoleUser, Content: input.Question},
	}, 0)
	if err != nil {
		return utils.BadGateway(c, "Ошибка Together.ai: "+err.Error())
	}

	return c.JSON(fiber.Map{"answer": answer})
}

// Interview — интервью по Swift/iOS.
func (ac *AIController) Interview(c *fiber.Ctx) error {
	return ac.interviewTurn(c, swiftInterviewerPrompt)
}

// HRInterview — soft-skill интервью с ИИ-HR.
func (ac *AIController) HRInterview(c *fiber.Ctx) error {
	return ac.interviewTurn(c, hrInterviewerPrompt)
}

// TechInterview — алгоритмы и структуры данных.
func (ac *AIController) TechInterview(c *fiber.Ctx) error {
	return ac.interviewTurn(c, techInterviewerPrompt)
}

// interviewTurn выполняет один ход диалога: собирает окно истории из базы,
// при необходимости добавляет системный промпт персоны, зовёт LLM и
// сохраняет обе реплики. При ошибке внешнего вызова ничего не сохраняется.
func (ac *AIController) interviewTurn(c *fiber.Ctx, systemPrompt string) error {
	user := middleware.CurrentUser(c)

	var input InterviewRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Answer == "" {
		return utils.BadRequest(c, "Answer is required")
	}

	// Последние maxChatHistory сообщений, затем разворачиваем в хронологию
	var history []models.ChatMessage
	err := ac.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").Limit(maxChatHistory).
		Find(&history).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	messages := make([]ai.Message, 0, len(history)+2)
	for i := len(history) - 1; i >= 0; i-- {
		messages = append(messages, ai.Message{Role: history[i].Role, Content: history[i].MessageText})
	}

	// Системный промпт добавляется, только если окно им не начинается
	if len(messages) == 0 || messages[0].Role != models.ChatRoleSystem {
		messages = append([]ai.Message{{Role: models.ChatRoleSystem, Content: systemPrompt}}, messages...)
	}

	messages = append(messages, ai.Message{Role: models.ChatRoleUser, Content: input.Answer})

	reply, err := ac.Client.Complete(c.Context(), messages, 0)
	if err != nil {
		return utils.BadGateway(c, "Ошибка Together.ai: "+err.Error())
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.ChatMessage{
			UserID:      user.ID,
			Role:        models.ChatRoleUser,
			MessageText: input.Answer,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.ChatMessage{
			UserID:      user.ID,
			Role:        models.ChatRoleAssistant,
			MessageText: reply,
		}).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not save chat history")
	}

	return c.JSON(fiber.Map{"question": reply})
}

// GenerateTest godoc
// @Summary Generate a quiz via the LLM
// @Description Returns the raw model output: a JSON array of 10 questions
// @Tags ai
// @Produce json
// @Success 200 {string} string
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /ai/generate-test [post]
func (ac *AIController) GenerateTest(c *fiber.Ctx) error {
	content, err := ac.Client.Complete(c.Context(), []ai.Message{
		{Role: models.ChatRoleSystem, Content: "Ты генератор тестов. Возвращаешь только валидный JSON без комментариев."},
		{Role: models.ChatRoleUser, Content: generateTestPrompt},
	}, 0.7)
	if err != nil {
		return utils.BadGateway(c, "Ошибка генерации теста через Together.ai: "+err.Error())
	}

	return c.JSON(content)
}
