package controllers

import (
	"sort"

	"github.com/shapovv/InterviewerServer/backend/config"
	"github.com/shapovv/InterviewerServer/backend/middleware"
	"github.com/shapovv/InterviewerServer/backend/models"
	"github.com/shapovv/InterviewerServer/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StatsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewStatsController(db *gorm.DB, cfg *config.Config) *StatsController {
	return &StatsController{DB: db, Cfg: cfg}
}

// Записи без topic попадают в отдельную корзину
const noTopicBucket = "No Topic"

type TopicStats struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

type LeaderboardEntry struct {
	UserID           string `json:"user_id"`
	Name             string `json:"name"`
	TotalCorrect     int    `json:"total_correct"`
	TotalTimeSeconds int    `json:"total_time_seconds"`
}

// GetUserTestsStats godoc
// @Summary Current user's aggregate test statistics
// @Description Completed session count, avg/max/min time, total correct/wrong over all answers
// @Tags stats
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/me/tests/stats [get]
func (st *StatsController) GetUserTestsStats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var sessions []models.UserTestSession
	err := st.DB.Where("user_id = ? AND is_completed = ?", user.ID, true).Find(&sessions).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	if len(sessions) == 0 {
		return c.JSON(fiber.Map{
			"total_tests_completed": 0,
			"average_time_seconds":  nil,
			"max_time_seconds":      nil,
			"min_time_seconds":      nil,
			"total_correct_answers": 0,
			"total_wrong_answers":   0,
		})
	}

	// Время — только по сессиям с заполненным total_time_seconds
	var times []int
	for _, s := range sessions {
		if s.TotalTimeSeconds != nil {
			times = append(times, *s.TotalTimeSeconds)
		}
	}

	avgTime, maxTime, minTime := 0.0, 0, 0
	if len(times) > 0 {
		sum := 0
		maxTime, minTime = times[0], times[0]
		for _, t := range times {
			sum += t
			if t > maxTime {
				maxTime = t
			}
			if t < minTime {
				minTime = t
			}
		}
		avgTime = float64(sum) / float64(len(times))
	}

	correct, wrong, err := st.countAllUserAnswers(user.ID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"total_tests_completed": len(sessions),
		"average_time_seconds":  round2(avgTime),
		"max_time_seconds":      maxTime,
		"min_time_seconds":      minTime,
		"total_correct_answers": correct,
		"total_wrong_answers":   wrong,
	})
}

// GetUserQuestionsStats godoc
// @Summary Current user's per-topic answer statistics
// @Tags stats
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/me/questions/stats [get]
func (st *StatsController) GetUserQuestionsStats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	// Явный join вместо ленивой подгрузки вопроса на каждую запись
	var rows []struct {
		Topic     string
		IsCorrect bool
	}
	err := st.DB.Table("user_questions").
		Select("questions.topic AS topic, user_questions.is_correct AS is_correct").
		Joins("JOIN questions ON questions.id = user_questions.question_id").
		Where("user_questions.user_id = ?", user.ID).
		Scan(&rows).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	totalCorrect, totalWrong := 0, 0
	byTopic := make(map[string]*TopicStats)
	for _, row := range rows {
		topic := row.Topic
		if topic == "" {
			topic = noTopicBucket
		}
		stats, ok := byTopic[topic]
		if !ok {
			stats = &TopicStats{}
			byTopic[topic] = stats
		}
		if row.IsCorrect {
			stats.Correct++
			totalCorrect++
		} else {
			stats.Wrong++
			totalWrong++
		}
	}

	return c.JSON(fiber.Map{
		"total_correct_answers": totalCorrect,
		"total_wrong_answers":   totalWrong,
		"by_topic":              byTopic,
	})
}

// GetLeaderboard godoc
// @Summary Leaderboard over users with at least one completed session
// @Description Sorted by total correct answers desc, then total time asc
// @Tags stats
// @Produce json
// @Success 200 {array} LeaderboardEntry
// @Security ApiKeyAuth
// @Router /leaderboard [get]
func (st *StatsController) GetLeaderboard(c *fiber.Ctx) error {
	var rows []struct {
		UserID       string
		Name         string
		Email        string
		TotalCorrect int
		TotalTime    int
	}
	err := st.DB.Raw(`
		SELECT u.id AS user_id,
		       u.name AS name,
		       u.email AS email,
		       (SELECT COUNT(*) FROM user_questions uq
		         WHERE uq.user_id = u.id AND uq.is_correct) AS total_correct,
		       COALESCE(SUM(s.total_time_seconds), 0) AS total_time
		FROM users u
		JOIN user_test_sessions s ON s.user_id = u.id AND s.is_completed
		GROUP BY u.id, u.name, u.email
	`).Scan(&rows).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		name := row.Name
		if name == "" {
			name = row.Email
		}
		entries = append(entries, LeaderboardEntry{
			UserID:           row.UserID,
			Name:             name,
			TotalCorrect:     row.TotalCorrect,
			TotalTimeSeconds: row.TotalTime,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalCorrect != entries[j].TotalCorrect {
			return entries[i].TotalCorrect > entries[j].TotalCorrect
		}
		return entries[i].TotalTimeSeconds < entries[j].TotalTimeSeconds
	})

	return c.JSON(entries)
}

func (st *StatsController) countAllUserAnswers(userID string) (int, int, error) {
	var userQuestions []models.UserQuestion
	if err := st.DB.Where("user_id = ?", userID).Find(&userQuestions).Error; err != nil {
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
