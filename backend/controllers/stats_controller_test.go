package controllers_test

import (
	"testing"
	"time"

	"github.com/shapovv/InterviewerServer/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completedSession вставляет завершённую сессию с заданным временем напрямую.
func completedSession(t *testing.T, userID, testID string, seconds int) {
	t.Helper()

	start := time.Now().UTC().Add(-time.Duration(seconds) * time.Second)
	end := time.Now().UTC()
	session := models.UserTestSession{
		UserID:           userID,
		TestID:           testID,
		StartTime:        start,
		EndTime:          &end,
		TotalTimeSeconds: &seconds,
		IsCompleted:      true,
	}
	require.NoError(t, db.Create(&session).Error)
}

func TestUserTestsStatsEmpty(t *testing.T) {
	token, _ := registerUser(t, "emptystats@example.com", "password123", "User")

	resp := doRequest(t, "GET", "/users/me/tests/stats", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	assert.Equal(t, float64(0), result["total_tests_completed"])
	assert.Nil(t, result["average_time_seconds"])
	assert.Nil(t, result["max_time_seconds"])
	assert.Nil(t, result["min_time_seconds"])
}

func TestUserTestsStatsTimes(t *testing.T) {
	token, userID := registerUser(t, "times@example.com", "password123", "User")
	testID, _, _, _ := createTestWithQuestion(t, "Основы Swift")

	// Три завершённые сессии со временем 10, 20 и 30 секунд
	for _, seconds := range []int{10, 20, 30} {
		completedSession(t, userID, testID, seconds)
	}

	resp := doRequest(t, "GET", "/users/me/tests/stats", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	assert.Equal(t, float64(3), result["total_tests_completed"])
	assert.Equal(t, float64(20), result["average_time_seconds"])
	assert.Equal(t, float64(30), result["max_time_seconds"])
	assert.Equal(t, float64(10), result["min_time_seconds"])
}

func TestUserQuestionsStatsByTopic(t *testing.T) {
	token, _ := registerUser(t, "topics@example.com", "password123", "User")
	testID, questionID, correctID, _ := createTestWithQuestion(t, "Алгоритмы")
	// Вопрос без темы попадает в корзину "No Topic"
	untaggedTestID, untaggedQuestionID, _, untaggedWrongID := createTestWithQuestion(t, "")

	resp := doRequest(t, "POST", "/tests/"+testID+"/start", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doRequest(t, "POST", "/tests/"+testID+"/questions/"+questionID+"/answer", token,
		map[string]string{"selected_answer_id": correctID})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doRequest(t, "POST", "/tests/"+testID+"/finish", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "POST", "/tests/"+untaggedTestID+"/start", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doRequest(t, "POST", "/tests/"+untaggedTestID+"/questions/"+untaggedQuestionID+"/answer", token,
		map[string]string{"selected_answer_id": untaggedWrongID})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "GET", "/users/me/questions/stats", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	assert.Equal(t, float64(1), result["total_correct_answers"])
	assert.Equal(t, float64(1), result["total_wrong_answers"])

	byTopic, ok := result["by_topic"].(map[string]interface{})
	require.True(t, ok)

	algo, ok := byTopic["Алгоритмы"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), algo["correct"])
	assert.Equal(t, float64(0), algo["wrong"])

	untagged, ok := byTopic["No Topic"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(0), untagged["correct"])
	assert.Equal(t, float64(1), untagged["wrong"])
}

func TestLeaderboardExcludesUsersWithoutCompletedSessions(t *testing.T) {
	activeToken, activeID := registerUser(t, "leader@example.com", "password123", "Лидер")
	_, idleID := registerUser(t, "idle@example.com", "password123", "Без сессий")
	testID, questionID, correctID, _ := createTestWithQuestion(t, "Основы Swift")

	resp := doRequest(t, "POST", "/tests/"+testID+"/start", activeToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doRequest(t, "POST", "/tests/"+testID+"/questions/"+questionID+"/answer", activeToken,
		map[string]string{"selected_answer_id": correctID})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doRequest(t, "POST", "/tests/"+testID+"/finish", activeToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "GET", "/leaderboard", activeToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	entries := decodeList(t, resp)
	ids := make(map[string]bool)
	for _, e := range entries {
		ids[e["user_id"].(string)] = true
	}
	assert.True(t, ids[activeID])
	assert.False(t, ids[idleID], "пользователь без завершённых сессий не должен попадать в лидерборд")
}

func TestLeaderboardNameFallsBackToEmail(t *testing.T) {
	token, userID := registerUser(t, "noname@example.com", "password123", "")
	testID, _, _, _ := createTestWithQuestion(t, "Основы Swift")
	completedSession(t, userID, testID, 42)

	resp := doRequest(t, "GET", "/leaderboard", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	for _, e := range decodeList(t, resp) {
		if e["user_id"] == userID {
			assert.Equal(t, "noname@example.com", e["name"])
			return
		}
	}
	t.Fatal("пользователь не найден в лидерборде")
}
