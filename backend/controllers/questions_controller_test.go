package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Round-trip: тест -> вопрос -> ответ, затем читаем списки обратно.
func TestCatalogRoundTrip(t *testing.T) {
	token, _ := registerUser(t, "roundtrip@example.com", "password123", "Reader")

	resp := doRequest(t, "POST", "/tests", adminToken, map[string]string{
		"title":       "Round trip",
		"description": "Проверка каталога",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	testID := decodeBody(t, resp)["id"].(string)

	resp = doRequest(t, "POST", "/tests/"+testID+"/questions", adminToken, map[string]string{
		"topic":         "Алгоритмы",
		"question_text": "Сложность бинарного поиска?",
		"explanation":   "Половина массива отбрасывается на каждом шаге",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	questionID := decodeBody(t, resp)["id"].(string)

	resp = doRequest(t, "POST", "/questions/"+questionID+"/answers", adminToken, map[string]interface{}{
		"text":       "O(log n)",
		"is_correct": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	answerID := decodeBody(t, resp)["id"].(string)

	resp = doRequest(t, "GET", "/tests/"+testID+"/questions", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	questions := decodeList(t, resp)
	require.Len(t, questions, 1)
	assert.Equal(t, questionID, questions[0]["id"])
	assert.Equal(t, "Сложность бинарного поиска?", questions[0]["question_text"])
	assert.Equal(t, "Алгоритмы", questions[0]["topic"])

	resp = doRequest(t, "GET", "/questions/"+questionID+"/answers", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	answers := decodeList(t, resp)
	require.Len(t, answers, 1)
	assert.Equal(t, answerID, answers[0]["id"])
	assert.Equal(t, "O(log n)", answers[0]["text"])
	assert.Equal(t, true, answers[0]["is_correct"])
}

func TestQuestionsOfUnknownTest(t *testing.T) {
	token, _ := registerUser(t, "unknowntest@example.com", "password123", "Reader")

	resp := doRequest(t, "GET", "/tests/00000000-0000-0000-0000-000000000000/questions", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateQuestion(t *testing.T) {
	_, questionID, _, _ := createTestWithQuestion(t, "Основы Swift")

	resp := doRequest(t, "PUT", "/questions/"+questionID, adminToken, map[string]string{
		"topic": "Память и ARC",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)
	assert.Equal(t, "Память и ARC", updated["topic"])
	// Остальные поля не затираются
	assert.Equal(t, "Что такое опционал?", updated["question_text"])
}

// У вопроса всегда должен оставаться хотя бы один правильный ответ.
func TestLastCorrectAnswerGuard(t *testing.T) {
	_, _, correctID, wrongID := createTestWithQuestion(t, "Основы Swift")

	// Последний правильный ответ нельзя сделать неправильным
	resp := doRequest(t, "PUT", "/answers/"+correctID, adminToken, map[string]interface{}{
		"is_correct": false,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// И нельзя удалить
	resp = doRequest(t, "DELETE", "/answers/"+correctID, adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Неправильный ответ удаляется свободно
	resp = doRequest(t, "DELETE", "/answers/"+wrongID, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLastCorrectAnswerGuardWithTwoCorrect(t *testing.T) {
	_, questionID, correctID, _ := createTestWithQuestion(t, "Основы Swift")

	// Добавляем второй правильный ответ — теперь первый можно удалить
	resp := doRequest(t, "POST", "/questions/"+questionID+"/answers", adminToken, map[string]interface{}{
		"text":       "Optional<T>",
		"is_correct": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "DELETE", "/answers/"+correctID, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeleteTestCascades(t *testing.T) {
	token, _ := registerUser(t, "cascade@example.com", "password123", "User")
	testID, questionID, _, _ := createTestWithQuestion(t, "Основы Swift")

	resp := doRequest(t, "DELETE", "/tests/"+testID, adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "GET", "/tests/"+testID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, "GET", "/questions/"+questionID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestWriteEndpointsAdminOnly(t *testing.T) {
	token, _ := registerUser(t, "plainuser@example.com", "password123", "User")
	testID, questionID, correctID, _ := createTestWithQuestion(t, "Основы Swift")

	resp := doRequest(t, "POST", "/tests", token, map[string]string{"title": "Нельзя"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, "POST", "/tests/"+testID+"/questions", token, map[string]string{"question_text": "Нельзя"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, "POST", "/questions/"+questionID+"/answers", token, map[string]interface{}{"text": "Нельзя"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, "PUT", "/answers/"+correctID, token, map[string]interface{}{"text": "Нельзя"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
