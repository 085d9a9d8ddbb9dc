package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/shapovv/InterviewerServer/backend/ai"
	"github.com/shapovv/InterviewerServer/backend/config"
	"github.com/shapovv/InterviewerServer/backend/routes"
	"github.com/shapovv/InterviewerServer/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	app        *fiber.App
	db         *gorm.DB
	cfg        *config.Config
	llm        *stubCompleter
	adminToken string
)

// stubCompleter подменяет Together.ai в тестах.
type stubCompleter struct {
	mu           sync.Mutex
	reply        string
	err          error
	lastMessages []ai.Message
}

func (s *stubCompleter) Complete(ctx context.Context, messages []ai.Message, temperature float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastMessages = append([]ai.Message(nil), messages...)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubCompleter) set(reply string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reply, s.err = reply, err
	s.lastMessages = nil
}

func (s *stubCompleter) last() []ai.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMessages
}

func TestMain(m *testing.M) {
	cfg = &config.Config{
		JWTSecret:  "testsecret",
		AdminEmail: "admin@example.com",
	}

	var err error
	db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}
	if err := utils.Migrate(db); err != nil {
		panic(err)
	}

	llm = &stubCompleter{reply: "ok"}
	app = fiber.New()
	routes.SetupRoutes(app, db, cfg, llm)

	adminToken = mustRegister("admin@example.com", "adminpass", "Admin")

	os.Exit(m.Run())
}

func doRequest(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func decodeList(t *testing.T, resp *http.Response) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

// registerUser регистрирует пользователя и возвращает его токен и id.
func registerUser(t *testing.T, email, password, name string) (string, string) {
	t.Helper()

	resp := doRequest(t, "POST", "/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	token, _ := result["token"].(string)
	require.NotEmpty(t, token)
	user, _ := result["user"].(map[string]interface{})
	id, _ := user["id"].(string)
	require.NotEmpty(t, id)
	return token, id
}

func mustRegister(email, password, name string) string {
	data, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		panic(fmt.Sprintf("register %s failed: %d", email, resp.StatusCode))
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		panic(err)
	}
	return result["token"].(string)
}

// createTestWithQuestion поднимает через API тест с одним вопросом и двумя
// вариантами ответов, возвращает их id.
func createTestWithQuestion(t *testing.T, topic string) (testID, questionID, correctID, wrongID string) {
	t.Helper()

	resp := doRequest(t, "POST", "/tests", adminToken, map[string]string{
		"title": "Swift basics " + topic,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	testID = decodeBody(t, resp)["id"].(string)

	resp = doRequest(t, "POST", "/tests/"+testID+"/questions", adminToken, map[string]string{
		"topic":         topic,
		"question_text": "Что такое опционал?",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	questionID = decodeBody(t, resp)["id"].(string)

	resp = doRequest(t, "POST", "/questions/"+questionID+"/answers", adminToken, map[string]interface{}{
		"text":       "Тип, который может не содержать значения",
		"is_correct": true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	correctID = decodeBody(t, resp)["id"].(string)

	resp = doRequest(t, "POST", "/questions/"+questionID+"/answers", adminToken, map[string]interface{}{
		"text":       "Синоним для nil",
		"is_correct": false,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	wrongID = decodeBody(t, resp)["id"].(string)

	return testID, questionID, correctID, wrongID
}
