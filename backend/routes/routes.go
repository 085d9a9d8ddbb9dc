package routes

import (
	"github.com/shapovv/InterviewerServer/backend/ai"
	"github.com/shapovv/InterviewerServer/backend/config"
	"github.com/shapovv/InterviewerServer/backend/controllers"
	"github.com/shapovv/InterviewerServer/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, completer ai.Completer) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/auth/register", authController.Register)
	app.Post("/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(db, cfg)
	adminMiddleware := middleware.AdminMiddleware()

	// User routes
	userController := controllers.NewUserController(db, cfg)
	sessionsController := controllers.NewSessionsController(db, cfg)
	statsController := controllers.NewStatsController(db, cfg)

	users := app.Group("/users", authMiddleware)
	users.Get("/me", userController.GetMe)
	users.Put("/me", userController.UpdateMe)
	users.Delete("/me", userController.DeleteMe)
	users.Get("/me/sessions", sessionsController.GetMySessions)
	users.Get("/me/tests/stats", statsController.GetUserTestsStats)
	users.Get("/me/questions/stats", statsController.GetUserQuestionsStats)

	app.Get("/leaderboard", authMiddleware, statsController.GetLeaderboard)

	// Materials routes
	materialsController := controllers.NewMaterialsController(db, cfg)
	materials := app.Group("/materials", authMiddleware)
	materials.Get("/my/liked", materialsController.GetLiked) // до "/:id"
	materials.Get("/", materialsController.GetMaterials)
	materials.Post("/", adminMiddleware, materialsController.CreateMaterial)
	materials.Get("/:id", materialsController.GetMaterial)
	materials.Put("/:id", adminMiddleware, materialsController.UpdateMaterial)
	materials.Delete("/:id", adminMiddleware, materialsController.DeleteMaterial)
	materials.Post("/:id/like", materialsController.SetLike)

	// Tests routes
	testsController := controllers.NewTestsController(db, cfg)
	questionsController := controllers.NewQuestionsController(db, cfg)

	tests := app.Group("/tests", authMiddleware)
	tests.Get("/", testsController.GetTests)
	tests.Post("/", adminMiddleware, testsController.CreateTest)
	tests.Get("/:id", testsController.GetTest)
	tests.Put("/:id", adminMiddleware, testsController.UpdateTest)
	tests.Delete("/:id", adminMiddleware, testsController.DeleteTest)
	tests.Get("/:id/questions", questionsController.GetQuestionsByTest)
	tests.Post("/:id/questions", adminMiddleware, questionsController.CreateQuestion)

	// Session lifecycle
	tests.Post("/:id/start", sessionsController.StartTest)
	tests.Post("/:id/questions/:qid/answer", sessionsController.AnswerQuestion)
	tests.Post("/:id/finish", sessionsController.FinishTest)
	tests.Get("/:id/stats/me", sessionsController.GetMyTestStats)
	tests.Get("/:id/stats", adminMiddleware, sessionsController.GetTestStats)

	// Questions and answers
	questions := app.Group("/questions", authMiddleware)
	questions.Get("/:id", questionsController.GetQuestion)
	questions.Put("/:id", adminMiddleware, questionsController.UpdateQuestion)
	questions.Delete("/:id", adminMiddleware, questionsController.DeleteQuestion)
	questions.Get("/:id/answers", questionsController.GetAnswers)
	questions.Post("/:id/answers", adminMiddleware, questionsController.CreateAnswer)

	answers := app.Group("/answers", authMiddleware)
	answers.Put("/:id", adminMiddleware, questionsController.UpdateAnswer)
	answers.Delete("/:id", adminMiddleware, questionsController.DeleteAnswer)

	// AI routes
	aiController := controllers.NewAIController(db, cfg, completer)
	aiGroup := app.Group("/ai", authMiddleware)
	aiGroup.Post("/ask", aiController.Ask)
	aiGroup.Post("/interview", aiController.Interview)
	aiGroup.Post("/hr-interview", aiController.HRInterview)
	aiGroup.Post("/tech-interview", aiController.TechInterview)
	aiGroup.Post("/generate-test", aiController.GenerateTest)
}
