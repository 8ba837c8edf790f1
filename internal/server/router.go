package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/activity"
	"github.com/yukikurage/teamboard-api/internal/constants"
	"github.com/yukikurage/teamboard-api/internal/handlers"
	"github.com/yukikurage/teamboard-api/internal/middleware"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"github.com/yukikurage/teamboard-api/internal/services"
)

// Deps are the collaborators the router needs. Google, Mailer and Generator are optional.
type Deps struct {
	Store        *repository.Store
	Logger       *slog.Logger
	Sessions     sessions.Store
	Tokens       *middleware.TokenManager
	Google       services.GoogleVerifier
	Mailer       services.Mailer
	Generator    services.TaskGenerator
	FrontendURL  string
	AllowOrigins []string
}

// NewRouter builds the HTTP API.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Mailer == nil {
		d.Mailer = services.NewMailer(services.SMTPConfig{}, d.Logger)
	}
	recorder := activity.NewRecorder(d.Logger)

	authService := services.NewAuthService(d.Store, d.Google, d.Mailer, d.FrontendURL)
	authHandler := handlers.NewAuthHandler(authService, d.Tokens)
	userHandler := handlers.NewUserHandler(authService)
	projectHandler := handlers.NewProjectHandler(services.NewProjectService(d.Store, recorder))
	memberHandler := handlers.NewMemberHandler(services.NewMemberService(d.Store, recorder))
	taskHandler := handlers.NewTaskHandler(services.NewTaskService(d.Store, recorder, d.Generator))
	commentHandler := handlers.NewCommentHandler(services.NewCommentService(d.Store))
	activityHandler := handlers.NewActivityHandler(services.NewActivityService(d.Store))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(d.Logger))
	if len(d.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", constants.RequestIDHeader},
			ExposeHeaders:    []string{constants.RequestIDHeader, constants.RefreshTokenHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, d.Sessions))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Teamboard API is running",
		})
	})

	api := r.Group("/api")

	// Public routes
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/auth/google", authHandler.GoogleLogin)
	api.POST("/logout", authHandler.Logout)
	api.POST("/forgot-password", authHandler.ForgotPassword)
	api.POST("/reset-password/:token", authHandler.ResetPassword)

	// Protected routes
	authed := api.Group("")
	authed.Use(middleware.RequireAuth(d.Tokens))
	{
		authed.GET("/auth/me", authHandler.GetCurrentUser)
		authed.GET("/users/:id", userHandler.GetUser)
		authed.GET("/profile", userHandler.GetProfile)

		authed.POST("/projects", projectHandler.CreateProject)
		authed.GET("/projects", projectHandler.ListProjects)
		authed.GET("/projects/:projectId", projectHandler.GetProject)
		authed.PUT("/projects/:projectId", projectHandler.UpdateProject)
		authed.DELETE("/projects/:projectId", projectHandler.DeleteProject)

		authed.GET("/projects/:projectId/users", memberHandler.ListMembers)
		authed.POST("/projects/:projectId/users", memberHandler.AddMember)
		authed.PUT("/projects/:projectId/members/:memberId", memberHandler.ChangeRole)
		authed.DELETE("/projects/:projectId/members/:memberId", memberHandler.RemoveMember)
		authed.PUT("/projects/:projectId/owner", memberHandler.TransferOwnership)

		authed.GET("/projects/:projectId/tasks", taskHandler.ListTasks)
		authed.POST("/projects/:projectId/tasks", taskHandler.CreateTask)
		authed.POST("/projects/:projectId/tasks/generate", taskHandler.GenerateTasks)

		authed.GET("/tasks/due_date", taskHandler.ListDueTasks)
		authed.GET("/tasks/:taskId", taskHandler.GetTask)
		authed.PUT("/tasks/:taskId", taskHandler.UpdateTask)
		authed.DELETE("/tasks/:taskId", taskHandler.DeleteTask)

		authed.GET("/tasks/:taskId/assignees", taskHandler.ListAssignees)
		authed.POST("/tasks/:taskId/assignees", taskHandler.AddAssignee)
		authed.DELETE("/tasks/:taskId/assignees/:userId", taskHandler.RemoveAssignee)

		authed.GET("/tasks/:taskId/comments", commentHandler.ListComments)
		authed.POST("/tasks/:taskId/comments", commentHandler.AddComment)
		authed.DELETE("/comments/:commentId", commentHandler.DeleteComment)

		authed.GET("/activity_logs", activityHandler.ListActivity)
	}

	return r
}
