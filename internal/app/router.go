package app

import (
	"lingua_learn_backend/docs"
	"lingua_learn_backend/internal/config"
	"lingua_learn_backend/internal/middleware"
	"lingua_learn_backend/internal/model"
	"lingua_learn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerLearnerRoutes(router, c, repos, cfg)
	a.registerAdminRoutes(router, c, repos, cfg)
}

// 公共路由，无需登录
func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录允许游客浏览
		public.GET("/languages", c.learner.ListLanguages)
		public.GET("/courses", c.learner.ListCourses)
		public.GET("/courses/:id", c.learner.GetCourse)
	}
}

// 学员路由，需要登录
func (a *App) registerLearnerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/me", c.auth.Me)
		authGroup.GET("/profile", c.user.GetProfile)
		authGroup.PUT("/profile", c.user.UpdateProfile)
		authGroup.POST("/profile/avatar", c.user.UploadAvatar)

		// 报名与学习
		authGroup.POST("/courses/:id/enroll", c.learner.Enroll)
		authGroup.GET("/courses/:id/skill-tree", c.learner.SkillTree)
		authGroup.GET("/enrollments", c.learner.ListEnrollments)
		authGroup.GET("/lessons/:id", c.learner.GetLessonContent)
		authGroup.POST("/lessons/:id/complete", c.learner.CompleteLesson)
		authGroup.POST("/exercises/:id/attempt", c.learner.SubmitAttempt)

		// 复习队列
		authGroup.GET("/reviews/next", c.spacedRepetition.NextReviews)
		authGroup.GET("/reviews/stats", c.spacedRepetition.QueueStats)
		authGroup.DELETE("/reviews/:id", c.spacedRepetition.Deactivate)

		// 进度与排行
		authGroup.GET("/progress", c.progress.Overview)
		authGroup.GET("/leaderboard", c.progress.Leaderboard)
	}
}

// 管理端路由，仅限管理员
func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/languages", c.content.ListLanguages)
		admin.POST("/languages", c.content.CreateLanguage)
		admin.PUT("/languages/:id", c.content.UpdateLanguage)

		admin.GET("/courses", c.content.ListCourses)
		admin.POST("/courses", c.content.CreateCourse)
		admin.PUT("/courses/:id", c.content.UpdateCourse)
		admin.DELETE("/courses/:id", c.content.DeleteCourse)
		admin.GET("/courses/:id/modules", c.content.ListModules)

		admin.POST("/modules", c.content.CreateModule)
		admin.PUT("/modules/:id", c.content.UpdateModule)
		admin.DELETE("/modules/:id", c.content.DeleteModule)
		admin.GET("/modules/:id/lessons", c.content.ListLessons)

		admin.POST("/lessons", c.content.CreateLesson)
		admin.GET("/lessons/:id", c.content.GetLesson)
		admin.PUT("/lessons/:id", c.content.UpdateLesson)
		admin.DELETE("/lessons/:id", c.content.DeleteLesson)
		admin.GET("/lessons/:id/exercises", c.content.ListExercises)

		admin.POST("/sections", c.content.CreateSection)
		admin.DELETE("/sections/:id", c.content.DeleteSection)

		admin.POST("/exercises", c.content.CreateExercise)
		admin.PUT("/exercises/:id", c.content.UpdateExercise)
		admin.DELETE("/exercises/:id", c.content.DeleteExercise)

		admin.POST("/audio", c.content.UploadAudio)
	}
}
