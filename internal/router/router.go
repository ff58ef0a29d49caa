package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/PeterSayer/CottageChooser/config"
	"github.com/PeterSayer/CottageChooser/internal/app/controller"
	"github.com/PeterSayer/CottageChooser/internal/middleware"
	"github.com/PeterSayer/CottageChooser/internal/websocket"
)

type Router struct {
	sessionController *controller.SessionController
	cottageController *controller.CottageController
	commentController *controller.CommentController
	voteController    *controller.VoteController
	ratingController  *controller.RatingController
	summaryController *controller.SummaryController
	uploadController  *controller.UploadController
	sessionMiddleware *middleware.SessionMiddleware
	hub               *websocket.Hub
	config            *config.Config
}

func NewRouter(
	sessionController *controller.SessionController,
	cottageController *controller.CottageController,
	commentController *controller.CommentController,
	voteController *controller.VoteController,
	ratingController *controller.RatingController,
	summaryController *controller.SummaryController,
	uploadController *controller.UploadController,
	sessionMiddleware *middleware.SessionMiddleware,
	hub *websocket.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		sessionController: sessionController,
		cottageController: cottageController,
		commentController: commentController,
		voteController:    voteController,
		ratingController:  ratingController,
		summaryController: summaryController,
		uploadController:  uploadController,
		sessionMiddleware: sessionMiddleware,
		hub:               hub,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     r.config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiter := middleware.NewIPRateLimiter(r.config.RateLimit.RPS, r.config.RateLimit.Burst)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "CottageChooser API is running",
		})
	})

	// Live standings stream, token arrives as ?token=
	router.GET("/ws/results", r.sessionMiddleware.Require(), websocket.ServeResults(r.hub))

	v1 := router.Group("/api/v1")
	{
		session := v1.Group("/session")
		{
			session.POST("/join", middleware.RateLimitMiddleware(limiter), r.sessionController.Join)
			session.GET("/me", r.sessionMiddleware.Require(), r.sessionController.Me)
			session.POST("/leave", r.sessionMiddleware.Require(), r.sessionController.Leave)
		}

		cottages := v1.Group("/cottages")
		cottages.Use(r.sessionMiddleware.Require())
		{
			cottages.GET("", r.cottageController.List)
			cottages.GET("/compare", r.cottageController.Compare)
			cottages.GET("/:id", r.cottageController.Get)
			cottages.POST("", middleware.RateLimitMiddleware(limiter), r.cottageController.Create)
			cottages.PUT("/:id", r.cottageController.Update)
			cottages.DELETE("/:id", r.cottageController.Delete)

			cottages.GET("/:id/comments", r.commentController.List)
			cottages.POST("/:id/comments", middleware.RateLimitMiddleware(limiter), r.commentController.Create)

			cottages.POST("/:id/vote", r.voteController.Cast)

			cottages.POST("/:id/rating", r.ratingController.Submit)
			cottages.DELETE("/:id/rating", r.ratingController.Remove)
			cottages.GET("/:id/ratings", r.ratingController.ListForCottage)

			cottages.POST("/:id/summary", r.summaryController.Generate)
		}

		comments := v1.Group("/comments")
		comments.Use(r.sessionMiddleware.Require())
		{
			comments.PUT("/:id", r.commentController.Update)
			comments.DELETE("/:id", r.commentController.Delete)
		}

		votes := v1.Group("/votes")
		votes.Use(r.sessionMiddleware.Require())
		{
			votes.DELETE("/:id", r.voteController.Retract)
		}

		v1.GET("/results", r.sessionMiddleware.Require(), r.voteController.Results)

		uploads := v1.Group("/uploads")
		uploads.Use(r.sessionMiddleware.Require())
		{
			uploads.POST("/image", r.uploadController.PresignImage)
		}
	}

	return router
}
