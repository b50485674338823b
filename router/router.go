package router

import (
	"github.com/gin-gonic/gin"
	"github.com/turahe/ocr-identity-rest-api/handler"
	"github.com/turahe/ocr-identity-rest-api/middleware"
	ginmetrics "github.com/turahe/ocr-identity-rest-api/pkg/metrics/gin"
	"github.com/turahe/ocr-identity-rest-api/service"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Media  *handler.MediaHandler
	People *handler.PeopleHandler
	OCR    *handler.OCRHandler
	Audit  *handler.AuditHandler
}

func Setup(h Handlers, auth service.AuthService) *gin.Engine {
	r := gin.Default()
	r.Use(ginmetrics.PrometheusMiddleware("ocr-identity-api"))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/register", h.Auth.Register)
		api.POST("/login", h.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(auth))
	{
		media := protected.Group("/media")
		{
			media.POST("", h.Media.Upload)
			media.GET("/:id", h.Media.Get)
			media.GET("/:id/tree", h.Media.Subtree)
			media.PATCH("/:id", h.Media.Rename)
			media.POST("/:id/move", h.Media.Move)
			media.DELETE("/:id", h.Media.Delete)
			media.POST("/:id/attach", h.Media.Attach)
			media.POST("/:id/detach", h.Media.Detach)
		}
		protected.GET("/owners/:owner_type/:owner_id/media", h.Media.ListForOwner)
		protected.GET("/owners/:owner_type/:owner_id/media-groups", h.Media.GroupsForOwner)

		people := protected.Group("/people")
		{
			people.POST("", h.People.Create)
			people.GET("", h.People.List)
			people.GET("/:id", h.People.Get)
			people.GET("/by-identity/:identity", h.People.GetByIdentity)
			people.PATCH("/:id", h.People.Update)
			people.DELETE("/:id", h.People.Delete)
			people.POST("/:id/addresses", h.People.AddAddress)
		}

		ocr := protected.Group("/ocr")
		{
			ocr.GET("/jobs", h.OCR.ListJobs)
			ocr.GET("/jobs/:id", h.OCR.GetJob)
		}

		docs := protected.Group("/documents")
		{
			docs.GET("", h.OCR.ListDocuments)
			docs.GET("/:id", h.OCR.GetDocument)
			docs.POST("/:id/verify", h.OCR.VerifyDocument)
		}

		protected.GET("/audit-logs", h.Audit.List)
	}

	return r
}
