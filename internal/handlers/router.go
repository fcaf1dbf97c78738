// Package handlers wires the HTTP surface: thin gin handlers that bind JSON,
// call the services and translate errors to status codes.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ducdang/billbook/internal/auth"
	"github.com/ducdang/billbook/internal/middleware"
	"github.com/ducdang/billbook/internal/service"
	"github.com/ducdang/billbook/internal/storage"
)

// Services bundles everything the router needs.
type Services struct {
	Auth         *service.AuthService
	Bills        *service.BillService
	Participants *service.ParticipantService
	Notes        *service.NoteService
	Vocabulary   *service.VocabularyService
	JWT          *auth.JWTManager
}

// NewRouter assembles the gin engine: CORS, logging, metrics, the public
// endpoints and the authenticated API group.
func NewRouter(svcs Services, frontendURL string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().UTC().Format(time.RFC3339)})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authH := &authHandler{auth: svcs.Auth}
	billH := &billHandler{bills: svcs.Bills}
	partH := &participantHandler{participants: svcs.Participants}
	noteH := &noteHandler{notes: svcs.Notes}
	vocabH := &vocabularyHandler{vocabulary: svcs.Vocabulary}

	api := router.Group("/api")
	{
		api.POST("/auth/register", authH.register)
		api.POST("/auth/login", authH.login)
		api.GET("/public/bills/:key", billH.sharedBill)

		private := api.Group("/")
		private.Use(middleware.RequireAuth(svcs.JWT))
		{
			private.GET("/auth/me", authH.me)

			private.GET("/bills", billH.list)
			private.POST("/bills", billH.create)
			private.GET("/bills/stats", billH.stats)
			private.GET("/bills/:id", billH.get)
			private.PUT("/bills/:id", billH.update)
			private.DELETE("/bills/:id", billH.delete)
			private.GET("/bills/:id/summary", billH.summary)
			private.POST("/bills/:id/share", billH.enableShare)
			private.DELETE("/bills/:id/share", billH.disableShare)
			private.POST("/bills/:id/participants", billH.addParticipant)
			private.DELETE("/bills/:id/participants/:pid", billH.removeParticipant)
			private.POST("/bills/:id/details", billH.addDetail)
			private.PUT("/bills/:id/details/:did", billH.updateDetail)
			private.DELETE("/bills/:id/details/:did", billH.removeDetail)

			private.GET("/participants", partH.list)
			private.POST("/participants", partH.create)
			private.DELETE("/participants/:id", partH.delete)

			private.GET("/notes", noteH.list)
			private.POST("/notes", noteH.create)
			private.GET("/notes/:id", noteH.get)
			private.PUT("/notes/:id", noteH.update)
			private.DELETE("/notes/:id", noteH.delete)

			private.GET("/vocabulary", vocabH.list)
			private.POST("/vocabulary", vocabH.create)
			private.GET("/vocabulary/:id", vocabH.get)
			private.POST("/vocabulary/:id/learn", vocabH.learn)
			private.POST("/vocabulary/:id/review", vocabH.review)
			private.DELETE("/vocabulary/:id/learn", vocabH.unlearn)
			private.GET("/learned-words", vocabH.listLearned)
		}
	}

	return router
}

// writeError maps service and storage errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body so internals never leak.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Error()})
	case errors.Is(err, auth.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
