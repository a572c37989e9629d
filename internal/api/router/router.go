package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"club-lodging/backend/config"
	"club-lodging/backend/internal/api/handler"
	"club-lodging/backend/internal/api/middleware"
	"club-lodging/backend/internal/model"
	"club-lodging/backend/pkg/jwt"
	"club-lodging/backend/pkg/redis"
)

const (
	maxBodyBytes   = 1 << 20 // JSON bodies
	maxUploadBytes = 5 << 20 // ICS and xlsx uploads

	loginRateLimit  = 10
	loginRateWindow = time.Minute
	writeRateLimit  = 30
	writeRateWindow = time.Minute
)

// Setup builds the gin engine. rdb may be nil: tokens are then never
// revoked and requests are not rate limited.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		blacklist middleware.Blacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := middleware.RoleAuth(model.RoleAdmin)
	jsonBody := middleware.BodyLimit(maxBodyBytes)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth", jsonBody)
		{
			auth.POST("/login", middleware.RateLimit(limiter, loginRateLimit, loginRateWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// ── public lookups ──
		v1.GET("/accommodations", h.Accommodation.List)
		v1.GET("/accommodations/:id", h.Accommodation.Get)
		v1.GET("/rules", h.Rule.List)
		v1.GET("/rules/:type", h.Rule.Get)
		v1.GET("/seasons/:date", h.Pricing.Season)
		v1.GET("/holidays", h.Holiday.List)
		v1.POST("/quotes", jsonBody, h.Pricing.Quote)
		v1.POST("/dates/validate", jsonBody, h.Pricing.ValidateDates)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			authorized.POST("/quotes/export", jsonBody, h.Export.ExportQuote)

			holidays := authorized.Group("/holidays", admin)
			{
				holidays.PUT("", jsonBody, h.Holiday.Upsert)
				holidays.DELETE("/:date", h.Holiday.Deactivate)
				holidays.POST("/import", middleware.BodyLimit(maxUploadBytes), h.Holiday.ImportICS)
				holidays.GET("/export", h.Export.ExportHolidays)
			}

			manage := authorized.Group("/admin", admin)
			{
				manage.GET("/accommodations", h.Accommodation.ListAll)
				manage.GET("/accommodations/:id", h.Accommodation.GetAny)
				manage.POST("/accommodations", jsonBody, h.Accommodation.Create)
				manage.PATCH("/accommodations/:id", jsonBody, h.Accommodation.Update)
				manage.DELETE("/accommodations/:id", h.Accommodation.Deactivate)

				manage.GET("/members", h.Member.List)
				manage.POST("/members", jsonBody, h.Member.Create)
				manage.POST("/members/import", middleware.BodyLimit(maxUploadBytes), h.Member.Import)
				manage.GET("/members/:id", h.Member.Get)
				manage.PATCH("/members/:id", jsonBody, h.Member.Update)
				manage.POST("/members/:id/reset-password", h.Member.ResetPassword)
			}

			reservations := authorized.Group("/reservations", jsonBody)
			{
				writes := middleware.RateLimit(limiter, writeRateLimit, writeRateWindow)

				reservations.POST("/validate", h.Reservation.Validate)
				reservations.POST("", writes, h.Reservation.Create)
				reservations.GET("/me", h.Reservation.ListMine)
				reservations.GET("/:id", h.Reservation.Get)
				reservations.PUT("/:id/dates", writes, h.Reservation.Modify)
				reservations.POST("/:id/cancel", writes, h.Reservation.Cancel)
				reservations.POST("/:id/transfer", h.Reservation.Transfer)
				reservations.GET("/:id/payment", h.Reservation.PaymentInfo)

				reservations.POST("/:id/approve-modification", admin, h.Reservation.ApproveModification)
				reservations.POST("/:id/confirm", admin, h.Reservation.Confirm)
				reservations.POST("/:id/complete", admin, h.Reservation.Complete)
				reservations.POST("/:id/key-handover", admin, h.Reservation.HandOverKey)
			}
		}
	}

	return r
}
