// Package api exposes the bill command-dispatch surface and read accessors
// over HTTP.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with middleware and all bill routes.
// allowedOrigins empty means allow all, for local development.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), Metrics())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		MaxAge:           12 * time.Hour,
		AllowAllOrigins:  len(allowedOrigins) == 0,
		AllowCredentials: false,
	}
	if len(allowedOrigins) > 0 {
		corsCfg.AllowOrigins = allowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	bill := r.Group("/api/bill")
	{
		bill.GET("", h.GetState)
		bill.GET("/summary", h.GetSummary)

		bill.POST("/extract", h.Extract)
		bill.POST("/extract/mode", h.SetPriceMode)
		bill.POST("/suggest", h.Suggest)

		bill.POST("/items", h.AddItem)
		bill.PATCH("/items/:id", h.UpdateItem)
		bill.DELETE("/items/:id", h.DeleteItem)
		bill.POST("/items/:id/assign", h.AssignItem)
		bill.POST("/assignments/reset", h.ResetAssignments)

		bill.POST("/charges", h.SetCharge)

		bill.PUT("/people", h.SetPeopleCount)
		bill.PATCH("/people/:id", h.RenamePerson)
		bill.POST("/people/save", h.SavePeople)

		bill.POST("/pools", h.CreatePool)
		bill.PATCH("/pools/:id", h.UpdatePool)
		bill.DELETE("/pools/:id", h.DeletePool)

		bill.POST("/reset", h.ResetAll)
	}

	return r
}
