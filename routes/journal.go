package routes

import (
	"journalgrader/controllers"

	"github.com/gin-gonic/gin"
)

// SetupJournalRoutes registers the form pages and the JSON API.
func SetupJournalRoutes(router *gin.Engine, jc *controllers.JournalController) {
	router.GET("/", jc.ShowForm)
	router.POST("/", jc.SubmitForm)
	router.GET("/banner", jc.Banner)
	router.GET("/healthz", jc.Health)

	api := router.Group("/api")
	{
		api.GET("/modes", jc.ListModes)
		api.GET("/roster", jc.ListRoster)
		api.POST("/critique", jc.Critique)
	}
}
