package api

import (
	"github.com/ErikRoss/ConversionsManager/internal/handler"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes.
func SetupRoutes(
	router *gin.Engine,
	clickHandler *handler.ClickHandler,
	conversionHandler *handler.ConversionHandler,
) {
	router.GET("/", handler.Root)
	router.POST("/", handler.Root)

	router.POST("/save_click", clickHandler.SaveClick)
	router.POST("/send_conversion", conversionHandler.SendConversion)

	// Integrations sometimes probe the POST endpoints with GET.
	router.GET("/save_click", handler.MethodNotAllowed)
	router.GET("/send_conversion", handler.MethodNotAllowed)

	router.GET("/clicks", clickHandler.ListClicks)
	router.GET("/conversions", conversionHandler.ListConversions)
}
