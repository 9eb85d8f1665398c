package route

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lead-agent/api"
	"lead-agent/service"
)

func Register(r *gin.Engine, engine *service.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	chatGroup := r.Group("/chat")
	{
		chatGroup.POST("", api.ChatHandler(engine))
		chatGroup.POST("/reset", api.ResetHandler(engine))
		chatGroup.GET("/sessions/:id", api.SessionHandler(engine))
	}
}
