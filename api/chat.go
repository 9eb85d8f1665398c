package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lead-agent/model"
	"lead-agent/service"
)

func ChatHandler(engine *service.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}

		reply, err := engine.Handle(c.Request.Context(), req.SessionID, req.Message)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		sess, _ := engine.Session(c.Request.Context(), req.SessionID)
		resp := model.ChatResponse{SessionID: req.SessionID, Reply: reply}
		if sess != nil {
			resp.State = sess.State
		}
		c.JSON(http.StatusOK, resp)
	}
}

func ResetHandler(engine *service.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.ResetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}

		if err := engine.Reset(c.Request.Context(), req.SessionID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"session_id": req.SessionID,
			"message":    "Conversación reiniciada. Se ha creado un nuevo contacto en el CRM.",
		})
	}
}

func SessionHandler(engine *service.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := engine.Session(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if sess == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}
