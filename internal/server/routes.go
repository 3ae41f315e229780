package server

import "github.com/gin-gonic/gin"

func registerRoutes(r *gin.Engine, h *Handler) {
	r.POST("/trigger-offer", h.TriggerOffer)
	r.POST("/submit-schedule", h.SubmitSchedule)
	r.POST("/callback", h.Callback)
}
