package http

import "github.com/gin-gonic/gin"

// Envelope is the uniform response wrapper every endpoint returns.
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
	Message string   `json:"message,omitempty"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func respondDeleted(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

func respondError(c *gin.Context, status int, msg string, details []string) {
	c.JSON(status, Envelope{Success: false, Error: msg, Details: details})
}
