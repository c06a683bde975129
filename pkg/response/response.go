// Package response centralizes the JSON wire format of the API: success
// bodies are the resource itself, failures are {"error": message}.
package response

import (
	"github.com/gin-gonic/gin"
)

// JSON writes a success body.
func JSON(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// Error writes {"error": message}. Messages are human-readable and must not
// carry credentials or connection strings.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
