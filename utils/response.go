package utils

import "github.com/gin-gonic/gin"

// Response envelopes match what the frontend already parses:
// {data, message} on success, {error} on failure.

func JSONData(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"data": data})
}

func JSONDataMessage(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, gin.H{"data": data, "message": message})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}
