package utils

import "github.com/gin-gonic/gin"

// Success writes a JSON payload with status 200.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(200, data)
}

// Created writes a JSON payload with status 201.
func Created(ctx *gin.Context, data interface{}) {
	ctx.JSON(201, data)
}

// Error writes the `{"error": ...}` shape the site frontend branches on.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}
