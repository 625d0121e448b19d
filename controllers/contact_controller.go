package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pixelway/agencysite/config"
	"github.com/pixelway/agencysite/utils"
)

// ContactController relays contact-form submissions to a Telegram chat.
type ContactController struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// NewContactController creates a ContactController from configuration.
func NewContactController(cfg config.AppConfig) *ContactController {
	return &ContactController{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		apiBase:  strings.TrimRight(cfg.TelegramAPIBase, "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SubmitContact validates the form and forwards it to the Telegram Bot API.
func (tc *ContactController) SubmitContact(ctx *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Surname string `json:"surname"`
		Message string `json:"message"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "All fields are required"})
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Surname) == "" || strings.TrimSpace(req.Message) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "All fields are required"})
		return
	}

	if tc.botToken == "" || tc.chatID == "" {
		utils.Sugar.Error("missing telegram credentials for contact relay")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server configuration error"})
		return
	}

	// the message is sent with parse_mode HTML, so strip any markup from user input
	text := fmt.Sprintf("🔔 New Contact Form Submission\n\n👤 Name: %s %s\n💬 Message: %s",
		utils.SanitizeText(req.Name),
		utils.SanitizeText(req.Surname),
		utils.SanitizeText(req.Message),
	)

	if err := tc.sendMessage(ctx, text); err != nil {
		utils.Sugar.Errorf("telegram relay failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to send message"})
		return
	}

	utils.Success(ctx, gin.H{
		"success": true,
		"message": "Your message has been sent successfully!",
	})
}

func (tc *ContactController) sendMessage(ctx *gin.Context, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id":    tc.chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", tc.apiBase, tc.botToken)
	httpReq, err := http.NewRequestWithContext(ctx.Request.Context(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := tc.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("telegram api status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
