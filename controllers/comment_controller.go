package controllers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pixelway/agencysite/models"
	"github.com/pixelway/agencysite/store"
	"github.com/pixelway/agencysite/utils"
)

const listCacheKey = "cache:comments:list"

// CommentController exposes the threaded comments API: list, create, like
// and password-gated delete.
type CommentController struct {
	store        store.CommentStore
	deleteSecret string
}

// NewCommentController creates a new CommentController instance.
// deleteSecret may be empty, in which case delete is always rejected.
func NewCommentController(s store.CommentStore, deleteSecret string) *CommentController {
	return &CommentController{store: s, deleteSecret: deleteSecret}
}

// ListComments returns every comment, newest first.
func (cc *CommentController) ListComments(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(listCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	comments, err := cc.store.ListAll(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorf("failed to fetch comments: %v", err)
		utils.Error(ctx, http.StatusServiceUnavailable, "Failed to fetch comments")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	payload := gin.H{"comments": comments}
	utils.CacheSetJSON(listCacheKey, payload, 10*time.Second)
	utils.Success(ctx, payload)
}

// CreateComment inserts a new comment or reply.
func (cc *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Name    string  `json:"name"`
		Text    string  `json:"text"`
		ReplyTo *string `json:"reply_to"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Comment text is required")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		utils.Error(ctx, http.StatusBadRequest, "Comment text is required")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = models.GuestName
	}

	// reply_to is stored as given; a dangling reference never renders
	comment, err := cc.store.Insert(ctx.Request.Context(), name, text, req.ReplyTo)
	if err != nil {
		utils.Sugar.Errorf("failed to create comment: %v", err)
		utils.Error(ctx, http.StatusServiceUnavailable, "Failed to create comment")
		return
	}

	utils.CacheDelete(listCacheKey)
	utils.Created(ctx, gin.H{"comment": comment})
}

// LikeComment adds one like to a comment.
func (cc *CommentController) LikeComment(ctx *gin.Context) {
	id := ctx.Param("id")

	comment, err := cc.store.IncrementLikes(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Comment not found")
			return
		}
		utils.Sugar.Errorf("failed to like comment %s: %v", id, err)
		utils.Error(ctx, http.StatusServiceUnavailable, "Failed to like comment")
		return
	}

	utils.CacheDelete(listCacheKey)
	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment removes a comment and its direct replies after checking the
// shared delete secret.
func (cc *CommentController) DeleteComment(ctx *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	// a missing or malformed body leaves the password empty, which fails the gate below
	_ = ctx.ShouldBindJSON(&req)

	if !cc.authorized(req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := ctx.Param("id")
	if _, err := cc.store.DeleteCascade(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "Comment not found")
			return
		}
		utils.Sugar.Errorf("failed to delete comment %s: %v", id, err)
		utils.Error(ctx, http.StatusServiceUnavailable, "Failed to delete comment")
		return
	}

	utils.CacheDelete(listCacheKey)
	utils.Success(ctx, gin.H{"success": true})
}

// authorized compares the submitted password against the configured secret.
// An unset secret rejects everything; the compare is constant-time.
func (cc *CommentController) authorized(password string) bool {
	if cc.deleteSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(cc.deleteSecret)) == 1
}
