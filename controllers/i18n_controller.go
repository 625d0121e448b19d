package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixelway/agencysite/i18n"
)

// I18nController serves the locale dictionaries the pages render from.
type I18nController struct{}

// NewI18nController creates a new I18nController instance.
func NewI18nController() *I18nController {
	return &I18nController{}
}

// GetTranslations returns the dictionary for the requested locale,
// falling back to English for anything unknown.
func (ic *I18nController) GetTranslations(ctx *gin.Context) {
	lang := ctx.Param("lang")
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", i18n.Translations(lang))
}
