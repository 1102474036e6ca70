// Package controller holds the HTTP handlers of the blog console: user
// administration, console login and the blog preference.
package controller

import (
	"github.com/solo-blog/console/web/locale"

	"github.com/gin-gonic/gin"
)

// Messages looks up a localized message for the current request.
type Messages interface {
	Get(c *gin.Context, key string) string
}

// i18nMessages reads messages from the embedded translations.
type i18nMessages struct{}

func (i18nMessages) Get(c *gin.Context, key string) string {
	return I18nWeb(c, key)
}

// I18nWeb retrieves a message in the language of the current request.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	return locale.I18n(c, name, params...)
}
