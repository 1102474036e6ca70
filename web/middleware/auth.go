// Package middleware holds the gin middleware of the console.
package middleware

import (
	"net/http"

	"github.com/solo-blog/console/web/entity"
	"github.com/solo-blog/console/web/locale"
	"github.com/solo-blog/console/web/session"

	"github.com/gin-gonic/gin"
)

// AdminRequired lets only the logged-in admin through. Anonymous callers get
// 401, other logged-in users 403.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := session.GetLoginUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{
				Sc:  false,
				Msg: locale.I18n(c, "loginAgainLabel"),
			})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, entity.Msg{
				Sc:  false,
				Msg: locale.I18n(c, "forbiddenLabel"),
			})
			return
		}
		c.Next()
	}
}
