package controller

import (
	"net"
	"net/http"
	"strings"

	"github.com/solo-blog/console/logger"
	"github.com/solo-blog/console/web/entity"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return strings.TrimSpace(ips[0])
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// requestLog returns the logger bound to the current request.
func requestLog(c *gin.Context) *logger.Entry {
	return logger.FromContext(c.Request.Context())
}

// jsonSucc sends {sc: true, msg}.
func jsonSucc(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, entity.Msg{Sc: true, Msg: msg})
}

// jsonFail sends {sc: false, msg}.
func jsonFail(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, entity.Msg{Sc: false, Msg: msg})
}
