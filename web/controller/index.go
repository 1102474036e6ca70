package controller

import (
	"net/http"
	"text/template"

	"github.com/solo-blog/console/database/model"
	"github.com/solo-blog/console/web/entity"
	"github.com/solo-blog/console/web/session"

	"github.com/gin-gonic/gin"
)

// sessionMaxAge is the lifetime of a console login, in seconds.
const sessionMaxAge = 7 * 24 * 60 * 60

// UserChecker verifies console credentials.
type UserChecker interface {
	CheckUser(email string, password string) *model.User
}

// IndexController handles console login and logout.
type IndexController struct {
	users    UserChecker
	messages Messages
}

// NewIndexController creates an IndexController and registers its routes on g.
func NewIndexController(g *gin.RouterGroup, users UserChecker, messages Messages) *IndexController {
	a := &IndexController{users: users, messages: messages}
	if a.messages == nil {
		a.messages = i18nMessages{}
	}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.POST("/login", a.login)
	g.GET("/logout", a.logout)
}

func (a *IndexController) login(c *gin.Context) {
	var form entity.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		jsonFail(c, a.messages.Get(c, "invalidFormDataLabel"))
		return
	}

	user := a.users.CheckUser(form.UserEmail, form.UserPassword)
	safeEmail := template.HTMLEscapeString(form.UserEmail)
	if user == nil {
		requestLog(c).Warningf("wrong email or password: %q, IP: %q", safeEmail, getRemoteIp(c))
		jsonFail(c, a.messages.Get(c, "wrongEmailOrPasswordLabel"))
		return
	}

	if err := session.SetMaxAge(c, sessionMaxAge); err != nil {
		requestLog(c).Warning("unable to set session max age: ", err)
	}
	if err := session.SetLoginUser(c, user); err != nil {
		requestLog(c).Errorf("unable to save session of %s: %v", safeEmail, err)
		jsonFail(c, err.Error())
		return
	}

	requestLog(c).Infof("%s logged in successfully, IP: %s", safeEmail, getRemoteIp(c))
	jsonSucc(c, a.messages.Get(c, "loginSuccLabel"))
}

func (a *IndexController) logout(c *gin.Context) {
	if user := session.GetLoginUser(c); user != nil {
		requestLog(c).Infof("%s logged out", template.HTMLEscapeString(user.UserEmail))
	}
	if err := session.ClearSession(c); err != nil {
		requestLog(c).Warning("unable to clear session: ", err)
	}
	c.JSON(http.StatusOK, entity.Msg{Sc: true})
}
