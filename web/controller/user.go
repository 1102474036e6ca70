package controller

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"sync"

	"github.com/solo-blog/console/database/model"
	"github.com/solo-blog/console/util/pagination"
	"github.com/solo-blog/console/web/entity"
	"github.com/solo-blog/console/web/middleware"
	"github.com/solo-blog/console/web/service"
	"github.com/solo-blog/console/web/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// UserQuery reads users. GetUser returns nil and no error for a missing user.
type UserQuery interface {
	GetUser(id string) (*model.User, error)
	GetUsers(req pagination.Request) (*entity.UserPage, error)
}

// UserManagement changes users.
type UserManagement interface {
	AddUser(form *entity.UserForm) (string, error)
	UpdateUser(form *entity.UserForm) error
	RemoveUser(id string) error
	ChangeRole(id string) error
}

// PreferenceQuery reads the blog preference.
type PreferenceQuery interface {
	GetPreference() (*entity.Preference, error)
}

// UserDeps are the collaborators of UserController.
type UserDeps struct {
	Query       UserQuery
	Mgmt        UserManagement
	Preferences PreferenceQuery
	Messages    Messages // defaults to the embedded translations

	// IsAdmin reports whether the caller is the logged-in admin.
	// Defaults to session.IsAdmin.
	IsAdmin func(c *gin.Context) bool
	// AdminGate guards every route but user creation.
	// Defaults to middleware.AdminRequired.
	AdminGate gin.HandlerFunc
	// RegisterGuards run before user creation, e.g. a rate limit.
	RegisterGuards []gin.HandlerFunc
}

// errorLabels maps service errors to the message shown instead of their text.
var errorLabels = []struct {
	err   error
	label string
}{
	{service.ErrDuplicatedEmail, "duplicatedEmailLabel"},
	{service.ErrInvalidUserName, "userNameInvalidLabel"},
	{service.ErrInvalidEmail, "mailInvalidLabel"},
	{service.ErrInvalidURL, "urlInvalidLabel"},
	{service.ErrInvalidRole, "roleInvalidLabel"},
	{service.ErrUserNotFound, "userNotFoundLabel"},
}

var registerRoleValidation sync.Once

// UserController handles the console's user administration routes.
type UserController struct {
	query       UserQuery
	mgmt        UserManagement
	preferences PreferenceQuery
	messages    Messages
	isAdmin     func(c *gin.Context) bool
}

// NewUserController creates a UserController and registers its routes on g.
func NewUserController(g *gin.RouterGroup, deps UserDeps) *UserController {
	a := &UserController{
		query:       deps.Query,
		mgmt:        deps.Mgmt,
		preferences: deps.Preferences,
		messages:    deps.Messages,
		isAdmin:     deps.IsAdmin,
	}
	if a.messages == nil {
		a.messages = i18nMessages{}
	}
	if a.isAdmin == nil {
		a.isAdmin = session.IsAdmin
	}
	gate := deps.AdminGate
	if gate == nil {
		gate = middleware.AdminRequired()
	}
	registerRoleValidation.Do(func() {
		if err := registerUserRoleValidation(binding.Validator.Engine()); err != nil {
			panic(fmt.Sprintf("register userRole validation: %v", err))
		}
	})

	a.initRouter(g, gate, deps.RegisterGuards)
	return a
}

// registerUserRoleValidation adds the "userRole" rule to the binding engine.
// UserForm can not be bound without it.
func registerUserRoleValidation(engine any) error {
	v, ok := engine.(*validator.Validate)
	if !ok {
		return fmt.Errorf("unsupported binding engine %T", engine)
	}
	return v.RegisterValidation("userRole", func(fl validator.FieldLevel) bool {
		return model.Role(fl.Field().String()).Valid()
	})
}

func (a *UserController) initRouter(g *gin.RouterGroup, gate gin.HandlerFunc, registerGuards []gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, registerGuards...), a.addUser)
	g.POST("/users", handlers...)

	admin := g.Group("", gate)
	admin.PUT("/user", a.updateUser)
	admin.DELETE("/user/:id", a.removeUser)
	admin.GET("/users/*path", a.getUsers)
	admin.GET("/user/:id", a.getUser)
	admin.PUT("/role/:id", a.changeUserRole)
}

// addUser creates a user. An admin creates authors; anyone else registers a
// visitor, and only while the preference allows registration.
func (a *UserController) addUser(c *gin.Context) {
	form := &entity.UserForm{}
	if err := c.ShouldBindJSON(form); err != nil {
		jsonFail(c, a.messages.Get(c, "invalidFormDataLabel"))
		return
	}

	isAdmin := a.isAdmin(c)
	allowRegister := false
	if !isAdmin {
		pref, err := a.preferences.GetPreference()
		if err != nil {
			requestLog(c).Errorf("add user: load preference failed: %v", err)
			jsonFail(c, err.Error())
			return
		}
		allowRegister = pref.AllowRegister
	}

	role, err := service.DecideRole(isAdmin, allowRegister)
	if err != nil {
		jsonFail(c, a.messages.Get(c, "notAllowRegisterLabel"))
		return
	}
	form.UserRole = role

	userId, err := a.mgmt.AddUser(form)
	if err != nil {
		requestLog(c).Errorf("add user failed: %v", err)
		jsonFail(c, a.describe(c, err))
		return
	}

	c.JSON(http.StatusOK, entity.Msg{
		Sc:  true,
		OId: userId,
		Msg: a.messages.Get(c, "addSuccLabel"),
	})
}

func (a *UserController) updateUser(c *gin.Context) {
	form := &entity.UserForm{}
	if err := c.ShouldBindJSON(form); err != nil || form.OId == "" {
		jsonFail(c, a.messages.Get(c, "invalidFormDataLabel"))
		return
	}

	if err := a.mgmt.UpdateUser(form); err != nil {
		requestLog(c).Errorf("update user %s failed: %v", form.OId, err)
		jsonFail(c, a.describe(c, err))
		return
	}
	jsonSucc(c, a.messages.Get(c, "updateSuccLabel"))
}

// removeUser never shows the underlying error to the caller.
func (a *UserController) removeUser(c *gin.Context) {
	userId := c.Param("id")
	if err := a.mgmt.RemoveUser(userId); err != nil {
		requestLog(c).Errorf("remove user %s failed: %v", userId, err)
		jsonFail(c, a.messages.Get(c, "removeFailLabel"))
		return
	}
	jsonSucc(c, a.messages.Get(c, "removeSuccLabel"))
}

// getUsers lists one page of users. The path holds "page/size/window".
func (a *UserController) getUsers(c *gin.Context) {
	req := pagination.ParseRequest(c.Param("path"))
	page, err := a.query.GetUsers(req)
	if err != nil {
		requestLog(c).Errorf("get users failed: %v", err)
		jsonFail(c, a.messages.Get(c, "getFailLabel"))
		return
	}

	users := make([]model.User, len(page.Users))
	for i, user := range page.Users {
		user.UserName = html.EscapeString(user.UserName)
		users[i] = user
	}
	c.JSON(http.StatusOK, entity.UserList{
		Sc:         true,
		Users:      users,
		Pagination: page.Pagination,
	})
}

// getUser answers a missing user with getFailLabel; that is an expected
// outcome and not logged as an error.
func (a *UserController) getUser(c *gin.Context) {
	userId := c.Param("id")
	user, err := a.query.GetUser(userId)
	if err != nil {
		requestLog(c).Errorf("get user %s failed: %v", userId, err)
		jsonFail(c, a.messages.Get(c, "getFailLabel"))
		return
	}
	if user == nil {
		requestLog(c).Debugf("user %s not found", userId)
		jsonFail(c, a.messages.Get(c, "getFailLabel"))
		return
	}
	c.JSON(http.StatusOK, entity.UserResult{Sc: true, User: user})
}

// changeUserRole never shows the underlying error to the caller.
func (a *UserController) changeUserRole(c *gin.Context) {
	userId := c.Param("id")
	if err := a.mgmt.ChangeRole(userId); err != nil {
		requestLog(c).Errorf("change role of user %s failed: %v", userId, err)
		jsonFail(c, a.messages.Get(c, "removeFailLabel"))
		return
	}
	jsonSucc(c, a.messages.Get(c, "updateSuccLabel"))
}

// describe turns a service error into the message shown to the caller.
func (a *UserController) describe(c *gin.Context, err error) string {
	for _, l := range errorLabels {
		if errors.Is(err, l.err) {
			return a.messages.Get(c, l.label)
		}
	}
	return err.Error()
}
