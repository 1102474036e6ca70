package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/solo-blog/console/database/model"
	"github.com/solo-blog/console/util/pagination"
	"github.com/solo-blog/console/web/entity"
	"github.com/solo-blog/console/web/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyMessages struct{}

func (keyMessages) Get(_ *gin.Context, key string) string { return key }

type fakeUsers struct {
	users      map[string]*model.User
	queryErr   error
	mgmtErr    error
	added      []*entity.UserForm
	updated    []*entity.UserForm
	removed    []string
	roleChange []string
	lastReq    pagination.Request
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*model.User{}}
}

func (f *fakeUsers) GetUser(id string) (*model.User, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.users[id], nil
}

func (f *fakeUsers) GetUsers(req pagination.Request) (*entity.UserPage, error) {
	f.lastReq = req
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	users := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	return &entity.UserPage{Users: users, Pagination: pagination.NewResult(req, int64(len(users)))}, nil
}

func (f *fakeUsers) AddUser(form *entity.UserForm) (string, error) {
	f.added = append(f.added, form)
	if f.mgmtErr != nil {
		return "", f.mgmtErr
	}
	return "new-id", nil
}

func (f *fakeUsers) UpdateUser(form *entity.UserForm) error {
	f.updated = append(f.updated, form)
	return f.mgmtErr
}

func (f *fakeUsers) RemoveUser(id string) error {
	f.removed = append(f.removed, id)
	return f.mgmtErr
}

func (f *fakeUsers) ChangeRole(id string) error {
	f.roleChange = append(f.roleChange, id)
	return f.mgmtErr
}

type fakePreferences struct {
	pref entity.Preference
	err  error
}

func (f *fakePreferences) GetPreference() (*entity.Preference, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := f.pref
	return &p, nil
}

type userFixture struct {
	engine  *gin.Engine
	users   *fakeUsers
	prefs   *fakePreferences
	admin   bool
	blocked bool
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &userFixture{
		engine: gin.New(),
		users:  newFakeUsers(),
		prefs:  &fakePreferences{},
		admin:  true,
	}
	NewUserController(f.engine.Group("/console"), UserDeps{
		Query:       f.users,
		Mgmt:        f.users,
		Preferences: f.prefs,
		Messages:    keyMessages{},
		IsAdmin:     func(*gin.Context) bool { return f.admin },
		AdminGate: func(c *gin.Context) {
			if f.blocked {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.Next()
		},
	})
	return f
}

func (f *userFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decodeMsg(t *testing.T, w *httptest.ResponseRecorder) entity.Msg {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	var msg entity.Msg
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	return msg
}

func TestAddUserByAdminCreatesAuthor(t *testing.T) {
	f := newUserFixture(t)

	w := f.do(t, http.MethodPost, "/console/users", map[string]string{
		"userName":  "alice",
		"userEmail": "alice@example.com",
		"userRole":  string(model.VisitorRole),
	})

	msg := decodeMsg(t, w)
	assert.True(t, msg.Sc)
	assert.Equal(t, "new-id", msg.OId)
	assert.Equal(t, "addSuccLabel", msg.Msg)
	require.Len(t, f.users.added, 1)
	assert.Equal(t, model.DefaultRole, f.users.added[0].UserRole)
}

func TestAddUserAnonymousRegistration(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		f := newUserFixture(t)
		f.admin = false
		f.prefs.pref.AllowRegister = true

		msg := decodeMsg(t, f.do(t, http.MethodPost, "/console/users", map[string]string{
			"userName":  "bob",
			"userEmail": "bob@example.com",
			"userRole":  string(model.AdminRole),
		}))

		assert.True(t, msg.Sc)
		require.Len(t, f.users.added, 1)
		assert.Equal(t, model.VisitorRole, f.users.added[0].UserRole)
	})

	t.Run("not allowed", func(t *testing.T) {
		f := newUserFixture(t)
		f.admin = false

		msg := decodeMsg(t, f.do(t, http.MethodPost, "/console/users", map[string]string{
			"userName":  "bob",
			"userEmail": "bob@example.com",
		}))

		assert.Equal(t, entity.Msg{Sc: false, Msg: "notAllowRegisterLabel"}, msg)
		assert.Empty(t, f.users.added)
	})

	t.Run("preference unavailable", func(t *testing.T) {
		f := newUserFixture(t)
		f.admin = false
		f.prefs.err = errors.New("db closed")

		msg := decodeMsg(t, f.do(t, http.MethodPost, "/console/users", map[string]string{
			"userName":  "bob",
			"userEmail": "bob@example.com",
		}))

		assert.False(t, msg.Sc)
		assert.Empty(t, f.users.added)
	})
}

func TestAddUserRejectsBadInput(t *testing.T) {
	f := newUserFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/console/users", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	assert.Equal(t, "invalidFormDataLabel", decodeMsg(t, w).Msg)

	msg := decodeMsg(t, f.do(t, http.MethodPost, "/console/users", map[string]string{
		"userName":  "carol",
		"userEmail": "carol@example.com",
		"userRole":  "superRole",
	}))
	assert.Equal(t, "invalidFormDataLabel", msg.Msg)
	assert.Empty(t, f.users.added)
}

func TestAddUserMapsServiceErrors(t *testing.T) {
	f := newUserFixture(t)
	f.users.mgmtErr = service.ErrDuplicatedEmail

	msg := decodeMsg(t, f.do(t, http.MethodPost, "/console/users", map[string]string{
		"userName":  "alice",
		"userEmail": "alice@example.com",
	}))
	assert.Equal(t, entity.Msg{Sc: false, Msg: "duplicatedEmailLabel"}, msg)
}

func TestUpdateUser(t *testing.T) {
	f := newUserFixture(t)

	msg := decodeMsg(t, f.do(t, http.MethodPut, "/console/user", map[string]string{
		"oId":       "u1",
		"userName":  "alice",
		"userEmail": "alice@example.com",
	}))
	assert.Equal(t, entity.Msg{Sc: true, Msg: "updateSuccLabel"}, msg)
	require.Len(t, f.users.updated, 1)
	assert.Equal(t, "u1", f.users.updated[0].OId)

	msg = decodeMsg(t, f.do(t, http.MethodPut, "/console/user", map[string]string{"userName": "no id"}))
	assert.Equal(t, "invalidFormDataLabel", msg.Msg)

	f.users.mgmtErr = service.ErrInvalidUserName
	msg = decodeMsg(t, f.do(t, http.MethodPut, "/console/user", map[string]string{"oId": "u1"}))
	assert.Equal(t, entity.Msg{Sc: false, Msg: "userNameInvalidLabel"}, msg)
}

func TestRemoveUserHidesError(t *testing.T) {
	f := newUserFixture(t)

	msg := decodeMsg(t, f.do(t, http.MethodDelete, "/console/user/u1", nil))
	assert.Equal(t, entity.Msg{Sc: true, Msg: "removeSuccLabel"}, msg)
	assert.Equal(t, []string{"u1"}, f.users.removed)

	f.users.mgmtErr = errors.New("database is locked")
	w := f.do(t, http.MethodDelete, "/console/user/u2", nil)
	assert.Equal(t, entity.Msg{Sc: false, Msg: "removeFailLabel"}, decodeMsg(t, w))
	assert.NotContains(t, w.Body.String(), "locked")
}

func TestChangeUserRoleHidesError(t *testing.T) {
	f := newUserFixture(t)

	msg := decodeMsg(t, f.do(t, http.MethodPut, "/console/role/u1", nil))
	assert.Equal(t, entity.Msg{Sc: true, Msg: "updateSuccLabel"}, msg)
	assert.Equal(t, []string{"u1"}, f.users.roleChange)

	f.users.mgmtErr = service.ErrChangeAdminRole
	w := f.do(t, http.MethodPut, "/console/role/admin", nil)
	assert.Equal(t, entity.Msg{Sc: false, Msg: "removeFailLabel"}, decodeMsg(t, w))
	assert.NotContains(t, w.Body.String(), service.ErrChangeAdminRole.Error())
}

func TestGetUser(t *testing.T) {
	f := newUserFixture(t)
	f.users.users["u1"] = &model.User{OId: "u1", UserName: "alice", UserRole: model.DefaultRole}

	w := f.do(t, http.MethodGet, "/console/user/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result entity.UserResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Sc)
	assert.Equal(t, "alice", result.User.UserName)

	msg := decodeMsg(t, f.do(t, http.MethodGet, "/console/user/missing", nil))
	assert.Equal(t, entity.Msg{Sc: false, Msg: "getFailLabel"}, msg)

	f.users.queryErr = errors.New("boom")
	msg = decodeMsg(t, f.do(t, http.MethodGet, "/console/user/u1", nil))
	assert.Equal(t, entity.Msg{Sc: false, Msg: "getFailLabel"}, msg)
}

func TestGetUsersEscapesNames(t *testing.T) {
	f := newUserFixture(t)
	raw := `<script>alert("x")</script> & co`
	f.users.users["u1"] = &model.User{OId: "u1", UserName: raw}

	w := f.do(t, http.MethodGet, "/console/users/2/10/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list entity.UserList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))

	assert.True(t, list.Sc)
	require.Len(t, list.Users, 1)
	assert.NotContains(t, list.Users[0].UserName, "<script>")
	assert.Equal(t, raw, html.UnescapeString(list.Users[0].UserName))
	assert.Equal(t, raw, f.users.users["u1"].UserName)
	assert.Equal(t, pagination.Request{CurrentPageNum: 2, PageSize: 10, WindowSize: 5}, f.users.lastReq)
}

func TestGetUsersDefaultsAndFailure(t *testing.T) {
	f := newUserFixture(t)

	decodeMsg(t, f.do(t, http.MethodGet, "/console/users/", nil))
	assert.Equal(t, 1, f.users.lastReq.CurrentPageNum)

	f.users.queryErr = errors.New("boom")
	msg := decodeMsg(t, f.do(t, http.MethodGet, "/console/users/1/15/20", nil))
	assert.Equal(t, entity.Msg{Sc: false, Msg: "getFailLabel"}, msg)
}

func TestAdminGateGuardsManagementRoutes(t *testing.T) {
	f := newUserFixture(t)
	f.blocked = true

	for _, r := range []struct{ method, path string }{
		{http.MethodPut, "/console/user"},
		{http.MethodDelete, "/console/user/u1"},
		{http.MethodGet, "/console/users/1/15/20"},
		{http.MethodGet, "/console/user/u1"},
		{http.MethodPut, "/console/role/u1"},
	} {
		w := f.do(t, r.method, r.path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, r.path)
	}
	assert.Empty(t, f.users.removed)
	assert.Empty(t, f.users.roleChange)

	f.admin = false
	f.prefs.pref.AllowRegister = true
	msg := decodeMsg(t, f.do(t, http.MethodPost, "/console/users", map[string]string{
		"userName":  "dave",
		"userEmail": "dave@example.com",
	}))
	assert.True(t, msg.Sc)
}

func TestRegisterUserRoleValidation(t *testing.T) {
	assert.Error(t, registerUserRoleValidation(struct{}{}))

	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, registerUserRoleValidation(v))
	assert.NoError(t, v.Struct(entity.UserForm{UserRole: model.VisitorRole}))
	assert.NoError(t, v.Struct(entity.UserForm{}))
	assert.Error(t, v.Struct(entity.UserForm{UserRole: "superRole"}))
}
