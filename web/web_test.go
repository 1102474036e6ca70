package web

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/solo-blog/console/database"
	"github.com/solo-blog/console/database/model"
	"github.com/solo-blog/console/web/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	t      *testing.T
	engine *gin.Engine
	cookie *http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()
	require.NoError(t, database.InitSQLite(filepath.Join(t.TempDir(), "solo.db")))
	t.Cleanup(func() { _ = database.CloseDB() })

	engine, err := NewServer().initRouter()
	require.NoError(t, err)
	return &client{t: t, engine: engine}
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	if path == "/console/login" {
		if cookies := w.Result().Cookies(); len(cookies) > 0 {
			c.cookie = cookies[len(cookies)-1]
		}
	}
	return w.Code
}

func TestConsoleUserAdministration(t *testing.T) {
	anon := newClient(t)

	var msg entity.Msg
	require.Equal(t, http.StatusOK, anon.do(http.MethodPost, "/console/users", map[string]string{
		"userName":  "eve",
		"userEmail": "eve@example.com",
	}, &msg))
	assert.Equal(t, entity.Msg{Sc: false, Msg: "Registration is not allowed"}, msg)

	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/console/users/1/15/20", nil, nil))

	admin := &client{t: t, engine: anon.engine}
	admin.do(http.MethodPost, "/console/login", map[string]string{
		"userEmail":    "admin@solo.local",
		"userPassword": "admin",
	}, &msg)
	require.True(t, msg.Sc)
	require.NotNil(t, admin.cookie)

	msg = entity.Msg{}
	admin.do(http.MethodPost, "/console/users", map[string]string{
		"userName":  "<b>alice</b>",
		"userEmail": "alice@example.com",
	}, &msg)
	require.True(t, msg.Sc, msg.Msg)
	aliceID := msg.OId

	var list entity.UserList
	require.Equal(t, http.StatusOK, admin.do(http.MethodGet, "/console/users/1/15/20", nil, &list))
	require.Len(t, list.Users, 2)
	assert.Equal(t, model.AdminRole, list.Users[0].UserRole)
	assert.Equal(t, "&lt;b&gt;alice&lt;/b&gt;", list.Users[1].UserName)
	assert.Equal(t, 1, list.Pagination.PageCount)

	var one entity.UserResult
	admin.do(http.MethodGet, "/console/user/"+aliceID, nil, &one)
	require.True(t, one.Sc)
	assert.Equal(t, model.DefaultRole, one.User.UserRole)

	msg = entity.Msg{}
	admin.do(http.MethodPut, "/console/role/"+aliceID, nil, &msg)
	assert.True(t, msg.Sc)
	admin.do(http.MethodGet, "/console/user/"+aliceID, nil, &one)
	assert.Equal(t, model.VisitorRole, one.User.UserRole)

	msg = entity.Msg{}
	admin.do(http.MethodPut, "/console/preference", entity.Preference{
		AllowRegister: true,
		BlogTitle:     "Solo",
		ServePath:     "http://localhost:8080",
	}, &msg)
	require.True(t, msg.Sc, msg.Msg)

	msg = entity.Msg{}
	anon.do(http.MethodPost, "/console/users", map[string]string{
		"userName":  "eve",
		"userEmail": "eve@example.com",
	}, &msg)
	require.True(t, msg.Sc, msg.Msg)
	admin.do(http.MethodGet, "/console/user/"+msg.OId, nil, &one)
	assert.Equal(t, model.VisitorRole, one.User.UserRole)

	msg = entity.Msg{}
	admin.do(http.MethodDelete, "/console/user/"+aliceID, nil, &msg)
	assert.Equal(t, entity.Msg{Sc: true, Msg: "Removed successfully"}, msg)

	msg = entity.Msg{}
	admin.do(http.MethodGet, "/console/user/"+aliceID, nil, &msg)
	assert.Equal(t, entity.Msg{Sc: false, Msg: "Failed to load data"}, msg)
}

func TestServerStartStop(t *testing.T) {
	require.NoError(t, database.InitSQLite(filepath.Join(t.TempDir(), "solo.db")))
	t.Cleanup(func() { _ = database.CloseDB() })
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	t.Setenv("SOLO_LISTEN", "127.0.0.1")
	t.Setenv("SOLO_PORT", strconv.Itoa(port))

	s := NewServer()
	require.NoError(t, s.Start())
	assert.Len(t, s.GetCron().Entries(), 1)
	assert.NoError(t, s.Stop())
	assert.Error(t, s.GetCtx().Err())
}
