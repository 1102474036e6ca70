package controller

import (
	"net/http"

	"github.com/solo-blog/console/web/entity"

	"github.com/gin-gonic/gin"
)

// PreferenceStore reads and writes the blog preference.
type PreferenceStore interface {
	GetPreference() (*entity.Preference, error)
	UpdatePreference(pref *entity.Preference) error
}

// PreferenceController lets the admin read and change the blog preference.
type PreferenceController struct {
	store    PreferenceStore
	messages Messages
}

// NewPreferenceController creates a PreferenceController whose routes all sit
// behind gate.
func NewPreferenceController(g *gin.RouterGroup, store PreferenceStore, messages Messages, gate gin.HandlerFunc) *PreferenceController {
	a := &PreferenceController{store: store, messages: messages}
	if a.messages == nil {
		a.messages = i18nMessages{}
	}
	a.initRouter(g.Group("/preference", gate))
	return a
}

func (a *PreferenceController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.getPreference)
	g.PUT("", a.updatePreference)
}

func (a *PreferenceController) getPreference(c *gin.Context) {
	pref, err := a.store.GetPreference()
	if err != nil {
		requestLog(c).Errorf("get preference failed: %v", err)
		jsonFail(c, a.messages.Get(c, "getFailLabel"))
		return
	}
	c.JSON(http.StatusOK, entity.PreferenceResult{Sc: true, Preference: pref})
}

func (a *PreferenceController) updatePreference(c *gin.Context) {
	pref := &entity.Preference{}
	if err := c.ShouldBindJSON(pref); err != nil {
		jsonFail(c, a.messages.Get(c, "invalidFormDataLabel"))
		return
	}
	if err := a.store.UpdatePreference(pref); err != nil {
		requestLog(c).Errorf("update preference failed: %v", err)
		jsonFail(c, err.Error())
		return
	}
	jsonSucc(c, a.messages.Get(c, "updateSuccLabel"))
}
