// Package entity defines the request and response shapes of the console API.
package entity

import (
	"net/url"
	"strings"

	"github.com/solo-blog/console/database/model"
	"github.com/solo-blog/console/util/common"
	"github.com/solo-blog/console/util/pagination"
)

// Msg is the response envelope shared by every console endpoint.
type Msg struct {
	Sc  bool   `json:"sc"`            // Indicates if the operation was successful
	Msg string `json:"msg,omitempty"` // Localized message text
	OId string `json:"oId,omitempty"` // Id of a created entity
}

// UserList is the response of the paginated user listing.
type UserList struct {
	Sc         bool              `json:"sc"`
	Users      []model.User      `json:"users"`
	Pagination pagination.Result `json:"pagination"`
}

// UserResult is the response of a single user lookup.
type UserResult struct {
	Sc   bool        `json:"sc"`
	User *model.User `json:"user"`
}

// PreferenceResult is the response of the preference lookup.
type PreferenceResult struct {
	Sc         bool        `json:"sc"`
	Preference *Preference `json:"preference"`
}

// UserPage is one page of users together with its pagination block.
type UserPage struct {
	Users      []model.User
	Pagination pagination.Result
}

// UserForm carries the user fields of add and update requests.
type UserForm struct {
	OId          string     `json:"oId" form:"oId"`
	UserName     string     `json:"userName" form:"userName"`
	UserEmail    string     `json:"userEmail" form:"userEmail"`
	UserURL      string     `json:"userURL" form:"userURL"`
	UserRole     model.Role `json:"userRole" form:"userRole" binding:"omitempty,userRole"`
	UserAvatar   string     `json:"userAvatar" form:"userAvatar"`
	UserPassword string     `json:"userPassword" form:"userPassword"`
}

// LoginForm is the console login request.
type LoginForm struct {
	UserEmail    string `json:"userEmail" form:"userEmail" binding:"required"`
	UserPassword string `json:"userPassword" form:"userPassword" binding:"required"`
}

// Preference holds the global blog settings. Each field is stored as one
// option row keyed by its json name.
type Preference struct {
	AllowRegister bool   `json:"allowRegister" form:"allowRegister"` // Allow visitors to register themselves
	BlogTitle     string `json:"blogTitle" form:"blogTitle"`
	ServePath     string `json:"servePath" form:"servePath"`         // Public URL of the blog, default user URL
	DefaultAvatar string `json:"defaultAvatar" form:"defaultAvatar"` // Avatar of users registered without one
}

// CheckValid validates and normalizes the preference.
func (p *Preference) CheckValid() error {
	p.BlogTitle = strings.TrimSpace(p.BlogTitle)
	if p.BlogTitle == "" {
		return common.NewError("blog title can not be empty")
	}
	p.ServePath = strings.TrimRight(strings.TrimSpace(p.ServePath), "/")
	u, err := url.Parse(p.ServePath)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return common.NewErrorf("serve path is not a valid http(s) url: %s", p.ServePath)
	}
	if p.DefaultAvatar != "" {
		if _, err := url.ParseRequestURI(p.DefaultAvatar); err != nil {
			return common.NewErrorf("default avatar is not a valid url: %s", p.DefaultAvatar)
		}
	}
	return nil
}
