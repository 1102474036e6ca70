package service

import (
	"strings"

	"github.com/solo-blog/console/database"
	"github.com/solo-blog/console/database/model"
	"github.com/solo-blog/console/logger"
	"github.com/solo-blog/console/util/crypto"
	"github.com/solo-blog/console/util/pagination"
	"github.com/solo-blog/console/web/entity"

	"gorm.io/gorm"
)

// roleOrder lists the admin first, then authors, then visitors.
const roleOrder = "CASE user_role WHEN 'adminRole' THEN 0 WHEN 'defaultRole' THEN 1 ELSE 2 END"

type UserQueryService struct {
	db *gorm.DB
}

func NewUserQueryService(db *gorm.DB) *UserQueryService {
	return &UserQueryService{db: db}
}

// GetUser returns the user with the given id, or nil without an error when
// there is no such user.
func (s *UserQueryService) GetUser(id string) (*model.User, error) {
	return s.first("o_id = ?", id)
}

// GetUserByEmail behaves like GetUser but looks the user up by email.
func (s *UserQueryService) GetUserByEmail(email string) (*model.User, error) {
	return s.first("user_email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// GetAdmin returns the admin account, nil if none exists yet.
func (s *UserQueryService) GetAdmin() (*model.User, error) {
	return s.first("user_role = ?", model.AdminRole)
}

func (s *UserQueryService) first(query string, args ...any) (*model.User, error) {
	user := &model.User{}
	err := s.db.Model(model.User{}).Where(query, args...).First(user).Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUsers returns one page of users and the pagination block for req.
func (s *UserQueryService) GetUsers(req pagination.Request) (*entity.UserPage, error) {
	var total int64
	if err := s.db.Model(model.User{}).Count(&total).Error; err != nil {
		return nil, err
	}

	users := make([]model.User, 0, req.PageSize)
	err := s.db.Model(model.User{}).
		Order(roleOrder).
		Order("user_name ASC").
		Order("o_id ASC").
		Offset(req.Offset()).
		Limit(req.PageSize).
		Find(&users).
		Error
	if err != nil {
		return nil, err
	}

	return &entity.UserPage{
		Users:      users,
		Pagination: pagination.NewResult(req, total),
	}, nil
}

// CheckUser returns the user matching email and password, nil otherwise.
func (s *UserQueryService) CheckUser(email string, password string) *model.User {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		logger.Warning("check user err: ", err)
		return nil
	}
	if user == nil || !crypto.CheckPasswordHash(user.UserPassword, password) {
		return nil
	}
	return user
}

// CountUsers returns the number of registered users.
func (s *UserQueryService) CountUsers() (int64, error) {
	var total int64
	err := s.db.Model(model.User{}).Count(&total).Error
	return total, err
}
