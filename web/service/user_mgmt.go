package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/solo-blog/console/database"
	"github.com/solo-blog/console/database/model"
	"github.com/solo-blog/console/util/crypto"
	"github.com/solo-blog/console/web/entity"

	"gorm.io/gorm"
)

const (
	minUserNameLength = 1
	maxUserNameLength = 20
)

// PreferenceReader supplies the preference values used as user defaults.
type PreferenceReader interface {
	GetPreference() (*entity.Preference, error)
}

// UserMgmtService creates, updates and removes blog users.
type UserMgmtService struct {
	db          *gorm.DB
	preferences PreferenceReader
	validate    *validator.Validate
}

func NewUserMgmtService(db *gorm.DB, preferences PreferenceReader) *UserMgmtService {
	return &UserMgmtService{
		db:          db,
		preferences: preferences,
		validate:    validator.New(),
	}
}

// AddUser validates form, fills in the defaults and stores a new user.
// It returns the generated user id.
func (s *UserMgmtService) AddUser(form *entity.UserForm) (string, error) {
	name, email, err := s.checkNameAndEmail(form)
	if err != nil {
		return "", err
	}
	if err := s.checkEmailFree(email, ""); err != nil {
		return "", err
	}

	pref, err := s.preferences.GetPreference()
	if err != nil {
		return "", err
	}

	userURL := strings.TrimSpace(form.UserURL)
	if userURL == "" {
		userURL = pref.ServePath
	}
	avatar := strings.TrimSpace(form.UserAvatar)
	if avatar == "" {
		avatar = pref.DefaultAvatar
	}
	if err := s.checkURLs(userURL, avatar); err != nil {
		return "", err
	}

	role := form.UserRole
	if role == "" {
		role = model.DefaultRole
	}
	if role == model.AdminRole || !role.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	user := &model.User{
		OId:        uuid.NewString(),
		UserName:   name,
		UserEmail:  email,
		UserURL:    userURL,
		UserRole:   role,
		UserAvatar: avatar,
	}
	if form.UserPassword != "" {
		hashed, err := crypto.HashPasswordAsBcrypt(form.UserPassword)
		if err != nil {
			return "", err
		}
		user.UserPassword = hashed
	}

	if err := s.db.Create(user).Error; err != nil {
		return "", uniqueEmailError(err)
	}
	return user.OId, nil
}

// UpdateUser overwrites name, email, URL and avatar of the user form.OId.
// An empty role keeps the current one. The admin keeps the admin role and no
// one else can be given it.
func (s *UserMgmtService) UpdateUser(form *entity.UserForm) error {
	user, err := s.getUser(form.OId)
	if err != nil {
		return err
	}

	name, email, err := s.checkNameAndEmail(form)
	if err != nil {
		return err
	}
	if err := s.checkEmailFree(email, user.OId); err != nil {
		return err
	}
	userURL := strings.TrimSpace(form.UserURL)
	avatar := strings.TrimSpace(form.UserAvatar)
	if err := s.checkURLs(userURL, avatar); err != nil {
		return err
	}

	role := form.UserRole
	if role == "" {
		role = user.UserRole
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}
	if user.IsAdmin() && role != model.AdminRole {
		return ErrChangeAdminRole
	}
	if !user.IsAdmin() && role == model.AdminRole {
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	updates := map[string]any{
		"user_name":   name,
		"user_email":  email,
		"user_url":    userURL,
		"user_avatar": avatar,
		"user_role":   role,
	}
	if form.UserPassword != "" {
		hashed, err := crypto.HashPasswordAsBcrypt(form.UserPassword)
		if err != nil {
			return err
		}
		updates["user_password"] = hashed
	}
	err = s.db.Model(model.User{}).Where("o_id = ?", user.OId).Updates(updates).Error
	return uniqueEmailError(err)
}

// RemoveUser deletes the user with the given id. The admin can not be removed.
func (s *UserMgmtService) RemoveUser(id string) error {
	user, err := s.getUser(id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return ErrRemoveAdmin
	}
	return s.db.Where("o_id = ?", id).Delete(&model.User{}).Error
}

// ChangeRole switches a user between author and visitor.
func (s *UserMgmtService) ChangeRole(id string) error {
	user, err := s.getUser(id)
	if err != nil {
		return err
	}

	var newRole model.Role
	switch user.UserRole {
	case model.DefaultRole:
		newRole = model.VisitorRole
	case model.VisitorRole:
		newRole = model.DefaultRole
	default:
		return ErrChangeAdminRole
	}
	return s.db.Model(model.User{}).Where("o_id = ?", id).Update("user_role", newRole).Error
}

// UpdateAdmin sets the email and password the admin logs in with.
func (s *UserMgmtService) UpdateAdmin(email string, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" && password == "" {
		return nil
	}
	admin := &model.User{}
	if err := s.db.Model(model.User{}).Where("user_role = ?", model.AdminRole).First(admin).Error; err != nil {
		if database.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	updates := map[string]any{}
	if email != "" {
		if err := s.validate.Var(email, "required,email"); err != nil {
			return ErrInvalidEmail
		}
		if err := s.checkEmailFree(email, admin.OId); err != nil {
			return err
		}
		updates["user_email"] = email
	}
	if password != "" {
		hashed, err := crypto.HashPasswordAsBcrypt(password)
		if err != nil {
			return err
		}
		updates["user_password"] = hashed
	}
	err := s.db.Model(model.User{}).Where("o_id = ?", admin.OId).Updates(updates).Error
	return uniqueEmailError(err)
}

// uniqueEmailError turns a unique index violation into ErrDuplicatedEmail.
// checkEmailFree catches the common case; this covers a concurrent insert.
func uniqueEmailError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatedEmail
	}
	return err
}

func (s *UserMgmtService) getUser(id string) (*model.User, error) {
	user := &model.User{}
	err := s.db.Model(model.User{}).Where("o_id = ?", id).First(user).Error
	if database.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserMgmtService) checkNameAndEmail(form *entity.UserForm) (name string, email string, err error) {
	name = strings.TrimSpace(form.UserName)
	if n := utf8.RuneCountInString(name); n < minUserNameLength || n > maxUserNameLength {
		return "", "", ErrInvalidUserName
	}
	email = strings.ToLower(strings.TrimSpace(form.UserEmail))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", "", ErrInvalidEmail
	}
	return name, email, nil
}

func (s *UserMgmtService) checkURLs(urls ...string) error {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := s.validate.Var(u, "url"); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidURL, u)
		}
	}
	return nil
}

// checkEmailFree fails with ErrDuplicatedEmail when another user than exceptID
// already uses email.
func (s *UserMgmtService) checkEmailFree(email string, exceptID string) error {
	var count int64
	query := s.db.Model(model.User{}).Where("user_email = ?", email)
	if exceptID != "" {
		query = query.Where("o_id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicatedEmail
	}
	return nil
}
