package service

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicatedEmail    = errors.New("duplicated email")
	ErrInvalidUserName    = errors.New("invalid user name")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidURL         = errors.New("invalid url")
	ErrInvalidRole        = errors.New("invalid role")
	ErrRemoveAdmin        = errors.New("the admin can not be removed")
	ErrChangeAdminRole    = errors.New("the admin role can not be changed")
	ErrRegisterNotAllowed = errors.New("registration is not allowed")
)
