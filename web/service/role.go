package service

import "github.com/solo-blog/console/database/model"

// DecideRole picks the role of a user about to be created.
//
// An admin creating a user always gets an author (defaultRole), whatever the
// registration preference says. Anyone else is registering themselves: that is
// rejected with ErrRegisterNotAllowed unless allowRegister is set, in which case
// the new user is a visitor who can not post.
func DecideRole(isAdmin, allowRegister bool) (model.Role, error) {
	if isAdmin {
		return model.DefaultRole, nil
	}
	if !allowRegister {
		return "", ErrRegisterNotAllowed
	}
	return model.VisitorRole, nil
}
