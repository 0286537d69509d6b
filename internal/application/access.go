package application

import (
	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
	"github.com/oksasatya/job-tracker-api/pkg/apperror"
)

const (
	MsgNotAuthorized = "Not Authorized to Access This Route"
	MsgAdminOnly     = "You must be Admin to access this"
	MsgDemoUser      = "Demo User Cannot Access This Request"
)

// Identity is the authenticated caller resolved from a session token.
type Identity struct {
	UserID string
	Email  string
	Role   entity.Role
	IsDemo bool
}

func (i Identity) IsAdmin() bool { return i.Role == entity.RoleAdmin }

// NewIdentity builds the identity of a live user. demoEmail is compared exactly.
func NewIdentity(u *entity.User, demoEmail string) Identity {
	return Identity{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		IsDemo: demoEmail != "" && u.Email == demoEmail,
	}
}

// CheckPermissions fails with Unauthenticated unless actor owns the resource.
func CheckPermissions(actorID, ownerID string) error {
	if actorID == "" || actorID != ownerID {
		return apperror.Unauthenticated(MsgNotAuthorized)
	}
	return nil
}

// CanRead allows owners and admins.
func CanRead(id Identity, ownerID string) bool {
	return id.IsAdmin() || (id.UserID != "" && id.UserID == ownerID)
}

// RequireAdmin fails with Unauthenticated for non-admins.
func RequireAdmin(id Identity) error {
	if !id.IsAdmin() {
		return apperror.Unauthenticated(MsgAdminOnly)
	}
	return nil
}

// RejectDemo fails with BadRequest for the demo account.
func RejectDemo(id Identity) error {
	if id.IsDemo {
		return apperror.BadRequest(MsgDemoUser)
	}
	return nil
}
