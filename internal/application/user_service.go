package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-tracker-api/internal/domain/entity"
	repo "github.com/oksasatya/job-tracker-api/internal/domain/repository"
	"github.com/oksasatya/job-tracker-api/pkg/apperror"
	"github.com/oksasatya/job-tracker-api/pkg/helpers"
)

const (
	MsgProvideAllValues     = "Please provide all values"
	MsgUsernameSpaces       = "Username cannot contain empty spaces in the middle"
	MsgVerifyFirst          = "Please Verify Your Email First"
	MsgInvalidCredentials   = "Invalid Credentials"
	MsgUserNotFound         = "User not found"
	MsgInvalidVerification  = "Invalid or expired verification token"
	MsgAlreadyVerified      = "This email is already verified"
	MsgInvalidCurrentPass   = "Invalid current password"
	MsgInvalidOldPassword   = "Invalid old password"
	MsgSamePassword         = "New password cannot be the same as the old password"
	MsgPasswordMismatch     = "New password and confirm password do not match"
	MsgInvalidResetToken    = "Invalid or expired reset token, try to forgot password again"
	MsgCurrentPassRequired  = "Current password is required to set a new password"
	MsgRegisterRoleRejected = "Only the User role can be registered"
	MsgValueTooLong         = "One of the provided values is too long"

	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MaxProfileLength  = 20

	// one-time tokens are 20 random bytes, hex encoded
	oneTimeTokenBytes = 20
)

type UserServiceConfig struct {
	// BackendURL prefixes email verification links.
	BackendURL string
	// FrontendURL prefixes password reset links.
	FrontendURL    string
	VerifyTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

type UserService struct {
	Users        repo.UserRepository
	Jobs         repo.JobRepository
	VerifyTokens repo.VerificationTokenRepository
	ResetTokens  repo.PasswordResetRepository
	Tx           repo.TxManager
	Hasher       PasswordHasher
	Tokens       TokenIssuer
	Notifier     Notifier
	Images       ImageStore
	Indexer      UserIndexer
	Logger       logrus.FieldLogger
	Cfg          UserServiceConfig

	now      func() time.Time
	genToken func(n int) (string, error)
}

type UserServiceDeps struct {
	Users        repo.UserRepository
	Jobs         repo.JobRepository
	VerifyTokens repo.VerificationTokenRepository
	ResetTokens  repo.PasswordResetRepository
	Tx           repo.TxManager
	Hasher       PasswordHasher
	Tokens       TokenIssuer
	Notifier     Notifier
	Images       ImageStore
	Indexer      UserIndexer
	Logger       logrus.FieldLogger
}

func NewUserService(d UserServiceDeps, cfg UserServiceConfig) *UserService {
	if cfg.VerifyTokenTTL <= 0 {
		cfg.VerifyTokenTTL = time.Hour
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 3 * time.Minute
	}
	n := d.Notifier
	if n == nil {
		n = noopNotifier{}
	}
	return &UserService{
		Users:        d.Users,
		Jobs:         d.Jobs,
		VerifyTokens: d.VerifyTokens,
		ResetTokens:  d.ResetTokens,
		Tx:           d.Tx,
		Hasher:       d.Hasher,
		Tokens:       d.Tokens,
		Notifier:     n,
		Images:       d.Images,
		Indexer:      d.Indexer,
		Logger:       d.Logger,
		Cfg:          cfg,
		now:          time.Now,
		genToken:     helpers.GenRandomToken,
	}
}

func displayName(u *entity.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

func validateUsername(username string) error {
	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return apperror.BadRequest(MsgUsernameSpaces)
	}
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		return apperror.BadRequest(fmt.Sprintf("Username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength))
	}
	return nil
}

// validateProfile checks the optional name and location fields.
func validateProfile(firstName, lastName, location string) error {
	for _, f := range []struct{ label, value string }{
		{"First name", firstName},
		{"Last name", lastName},
		{"Location", location},
	} {
		if utf8.RuneCountInString(f.value) > MaxProfileLength {
			return apperror.BadRequest(fmt.Sprintf("%s must be at most %d characters", f.label, MaxProfileLength))
		}
	}
	return nil
}

func validatePassword(pw string) error {
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		return apperror.BadRequest(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	return nil
}

func (s *UserService) ensureUnique(ctx context.Context, username, email, excludeID string) error {
	if email != "" {
		taken, err := s.Users.ExistsByEmail(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return apperror.BadRequest(fmt.Sprintf("A user with the Email: '%s' already exists", email))
		}
	}
	if username != "" {
		taken, err := s.Users.ExistsByUsername(ctx, username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return apperror.BadRequest(fmt.Sprintf("A user with username: '%s' already exists", username))
		}
	}
	return nil
}

func (s *UserService) verificationLink(userID, token string) string {
	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("token", token)
	return strings.TrimRight(s.Cfg.BackendURL, "/") + "/api/v1/users/verify?" + q.Encode()
}

func (s *UserService) resetLink(token string) string {
	return strings.TrimRight(s.Cfg.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

// issueVerification replaces the user's verification token. It must run
// inside the caller's transaction.
func (s *UserService) issueVerification(ctx context.Context, userID string) (*entity.EmailVerificationToken, error) {
	tok, err := s.genToken(oneTimeTokenBytes)
	if err != nil {
		return nil, err
	}
	now := s.now()
	t := &entity.EmailVerificationToken{
		UserID:    userID,
		Token:     tok,
		CreatedAt: now,
		ExpiresAt: now.Add(s.Cfg.VerifyTokenTTL),
	}
	if err := s.VerifyTokens.Upsert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *UserService) index(ctx context.Context, u *entity.User) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("search index update failed")
	}
}

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email" binding:"omitempty,email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Location  string `json:"location"`
}

// AuthResult is a user together with a freshly issued session token.
type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// Register creates an unverified account and queues the verification email.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, apperror.BadRequest(MsgProvideAllValues)
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if err := validateProfile(strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), strings.TrimSpace(in.Location)); err != nil {
		return nil, err
	}
	if r := strings.TrimSpace(in.Role); r != "" && entity.Role(r) != entity.RoleUser {
		return nil, apperror.BadRequest(MsgRegisterRoleRejected)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = entity.DefaultUserLocation
	}
	u := &entity.User{
		Username:   username,
		Email:      email,
		Password:   hash,
		Role:       entity.RoleUser,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Location:   location,
		Slug:       strings.ToLower(username),
		IsVerified: false,
	}

	var vt *entity.EmailVerificationToken
	err = s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureUnique(ctx, username, email, ""); err != nil {
			return err
		}
		if err := s.Users.Create(ctx, u); err != nil {
			return err
		}
		var err error
		vt, err = s.issueVerification(ctx, u.ID)
		return err
	})
	if err != nil {
		return nil, translate(err, MsgUserNotFound)
	}

	s.Notifier.SendVerification(displayName(u), u.Email, s.verificationLink(u.ID, vt.Token), s.Cfg.VerifyTokenTTL)
	s.Notifier.SendAdminNotice("New user registration", u.Username, u.Email, map[string]string{
		"Location": u.Location,
		"Role":     string(u.Role),
	})
	s.index(ctx, u)

	token, exp, err := s.Tokens.Issue(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}

// Login accepts either the email or the username as identifier.
func (s *UserService) Login(ctx context.Context, usernameOrEmail, password string) (*AuthResult, error) {
	ident := strings.TrimSpace(usernameOrEmail)
	if ident == "" || password == "" {
		return nil, apperror.BadRequest("Both email/username and password are required")
	}
	u, err := s.Users.GetByEmail(ctx, ident)
	if errors.Is(err, repo.ErrNotFound) {
		u, err = s.Users.GetByUsername(ctx, ident)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.Unauthenticated(MsgInvalidCredentials)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !s.Hasher.Compare(u.Password, password) {
		return nil, apperror.Unauthenticated(MsgInvalidCredentials)
	}
	if !u.IsVerified {
		return nil, apperror.Unauthenticated(MsgVerifyFirst)
	}
	token, exp, err := s.Tokens.Issue(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}

// consumeVerification checks the presented token and marks the user verified.
func (s *UserService) consumeVerification(ctx context.Context, userID, token string, rejectVerified bool) (*entity.User, error) {
	token = strings.TrimSpace(token)
	if userID == "" || token == "" {
		return nil, apperror.BadRequest(MsgInvalidVerification)
	}
	var verified *entity.User
	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u, err := s.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if rejectVerified && u.IsVerified {
			return apperror.BadRequest(MsgAlreadyVerified)
		}
		vt, err := s.VerifyTokens.GetByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.BadRequest(MsgInvalidVerification)
		}
		if err != nil {
			return err
		}
		if vt.Token != token || vt.Expired(s.now()) {
			return apperror.BadRequest(MsgInvalidVerification)
		}
		if err := s.Users.SetVerified(ctx, userID); err != nil {
			return err
		}
		if err := s.VerifyTokens.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		u.IsVerified = true
		verified = u
		return nil
	})
	if err != nil {
		return nil, translate(err, MsgUserNotFound)
	}
	s.Notifier.SendWelcome(displayName(verified), verified.Email)
	s.index(ctx, verified)
	return verified, nil
}

// VerifyEmailLink redeems the token from the emailed link.
func (s *UserService) VerifyEmailLink(ctx context.Context, userID, token string) error {
	_, err := s.consumeVerification(ctx, userID, token, false)
	return err
}

// VerifyEmailCode redeems the same token typed in by the user.
func (s *UserService) VerifyEmailCode(ctx context.Context, userID, code string) (*entity.User, error) {
	return s.consumeVerification(ctx, userID, code, true)
}

func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperror.BadRequest(MsgProvideAllValues)
	}
	var (
		u  *entity.User
		vt *entity.EmailVerificationToken
	)
	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		u, err = s.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u.IsVerified {
			return apperror.BadRequest(MsgAlreadyVerified)
		}
		vt, err = s.issueVerification(ctx, u.ID)
		return err
	})
	if err != nil {
		return translate(err, MsgUserNotFound)
	}
	s.Notifier.SendVerification(displayName(u), u.Email, s.verificationLink(u.ID, vt.Token), s.Cfg.VerifyTokenTTL)
	return nil
}

type UpdateUserInput struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email" binding:"omitempty,email"`
	FirstName       string `form:"firstName" json:"firstName"`
	LastName        string `form:"lastName" json:"lastName"`
	Location        string `form:"location" json:"location"`
	CurrentPassword string `form:"currentPassword" json:"currentPassword"`
	NewPassword     string `form:"newPassword" json:"newPassword"`
}

// Update changes the caller's own profile. A new image replaces the stored
// one; the previous object is removed after the change is committed.
func (s *UserService) Update(ctx context.Context, id Identity, userID string, in UpdateUserInput, img *Image) (*entity.User, error) {
	if err := CheckPermissions(id.UserID, userID); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, MsgUserNotFound)
	}

	username := strings.TrimSpace(in.Username)
	if username != "" {
		if err := validateUsername(username); err != nil {
			return nil, err
		}
	}
	if err := validateProfile(strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), strings.TrimSpace(in.Location)); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(in.Email)
	if strings.EqualFold(email, u.Email) {
		email = ""
	}
	if in.CurrentPassword != "" && !s.Hasher.Compare(u.Password, in.CurrentPassword) {
		return nil, apperror.BadRequest(MsgInvalidCurrentPass)
	}
	var newHash string
	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return nil, apperror.BadRequest(MsgCurrentPassRequired)
		}
		if err := validatePassword(in.NewPassword); err != nil {
			return nil, err
		}
		if newHash, err = s.Hasher.Hash(in.NewPassword); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	oldObject := ""
	if img != nil {
		if s.Images == nil {
			return nil, apperror.BadRequest("Image upload is not available")
		}
		imgURL, objectID, err := s.Images.Upload(ctx, u.ID, img.Filename, img.ContentType, img.Reader)
		if err != nil {
			var ae *apperror.Error
			if errors.As(err, &ae) {
				return nil, err
			}
			return nil, apperror.New(apperror.KindInternal, "Error uploading image", err)
		}
		oldObject = u.ImgProfileID
		u.ImgProfile, u.ImgProfileID = imgURL, objectID
	}

	if username != "" {
		u.Username = username
		u.Slug = strings.ToLower(username)
	}
	if email != "" {
		// a new address must be verified again
		u.Email = email
		u.IsVerified = false
	}
	if v := strings.TrimSpace(in.FirstName); v != "" {
		u.FirstName = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		u.LastName = v
	}
	if v := strings.TrimSpace(in.Location); v != "" {
		u.Location = v
	}
	if newHash != "" {
		u.Password = newHash
	}
	u.UpdatedBy = id.UserID

	var vt *entity.EmailVerificationToken
	err = s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureUnique(ctx, username, email, u.ID); err != nil {
			return err
		}
		if err := s.Users.Update(ctx, u); err != nil {
			return err
		}
		if email == "" {
			return nil
		}
		var err error
		vt, err = s.issueVerification(ctx, u.ID)
		return err
	})
	if err != nil {
		if img != nil {
			s.removeImage(ctx, u.ImgProfileID)
		}
		return nil, translate(err, MsgUserNotFound)
	}
	if oldObject != "" {
		s.removeImage(ctx, oldObject)
	}
	if vt != nil {
		s.Notifier.SendVerification(displayName(u), u.Email, s.verificationLink(u.ID, vt.Token), s.Cfg.VerifyTokenTTL)
	}

	s.index(ctx, u)
	s.Notifier.SendAdminNotice("User profile updated", u.Username, u.Email, map[string]string{
		"First name": u.FirstName,
		"Last name":  u.LastName,
		"Location":   u.Location,
		"Role":       string(u.Role),
	})
	return u, nil
}

func (s *UserService) removeImage(ctx context.Context, objectID string) {
	if objectID == "" || s.Images == nil {
		return
	}
	if err := s.Images.Delete(ctx, objectID); err != nil {
		s.Logger.WithError(err).WithField("object", objectID).Warn("delete profile image failed")
	}
}

type UpdatePasswordInput struct {
	UserID          string `json:"user_id"`
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UpdatePassword lets a user, or an admin on their behalf, change a password.
func (s *UserService) UpdatePassword(ctx context.Context, id Identity, in UpdatePasswordInput) error {
	userID := in.UserID
	if userID == "" {
		userID = id.UserID
	}
	if !id.IsAdmin() {
		if err := CheckPermissions(id.UserID, userID); err != nil {
			return err
		}
	}
	if in.OldPassword == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return apperror.BadRequest(MsgProvideAllValues)
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return translate(err, MsgUserNotFound)
	}
	if !s.Hasher.Compare(u.Password, in.OldPassword) {
		return apperror.BadRequest(MsgInvalidOldPassword)
	}
	if in.NewPassword == in.OldPassword {
		return apperror.BadRequest(MsgSamePassword)
	}
	if in.NewPassword != in.ConfirmPassword {
		return apperror.BadRequest(MsgPasswordMismatch)
	}
	if err := validatePassword(in.NewPassword); err != nil {
		return err
	}
	hash, err := s.Hasher.Hash(in.NewPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	err = s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.Users.UpdatePassword(ctx, u.ID, hash, id.UserID)
	})
	if err != nil {
		return translate(err, MsgUserNotFound)
	}
	s.Notifier.SendAdminNotice("User changed password", u.Username, u.Email, nil)
	return nil
}

// Delete soft-deletes the caller. Their jobs are left in place.
func (s *UserService) Delete(ctx context.Context, id Identity) error {
	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.Users.SoftDelete(ctx, id.UserID, id.UserID, s.now())
	})
	if err != nil {
		return translate(err, MsgUserNotFound)
	}
	if s.Indexer != nil {
		if err := s.Indexer.Remove(ctx, id.UserID); err != nil {
			s.Logger.WithError(err).WithField("user_id", id.UserID).Warn("search index delete failed")
		}
	}
	s.Logger.WithField("user_id", id.UserID).Info("user soft-deleted")
	return nil
}

func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperror.BadRequest(MsgProvideAllValues)
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return translate(err, MsgUserNotFound)
	}
	tok, err := s.genToken(oneTimeTokenBytes)
	if err != nil {
		return apperror.Internal(err)
	}
	now := s.now()
	t := &entity.PasswordResetToken{
		UserID:    u.ID,
		Token:     tok,
		CreatedAt: now,
		ExpiresAt: now.Add(s.Cfg.ResetTokenTTL),
	}
	err = s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.ResetTokens.Create(ctx, t)
	})
	if err != nil {
		return translate(err, MsgUserNotFound)
	}
	s.Notifier.SendPasswordReset(displayName(u), u.Email, s.resetLink(tok), s.Cfg.ResetTokenTTL)
	return nil
}

// ResetPassword redeems a single-use reset token.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	token = strings.TrimSpace(token)
	var u *entity.User
	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if token == "" {
			return apperror.NotFound(MsgInvalidResetToken)
		}
		t, err := s.ResetTokens.GetByToken(ctx, token)
		if errors.Is(err, repo.ErrNotFound) || (err == nil && t.Expired(s.now())) {
			return apperror.NotFound(MsgInvalidResetToken)
		}
		if err != nil {
			return err
		}
		if newPassword != confirmPassword {
			return apperror.BadRequest(MsgPasswordMismatch)
		}
		if err := validatePassword(newPassword); err != nil {
			return err
		}
		u, err = s.Users.GetByID(ctx, t.UserID)
		if err != nil {
			return err
		}
		hash, err := s.Hasher.Hash(newPassword)
		if err != nil {
			return err
		}
		if err := s.Users.UpdatePassword(ctx, u.ID, hash, u.ID); err != nil {
			return err
		}
		return s.ResetTokens.DeleteByToken(ctx, token)
	})
	if err != nil {
		return translate(err, MsgUserNotFound)
	}
	s.Notifier.SendAdminNotice("User reset password", u.Username, u.Email, nil)
	return nil
}

func (s *UserService) Info(ctx context.Context, id Identity) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, translate(err, MsgUserNotFound)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*entity.User, error) {
	users, err := s.Users.List(ctx, "")
	if err != nil {
		return nil, translate(err, MsgUserNotFound)
	}
	return users, nil
}

func (s *UserService) Detail(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, MsgUserNotFound)
	}
	return u, nil
}

// FindByUsername and FindByEmail never return admins.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, strings.TrimSpace(username))
	return nonAdmin(u, err)
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	return nonAdmin(u, err)
}

func nonAdmin(u *entity.User, err error) (*entity.User, error) {
	if err != nil {
		return nil, translate(err, MsgUserNotFound)
	}
	if u.Role == entity.RoleAdmin {
		return nil, apperror.NotFound(MsgUserNotFound)
	}
	return u, nil
}

// Search queries the user index; admins only.
func (s *UserService) Search(ctx context.Context, id Identity, q string, size int) ([]map[string]any, error) {
	if err := RequireAdmin(id); err != nil {
		return nil, err
	}
	if s.Indexer == nil || strings.TrimSpace(q) == "" {
		return []map[string]any{}, nil
	}
	hits, err := s.Indexer.Search(ctx, strings.TrimSpace(q), size)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return hits, nil
}

type AdminStats struct {
	Users        int64                `json:"users"`
	Jobs         int64                `json:"jobs"`
	Pending      int64                `json:"Pending"`
	Declined     int64                `json:"Declined"`
	Interview    int64                `json:"Interview"`
	Technical    int64                `json:"technical"`
	Accepted     int64                `json:"Accepted"`
	UserList     []entity.UserSummary `json:"userList"`
	StatusCounts map[string]int64     `json:"statusCounts"`
}

// AdminStats summarises live User-role accounts and all live jobs.
func (s *UserService) AdminStats(ctx context.Context, id Identity) (*AdminStats, error) {
	if err := RequireAdmin(id); err != nil {
		return nil, err
	}
	count, err := s.Users.CountByRole(ctx, entity.RoleUser)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	users, err := s.Users.List(ctx, entity.RoleUser)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	rows, err := s.Jobs.CountByStatus(ctx, "")
	if err != nil {
		return nil, apperror.Internal(err)
	}

	out := &AdminStats{
		Users:        count,
		UserList:     make([]entity.UserSummary, 0, len(users)),
		StatusCounts: make(map[string]int64, len(entity.JobStatuses)),
	}
	for _, u := range users {
		out.UserList = append(out.UserList, u.Summary())
	}
	for _, st := range entity.JobStatuses {
		out.StatusCounts[string(st)] = 0
	}
	for _, r := range rows {
		out.Jobs += r.Count
		if _, ok := out.StatusCounts[string(r.Status)]; ok {
			out.StatusCounts[string(r.Status)] = r.Count
		}
	}
	b := bucketsFrom(rows)
	out.Pending, out.Interview, out.Technical, out.Declined, out.Accepted =
		b.Pending, b.Interview, b.Technical, b.Declined, b.Accepted
	return out, nil
}

// PurgeExpiredTokens removes expired verification and reset tokens.
func (s *UserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	now := s.now()
	a, err := s.VerifyTokens.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	b, err := s.ResetTokens.DeleteExpired(ctx, now)
	if err != nil {
		return a, err
	}
	return a + b, nil
}
