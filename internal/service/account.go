package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"docexchange/internal/auth"
	"docexchange/internal/errs"
	"docexchange/internal/mail"
	"docexchange/internal/model"
	"docexchange/internal/repository"
)

// AccountService defines registration, verification and login.
type AccountService interface {
	// RegisterOps creates an active ops user.
	RegisterOps(ctx context.Context, in RegisterInput) (*model.User, error)

	// RegisterClient creates an inactive client user and sends a verification
	// e-mail. Re-registering an unverified email re-sends the e-mail.
	RegisterClient(ctx context.Context, in RegisterInput) (*model.User, error)

	// Verify activates the account named by uidb64 when token is valid for it.
	Verify(ctx context.Context, uidb64, token string) error

	// Login checks credentials and returns a bearer access token.
	Login(ctx context.Context, email, password string) (string, error)

	// Authenticate resolves a bearer access token to an active user's id.
	Authenticate(ctx context.Context, token string) (int64, error)
}

type accountService struct {
	users   repository.UserRepository
	tokens  *auth.TokenIssuer
	mailer  mail.Mailer
	baseURL string
	log     zerolog.Logger
}

// NewAccountService constructs an AccountService. baseURL prefixes verification links.
func NewAccountService(users repository.UserRepository, tokens *auth.TokenIssuer, mailer mail.Mailer, baseURL string, log zerolog.Logger) AccountService {
	return &accountService{
		users:   users,
		tokens:  tokens,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

func (s *accountService) RegisterOps(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := ValidateRegister(in); err != nil {
		return nil, err
	}
	return s.create(ctx, in, model.RoleOps, true)
}

func (s *accountService) RegisterClient(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := ValidateRegister(in); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		if u, err = s.create(ctx, in, model.RoleClient, false); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	case u.IsActive:
		return nil, errs.NewFieldError(errs.ErrAlreadyVerified, "error", MsgAlreadyVerified)
	}

	s.sendVerification(ctx, u)
	return u, nil
}

func (s *accountService) create(ctx context.Context, in RegisterInput, role model.Role, active bool) (*model.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, &model.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     active,
		Role:         role,
	})
}

// sendVerification delivers the activation link. Delivery failures are logged;
// registering again re-sends the link.
func (s *accountService) sendVerification(ctx context.Context, u *model.User) {
	token, err := s.tokens.IssueVerification(u)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", u.ID).Msg("issue verification token")
		return
	}
	link := fmt.Sprintf("%s/verify/%s/%s", s.baseURL, auth.EncodeUID(u.ID), token)
	msg := mail.Message{
		To:      u.Email,
		Subject: "Email Verification",
		Body:    "Click the following link to verify your email: " + link,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Int64("user_id", u.ID).Str("event", "verification_mail_failed").Msg("send verification mail")
	}
}

func (s *accountService) Verify(ctx context.Context, uidb64, token string) error {
	uid, err := auth.DecodeUID(uidb64)
	if err != nil {
		return err
	}
	id, err := s.tokens.ParseVerification(token)
	if err != nil {
		return err
	}
	if id != uid {
		return errs.ErrInvalidToken
	}

	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if u.IsActive {
		return nil
	}
	if err := s.users.Activate(ctx, id); err != nil {
		return fmt.Errorf("activate user: %w", err)
	}
	return nil
}

func (s *accountService) Login(ctx context.Context, email, password string) (string, error) {
	invalid := errs.NewFieldError(errs.ErrInvalidCredentials, "non_field_errors", MsgInvalidCredential)

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, errs.ErrNotFound) {
		return "", invalid
	}
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if !u.IsActive || !auth.CheckPassword(u.PasswordHash, password) {
		return "", invalid
	}

	if err := s.users.TouchLastLogin(ctx, u.ID); err != nil {
		return "", fmt.Errorf("record login: %w", err)
	}
	return s.tokens.IssueAccess(u)
}

func (s *accountService) Authenticate(ctx context.Context, token string) (int64, error) {
	id, err := s.tokens.ParseAccess(token)
	if err != nil {
		return 0, err
	}
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return 0, errs.ErrUnauthenticated
	}
	if err != nil {
		return 0, fmt.Errorf("find user: %w", err)
	}
	if !u.IsActive {
		return 0, errs.ErrUnauthenticated
	}
	return u.ID, nil
}
