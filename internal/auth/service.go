package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials covers both "no such account" and "wrong
	// password". The two must stay indistinguishable to resist account
	// enumeration.
	ErrInvalidCredentials = errors.New("usuario o contraseña incorrectos")
	// ErrAccountDisabled is deliberately more specific: by the time the
	// status is checked, existence is already implied, but password
	// correctness is still not disclosed.
	ErrAccountDisabled = errors.New("la cuenta está desactivada, contacte al administrador")
	// ErrEmailNotFound is returned by the reset request flow. Unlike login,
	// this flow discloses non-existence; the asymmetry is a deliberate UX
	// tradeoff carried over from the legacy behavior.
	ErrEmailNotFound = errors.New("no existe una cuenta con ese correo")
	// ErrResetTokenInvalid covers unknown, expired and already-consumed
	// tokens alike.
	ErrResetTokenInvalid = errors.New("el enlace de recuperación es inválido o ha expirado")
)

// Mailer sends transactional mail. Satisfied by config.EmailService.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// dummyHash gives the unknown-identifier path the same bcrypt cost as a real
// credential check, so response timing does not disclose account existence.
var dummyHash = func() string {
	h, _ := HashPassword(uuid.NewString())
	return h
}()

// AuthService is the authentication engine: credential resolution, the
// layered login check, session issuance, and the password reset protocol.
type AuthService struct {
	repo     CredentialRepository
	sessions *SessionStore
	resets   *ResetTokenStore
	mailer   Mailer
}

func NewAuthService(repo CredentialRepository, sessions *SessionStore, resets *ResetTokenStore, mailer Mailer) *AuthService {
	return &AuthService{repo: repo, sessions: sessions, resets: resets, mailer: mailer}
}

// lookupByIdentifier classifies the credential as email or ficha and resolves
// the account by exactly that field.
func (s *AuthService) lookupByIdentifier(ctx context.Context, identifier string) (*Account, error) {
	if strings.Contains(identifier, "@") {
		if _, err := mail.ParseAddress(identifier); err == nil {
			return s.repo.FindByEmail(ctx, identifier)
		}
	}
	return s.repo.FindByFicha(ctx, identifier)
}

// Authenticate performs the three-layer login check: existence, status,
// password. Status is checked before the password on purpose so a disabled
// account always gets the actionable message, while unknown identifier and
// wrong password collapse into one.
func (s *AuthService) Authenticate(ctx context.Context, cred Credential) (*Session, error) {
	account, err := s.lookupByIdentifier(ctx, strings.TrimSpace(cred.Identifier))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			CheckPasswordHash(cred.Password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !account.Active {
		return nil, ErrAccountDisabled
	}

	if !CheckPasswordHash(cred.Password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.sessions.Create(ctx, account.ID, account.Role, cred.Remember)
}

// IssueSession creates a session outside the login flow (auto-login after
// public registration).
func (s *AuthService) IssueSession(ctx context.Context, accountID int64, role Role) (*Session, error) {
	return s.sessions.Create(ctx, accountID, role, false)
}

// GetSession resolves a live session by ID.
func (s *AuthService) GetSession(ctx context.Context, id string) (*Session, error) {
	return s.sessions.Get(ctx, id)
}

// RegenerateSession rotates the session ID after a privilege-relevant
// transition.
func (s *AuthService) RegenerateSession(ctx context.Context, id string) (*Session, error) {
	return s.sessions.Regenerate(ctx, id)
}

// Logout invalidates the session. Idempotent; unknown sessions are fine.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Invalidate(ctx, sessionID)
}

// RequestPasswordReset issues a single-use token bound to the email and
// dispatches it. A missing account yields ErrEmailNotFound.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrEmailNotFound
		}
		return err
	}

	token, err := s.resets.Issue(ctx, account.Email)
	if err != nil {
		return err
	}

	subject := "Recuperación de contraseña"
	body := fmt.Sprintf("Use el siguiente código para restablecer su contraseña: %s<br>El código expira en 60 minutos.", token)
	if err := s.mailer.SendEmail(account.Email, subject, body); err != nil {
		log.Println("Failed to send reset email:", err)
		return errors.New("no fue posible enviar el correo de recuperación")
	}
	return nil
}

// ResetPassword redeems the token, replaces the stored hash, and kills every
// outstanding session of the account, including remember-me ones. The token
// is single-use: a second redeem fails with ErrResetTokenInvalid.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	ok, err := s.resets.Consume(ctx, email, token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrResetTokenInvalid
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return err
	}
	if err := s.sessions.InvalidateAccount(ctx, account.ID); err != nil {
		return err
	}

	// Fire-and-forget: the reset already succeeded, the notice must not
	// block or fail the request.
	go func() {
		subject := "Su contraseña fue restablecida"
		body := "La contraseña de su cuenta PICADE fue restablecida. Si no fue usted, contacte al administrador."
		if err := s.mailer.SendEmail(account.Email, subject, body); err != nil {
			log.Println("Failed to send password-reset notice:", err)
		}
	}()
	return nil
}
