package personnel

import (
	"context"
	"errors"
	"time"

	"PicadeBackend/internal/alerts"
	"PicadeBackend/internal/auth"
)

// ErrNoCredentialChanges is the local fast-fail when neither a new email nor
// a new password was provided. No authoritative call is made.
var ErrNoCredentialChanges = errors.New("debe indicar un nuevo correo o una nueva contraseña")

// ErrWrongCurrentPassword gates every credential change. The authoritative
// layer only ever sees hashed material, so the plaintext check happens here.
var ErrWrongCurrentPassword = errors.New("la contraseña actual es incorrecta")

// ErrInvalidDate guards callers that bypass request validation.
var ErrInvalidDate = errors.New("fecha inválida, use el formato AAAA-MM-DD")

const dateLayout = "2006-01-02"

// LifecycleService orchestrates the account lifecycle operations. It hashes
// passwords locally, shapes inputs for the authoritative layer, and converts
// tagged failures into classified LifecycleErrors.
type LifecycleService struct {
	repo        Repository
	credentials auth.CredentialRepository
	authService *auth.AuthService
}

func NewLifecycleService(repo Repository, credentials auth.CredentialRepository, authService *auth.AuthService) *LifecycleService {
	return &LifecycleService{repo: repo, credentials: credentials, authService: authService}
}

// lifecycleFailure converts an authoritative failure into the classified,
// presentation-safe form. Unparseable errors get the generic fallback.
func lifecycleFailure(err error) *LifecycleError {
	message := alerts.Parse(err.Error())
	return &LifecycleError{Message: message, Severity: alerts.Classify(message)}
}

func parseDates(birth, hire string) (time.Time, time.Time, error) {
	b, err := time.Parse(dateLayout, birth)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	h, err := time.Parse(dateLayout, hire)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	return b, h, nil
}

// RegisterPublic creates a Participant account and logs it in on success.
// The password is hashed before anything leaves the process.
func (s *LifecycleService) RegisterPublic(ctx context.Context, req PublicRegisterRequest) (int64, *auth.Session, error) {
	birth, hire, err := parseDates(req.BirthDate, req.HireDate)
	if err != nil {
		return 0, nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return 0, nil, err
	}

	id, err := s.repo.RegisterPublic(ctx, RegisterPublicParams{
		Ficha:           req.Ficha,
		Email:           req.Email,
		PasswordHash:    hash,
		Name:            req.Name,
		PaternalSurname: req.PaternalSurname,
		MaternalSurname: req.MaternalSurname,
		BirthDate:       birth,
		HireDate:        hire,
	})
	if err != nil {
		return 0, nil, lifecycleFailure(err)
	}

	session, err := s.authService.IssueSession(ctx, id, auth.RoleParticipant)
	if err != nil {
		return id, nil, err
	}
	return id, session, nil
}

// RegisterByAdmin creates an account with an explicit role and the full
// organizational assignment. The actor is recorded for the audit trail.
func (s *LifecycleService) RegisterByAdmin(ctx context.Context, actorID int64, req AdminCreateRequest) (int64, error) {
	birth, hire, err := parseDates(req.BirthDate, req.HireDate)
	if err != nil {
		return 0, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.RegisterByAdmin(ctx, RegisterByAdminParams{
		ActorID:          actorID,
		Ficha:            req.Ficha,
		PhotoURL:         req.PhotoURL,
		Name:             req.Name,
		PaternalSurname:  req.PaternalSurname,
		MaternalSurname:  req.MaternalSurname,
		BirthDate:        birth,
		HireDate:         hire,
		Email:            req.Email,
		PasswordHash:     hash,
		RoleID:           req.RoleID,
		RegimeID:         req.RegimeID,
		PositionID:       req.PositionID,
		WorkCenterID:     req.WorkCenterID,
		DepartmentID:     req.DepartmentID,
		RegionID:         req.RegionID,
		ManagementUnitID: req.ManagementUnitID,
		Level:            req.Level,
	})
	if err != nil {
		return 0, lifecycleFailure(err)
	}
	return id, nil
}

// UpdateByAdmin edits any account. An absent password means "preserve the
// stored hash": the sentinel is SQL NULL, never an empty string.
func (s *LifecycleService) UpdateByAdmin(ctx context.Context, actorID, targetID int64, req AdminUpdateRequest) (*UpdateResult, error) {
	birth, hire, err := parseDates(req.BirthDate, req.HireDate)
	if err != nil {
		return nil, err
	}
	var passwordHash *string
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hash
	}

	result, err := s.repo.UpdateByAdmin(ctx, UpdateByAdminParams{
		ActorID:          actorID,
		TargetID:         targetID,
		Name:             req.Name,
		PaternalSurname:  req.PaternalSurname,
		MaternalSurname:  req.MaternalSurname,
		BirthDate:        birth,
		HireDate:         hire,
		Email:            req.Email,
		PasswordHash:     passwordHash,
		RoleID:           req.RoleID,
		RegimeID:         req.RegimeID,
		PositionID:       req.PositionID,
		WorkCenterID:     req.WorkCenterID,
		DepartmentID:     req.DepartmentID,
		RegionID:         req.RegionID,
		ManagementUnitID: req.ManagementUnitID,
		Level:            req.Level,
	})
	if err != nil {
		return nil, lifecycleFailure(err)
	}
	return result, nil
}

// UpdateSelf edits the acting user's own profile. Email and role are not in
// the field set at all.
func (s *LifecycleService) UpdateSelf(ctx context.Context, actorID int64, req SelfUpdateRequest) (*UpdateResult, error) {
	birth, hire, err := parseDates(req.BirthDate, req.HireDate)
	if err != nil {
		return nil, err
	}
	result, err := s.repo.UpdateOwnProfile(ctx, UpdateSelfParams{
		ActorID:          actorID,
		Name:             req.Name,
		PaternalSurname:  req.PaternalSurname,
		MaternalSurname:  req.MaternalSurname,
		BirthDate:        birth,
		HireDate:         hire,
		RegimeID:         req.RegimeID,
		PositionID:       req.PositionID,
		WorkCenterID:     req.WorkCenterID,
		DepartmentID:     req.DepartmentID,
		RegionID:         req.RegionID,
		ManagementUnitID: req.ManagementUnitID,
	})
	if err != nil {
		return nil, lifecycleFailure(err)
	}
	return result, nil
}

// UpdateCredentials verifies the current password locally before anything is
// sent downstream, then updates only the provided fields.
func (s *LifecycleService) UpdateCredentials(ctx context.Context, actorID int64, req CredentialsUpdateRequest) (*UpdateResult, error) {
	if req.NewEmail == nil && req.NewPassword == nil {
		return nil, ErrNoCredentialChanges
	}

	account, err := s.credentials.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPasswordHash(req.CurrentPassword, account.PasswordHash) {
		return nil, ErrWrongCurrentPassword
	}

	var newHash *string
	if req.NewPassword != nil {
		hash, err := auth.HashPassword(*req.NewPassword)
		if err != nil {
			return nil, err
		}
		newHash = &hash
	}

	result, err := s.repo.UpdateOwnCredentials(ctx, UpdateCredentialsParams{
		ActorID:         actorID,
		NewEmail:        req.NewEmail,
		NewPasswordHash: newHash,
	})
	if err != nil {
		return nil, lifecycleFailure(err)
	}
	return result, nil
}

// SetStatus toggles Account and PersonalInfo active flags in lockstep.
// Idempotent: the authoritative layer answers NoChange when the target is
// already at the requested value.
func (s *LifecycleService) SetStatus(ctx context.Context, actorID, targetID int64, active bool) (*UpdateResult, error) {
	result, err := s.repo.SetStatus(ctx, actorID, targetID, active)
	if err != nil {
		return nil, lifecycleFailure(err)
	}
	return result, nil
}

// DeleteForensic is the hard, irreversible delete, reserved for immediate
// data-entry-error correction. Routine offboarding goes through SetStatus.
func (s *LifecycleService) DeleteForensic(ctx context.Context, actorID, targetID int64) (string, error) {
	message, err := s.repo.DeleteForensic(ctx, actorID, targetID)
	if err != nil {
		return "", lifecycleFailure(err)
	}
	return message, nil
}

func (s *LifecycleService) GetAccountFull(ctx context.Context, id int64) (*AccountFull, error) {
	account, err := s.repo.GetAccountFull(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
		return nil, lifecycleFailure(err)
	}
	return account, nil
}

func (s *LifecycleService) GetOwnProfile(ctx context.Context, id int64) (*OwnProfile, error) {
	profile, err := s.repo.GetOwnProfile(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
		return nil, lifecycleFailure(err)
	}
	return profile, nil
}
