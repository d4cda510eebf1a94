package personnel

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PicadeBackend/internal/alerts"
	"PicadeBackend/internal/auth"
)

// fakeRepository mimics the authoritative contract: tagged failures for
// violations, action/message pairs for successes. Calls are recorded so tests
// can assert what never reached the data layer.
type fakeRepository struct {
	calls []string

	registerPublicID  int64
	registerByAdminID int64

	lastUpdateByAdmin UpdateByAdminParams
	lastCredentials   UpdateCredentialsParams

	statusByAccount map[int64]bool

	failWith error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		registerPublicID:  101,
		registerByAdminID: 202,
		statusByAccount:   map[int64]bool{},
	}
}

func (f *fakeRepository) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeRepository) RegisterPublic(_ context.Context, p RegisterPublicParams) (int64, error) {
	f.record("RegisterPublic")
	if f.failWith != nil {
		return 0, f.failWith
	}
	return f.registerPublicID, nil
}

func (f *fakeRepository) RegisterByAdmin(_ context.Context, p RegisterByAdminParams) (int64, error) {
	f.record("RegisterByAdmin")
	if f.failWith != nil {
		return 0, f.failWith
	}
	return f.registerByAdminID, nil
}

func (f *fakeRepository) UpdateByAdmin(_ context.Context, p UpdateByAdminParams) (*UpdateResult, error) {
	f.record("UpdateByAdmin")
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.lastUpdateByAdmin = p
	return &UpdateResult{Action: ActionUpdated, Message: "Usuario actualizado correctamente"}, nil
}

func (f *fakeRepository) UpdateOwnProfile(_ context.Context, p UpdateSelfParams) (*UpdateResult, error) {
	f.record("UpdateOwnProfile")
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &UpdateResult{Action: ActionUpdated, Message: "Perfil actualizado correctamente"}, nil
}

func (f *fakeRepository) UpdateOwnCredentials(_ context.Context, p UpdateCredentialsParams) (*UpdateResult, error) {
	f.record("UpdateOwnCredentials")
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.lastCredentials = p
	return &UpdateResult{Action: ActionUpdated, Message: "Credenciales actualizadas"}, nil
}

func (f *fakeRepository) SetStatus(_ context.Context, actorID, targetID int64, active bool) (*UpdateResult, error) {
	f.record("SetStatus")
	if f.failWith != nil {
		return nil, f.failWith
	}
	if actorID == targetID {
		return nil, errors.New("BLOQUEO [403]: No es posible desactivar la cuenta propia")
	}
	if current, ok := f.statusByAccount[targetID]; ok && current == active {
		return &UpdateResult{Action: ActionNoChange, Message: "El usuario ya se encontraba en ese estatus"}, nil
	}
	f.statusByAccount[targetID] = active
	return &UpdateResult{Action: ActionChanged, Message: "Estatus actualizado"}, nil
}

func (f *fakeRepository) DeleteForensic(_ context.Context, actorID, targetID int64) (string, error) {
	f.record("DeleteForensic")
	if f.failWith != nil {
		return "", f.failWith
	}
	if actorID == targetID {
		return "", errors.New("ACCION DENEGADA [403]: No es posible eliminar la cuenta propia")
	}
	return "Usuario eliminado permanentemente", nil
}

func (f *fakeRepository) GetAccountFull(_ context.Context, id int64) (*AccountFull, error) {
	f.record("GetAccountFull")
	if f.failWith != nil {
		return nil, f.failWith
	}
	return nil, ErrProfileNotFound
}

func (f *fakeRepository) GetOwnProfile(_ context.Context, id int64) (*OwnProfile, error) {
	f.record("GetOwnProfile")
	if f.failWith != nil {
		return nil, f.failWith
	}
	return nil, ErrProfileNotFound
}

type fakeCredentials struct {
	account *auth.Account
}

func (f *fakeCredentials) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	if f.account != nil && f.account.Email == email {
		return f.account, nil
	}
	return nil, auth.ErrAccountNotFound
}

func (f *fakeCredentials) FindByFicha(_ context.Context, ficha string) (*auth.Account, error) {
	if f.account != nil && f.account.Ficha == ficha {
		return f.account, nil
	}
	return nil, auth.ErrAccountNotFound
}

func (f *fakeCredentials) FindByID(_ context.Context, id int64) (*auth.Account, error) {
	if f.account != nil && f.account.ID == id {
		return f.account, nil
	}
	return nil, auth.ErrAccountNotFound
}

func (f *fakeCredentials) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	return nil
}

type noopMailer struct{}

func (noopMailer) SendEmail(to, subject, body string) error { return nil }

func newTestService(t *testing.T, repo *fakeRepository, creds *fakeCredentials) *LifecycleService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	authService := auth.NewAuthService(creds, auth.NewSessionStore(rdb), auth.NewResetTokenStore(rdb), noopMailer{})
	return NewLifecycleService(repo, creds, authService)
}

func validSelfUpdate() SelfUpdateRequest {
	return SelfUpdateRequest{
		Name:            "Ana",
		PaternalSurname: "García",
		BirthDate:       "1990-04-12",
		HireDate:        "2015-08-01",
		RegimeID:        1,
		RegionID:        1,
	}
}

func TestRegisterPublicIssuesSession(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeCredentials{})

	id, session, err := svc.RegisterPublic(context.Background(), PublicRegisterRequest{
		Ficha:           "12345",
		Email:           "ana@example.com",
		Password:        "s3cret-pass",
		Name:            "Ana",
		PaternalSurname: "García",
		BirthDate:       "1990-04-12",
		HireDate:        "2015-08-01",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(101), id)
	require.NotNil(t, session)
	assert.Equal(t, int64(101), session.AccountID)
	assert.Equal(t, auth.RoleParticipant, session.Role)
}

func TestRegisterPublicClassifiesDuplicate(t *testing.T) {
	repo := newFakeRepository()
	repo.failWith = errors.New("CONFLICTO [409-A]: La Ficha ya está registrada y activa.")
	svc := newTestService(t, repo, &fakeCredentials{})

	_, _, err := svc.RegisterPublic(context.Background(), PublicRegisterRequest{
		Ficha: "12345", Email: "ana@example.com", Password: "s3cret-pass",
		Name: "Ana", PaternalSurname: "García",
		BirthDate: "1990-04-12", HireDate: "2015-08-01",
	})
	var lifecycleErr *LifecycleError
	require.ErrorAs(t, err, &lifecycleErr)
	assert.Equal(t, "CONFLICTO [409-A]: La Ficha ya está registrada y activa", lifecycleErr.Message)
	assert.Equal(t, alerts.SeverityWarning, lifecycleErr.Severity)
}

func TestRegisterPublicFallbackOnDriverError(t *testing.T) {
	repo := newFakeRepository()
	repo.failWith = errors.New("dial tcp: connection refused")
	svc := newTestService(t, repo, &fakeCredentials{})

	_, _, err := svc.RegisterPublic(context.Background(), PublicRegisterRequest{
		Ficha: "12345", Email: "ana@example.com", Password: "s3cret-pass",
		Name: "Ana", PaternalSurname: "García",
		BirthDate: "1990-04-12", HireDate: "2015-08-01",
	})
	var lifecycleErr *LifecycleError
	require.ErrorAs(t, err, &lifecycleErr)
	assert.Equal(t, alerts.FallbackMessage, lifecycleErr.Message)
	assert.Equal(t, alerts.SeverityDanger, lifecycleErr.Severity)
}

func TestUpdateByAdminNilPasswordPreservesHash(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeCredentials{})

	req := AdminUpdateRequest{
		Name: "Ana", PaternalSurname: "García",
		BirthDate: "1990-04-12", HireDate: "2015-08-01",
		Email: "ana@example.com", RoleID: 3, RegimeID: 1, RegionID: 1,
	}
	_, err := svc.UpdateByAdmin(context.Background(), 1, 5, req)
	require.NoError(t, err)
	assert.Nil(t, repo.lastUpdateByAdmin.PasswordHash)

	newPass := "brand-new-pass"
	req.Password = &newPass
	_, err = svc.UpdateByAdmin(context.Background(), 1, 5, req)
	require.NoError(t, err)
	require.NotNil(t, repo.lastUpdateByAdmin.PasswordHash)
	assert.True(t, auth.CheckPasswordHash(newPass, *repo.lastUpdateByAdmin.PasswordHash))
}

func TestSetStatusIdempotentToggle(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeCredentials{})
	ctx := context.Background()

	result, err := svc.SetStatus(ctx, 1, 5, false)
	require.NoError(t, err)
	assert.Equal(t, ActionChanged, result.Action)

	result, err = svc.SetStatus(ctx, 1, 5, false)
	require.NoError(t, err)
	assert.Equal(t, ActionNoChange, result.Action)

	result, err = svc.SetStatus(ctx, 1, 5, true)
	require.NoError(t, err)
	assert.Equal(t, ActionChanged, result.Action)
}

func TestSetStatusSelfLockout(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeCredentials{})

	_, err := svc.SetStatus(context.Background(), 1, 1, false)
	var lifecycleErr *LifecycleError
	require.ErrorAs(t, err, &lifecycleErr)
	assert.Equal(t, alerts.SeverityDanger, lifecycleErr.Severity)
	assert.Contains(t, lifecycleErr.Message, "BLOQUEO [403]")
}

func TestDeleteForensicSelfDenied(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeCredentials{})

	_, err := svc.DeleteForensic(context.Background(), 1, 1)
	var lifecycleErr *LifecycleError
	require.ErrorAs(t, err, &lifecycleErr)
	assert.Equal(t, alerts.SeverityDanger, lifecycleErr.Severity)

	message, err := svc.DeleteForensic(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, message)
}

func TestUpdateCredentialsNoChangesFastFail(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeCredentials{})

	_, err := svc.UpdateCredentials(context.Background(), 1, CredentialsUpdateRequest{
		CurrentPassword: "whatever",
	})
	assert.ErrorIs(t, err, ErrNoCredentialChanges)
	// Nothing downstream was touched, not even the credential lookup.
	assert.Empty(t, repo.calls)
}

func TestUpdateCredentialsWrongCurrentPassword(t *testing.T) {
	hash, err := auth.HashPassword("real-pass")
	require.NoError(t, err)
	creds := &fakeCredentials{account: &auth.Account{
		ID: 1, Ficha: "12345", Email: "ana@example.com",
		PasswordHash: hash, Role: auth.RoleParticipant, Active: true,
	}}
	repo := newFakeRepository()
	svc := newTestService(t, repo, creds)

	newEmail := "nueva@example.com"
	_, err = svc.UpdateCredentials(context.Background(), 1, CredentialsUpdateRequest{
		CurrentPassword: "wrong-pass",
		NewEmail:        &newEmail,
	})
	assert.ErrorIs(t, err, ErrWrongCurrentPassword)
	assert.Empty(t, repo.calls)
}

func TestUpdateCredentialsHashesNewPassword(t *testing.T) {
	hash, err := auth.HashPassword("real-pass")
	require.NoError(t, err)
	creds := &fakeCredentials{account: &auth.Account{
		ID: 1, Ficha: "12345", Email: "ana@example.com",
		PasswordHash: hash, Role: auth.RoleParticipant, Active: true,
	}}
	repo := newFakeRepository()
	svc := newTestService(t, repo, creds)

	newPass := "brand-new-pass"
	result, err := svc.UpdateCredentials(context.Background(), 1, CredentialsUpdateRequest{
		CurrentPassword: "real-pass",
		NewPassword:     &newPass,
	})
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, result.Action)

	assert.Nil(t, repo.lastCredentials.NewEmail)
	require.NotNil(t, repo.lastCredentials.NewPasswordHash)
	assert.NotEqual(t, newPass, *repo.lastCredentials.NewPasswordHash)
	assert.True(t, auth.CheckPasswordHash(newPass, *repo.lastCredentials.NewPasswordHash))
}

func TestUpdateSelf(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeCredentials{})

	result, err := svc.UpdateSelf(context.Background(), 7, validSelfUpdate())
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, result.Action)
	assert.Equal(t, []string{"UpdateOwnProfile"}, repo.calls)
}

func TestGetAccountFullNotFoundPassesThrough(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeCredentials{})

	_, err := svc.GetAccountFull(context.Background(), 404)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.GetOwnProfile(context.Background(), 404)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestGetAccountFullClassifiesOtherFailures(t *testing.T) {
	repo := newFakeRepository()
	repo.failWith = errors.New("db error: dial tcp: connection refused")
	svc := newTestService(t, repo, &fakeCredentials{})

	_, err := svc.GetAccountFull(context.Background(), 5)
	var lifecycleErr *LifecycleError
	require.ErrorAs(t, err, &lifecycleErr)
	assert.Equal(t, alerts.FallbackMessage, lifecycleErr.Message)
	assert.Equal(t, alerts.SeverityDanger, lifecycleErr.Severity)
}

func TestRegisterPublicRejectsMalformedDate(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeCredentials{})

	_, _, err := svc.RegisterPublic(context.Background(), PublicRegisterRequest{
		Ficha: "12345", Email: "ana@example.com", Password: "s3cret-pass",
		Name: "Ana", PaternalSurname: "García",
		BirthDate: "12/04/1990", HireDate: "2015-08-01",
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Empty(t, repo.calls)
}

func TestUpdateSelfRejectsMalformedDate(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeCredentials{})

	req := validSelfUpdate()
	req.HireDate = "not-a-date"
	_, err := svc.UpdateSelf(context.Background(), 7, req)
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Empty(t, repo.calls)
}

func TestUpdateSelfClassifiesConcurrencyConflict(t *testing.T) {
	repo := newFakeRepository()
	repo.failWith = errors.New("CONFLICTO OPERATIVO [409]: CONCURRENCIA, el registro está siendo editado por otra operación.")
	svc := newTestService(t, repo, &fakeCredentials{})

	_, err := svc.UpdateSelf(context.Background(), 7, validSelfUpdate())
	var lifecycleErr *LifecycleError
	require.ErrorAs(t, err, &lifecycleErr)
	assert.Equal(t, alerts.SeverityWarning, lifecycleErr.Severity)
}
