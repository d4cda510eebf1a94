package personnel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrProfileNotFound is returned by the read operations when the target does
// not exist. Mutating operations signal not-found through a tagged failure.
var ErrProfileNotFound = errors.New("profile not found")

type RegisterPublicParams struct {
	Ficha           string
	Email           string
	PasswordHash    string
	Name            string
	PaternalSurname string
	MaternalSurname string
	BirthDate       time.Time
	HireDate        time.Time
}

type RegisterByAdminParams struct {
	ActorID          int64
	Ficha            string
	PhotoURL         string
	Name             string
	PaternalSurname  string
	MaternalSurname  string
	BirthDate        time.Time
	HireDate         time.Time
	Email            string
	PasswordHash     string
	RoleID           int16
	RegimeID         int64
	PositionID       *int64
	WorkCenterID     *int64
	DepartmentID     *int64
	RegionID         int64
	ManagementUnitID *int64
	Level            *int16
}

type UpdateByAdminParams struct {
	ActorID          int64
	TargetID         int64
	Name             string
	PaternalSurname  string
	MaternalSurname  string
	BirthDate        time.Time
	HireDate         time.Time
	Email            string
	PasswordHash     *string // nil preserves the stored hash
	RoleID           int16
	RegimeID         int64
	PositionID       *int64
	WorkCenterID     *int64
	DepartmentID     *int64
	RegionID         int64
	ManagementUnitID *int64
	Level            *int16
}

type UpdateSelfParams struct {
	ActorID          int64
	Name             string
	PaternalSurname  string
	MaternalSurname  string
	BirthDate        time.Time
	HireDate         time.Time
	RegimeID         int64
	PositionID       *int64
	WorkCenterID     *int64
	DepartmentID     *int64
	RegionID         int64
	ManagementUnitID *int64
}

type UpdateCredentialsParams struct {
	ActorID         int64
	NewEmail        *string
	NewPasswordHash *string
}

// Repository is the boundary to the authoritative stored operations. Every
// call is a single bounded round trip; failures carry the tagged message.
type Repository interface {
	RegisterPublic(ctx context.Context, p RegisterPublicParams) (int64, error)
	RegisterByAdmin(ctx context.Context, p RegisterByAdminParams) (int64, error)
	UpdateByAdmin(ctx context.Context, p UpdateByAdminParams) (*UpdateResult, error)
	UpdateOwnProfile(ctx context.Context, p UpdateSelfParams) (*UpdateResult, error)
	UpdateOwnCredentials(ctx context.Context, p UpdateCredentialsParams) (*UpdateResult, error)
	SetStatus(ctx context.Context, actorID, targetID int64, active bool) (*UpdateResult, error)
	DeleteForensic(ctx context.Context, actorID, targetID int64) (string, error)
	GetAccountFull(ctx context.Context, id int64) (*AccountFull, error)
	GetOwnProfile(ctx context.Context, id int64) (*OwnProfile, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &PostgresRepository{db: db}
}

// authoritativeError unwraps a Postgres failure to its bare message so the
// parser sees the tagged text, not the driver framing.
func authoritativeError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errors.New(pgErr.Message)
	}
	return fmt.Errorf("db error: %w", err)
}

// readError maps the missing-row signal of the query operations, whether an
// empty result set or a raised [404] failure, to ErrProfileNotFound.
func readError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProfileNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Message, "ERROR [404]") {
		return ErrProfileNotFound
	}
	return authoritativeError(err)
}

func (r *PostgresRepository) RegisterPublic(ctx context.Context, p RegisterPublicParams) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT sp_register_public($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.Ficha, p.Email, p.PasswordHash,
		p.Name, p.PaternalSurname, p.MaternalSurname,
		p.BirthDate, p.HireDate,
	).Scan(&id)
	if err != nil {
		return 0, authoritativeError(err)
	}
	return id, nil
}

func (r *PostgresRepository) RegisterByAdmin(ctx context.Context, p RegisterByAdminParams) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT sp_register_by_admin($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		p.ActorID, p.Ficha, p.PhotoURL,
		p.Name, p.PaternalSurname, p.MaternalSurname,
		p.BirthDate, p.HireDate,
		p.Email, p.PasswordHash, p.RoleID,
		p.RegimeID, p.PositionID, p.WorkCenterID,
		p.DepartmentID, p.RegionID, p.ManagementUnitID,
		p.Level,
	).Scan(&id)
	if err != nil {
		return 0, authoritativeError(err)
	}
	return id, nil
}

func (r *PostgresRepository) scanResult(row *sql.Row) (*UpdateResult, error) {
	result := &UpdateResult{}
	if err := row.Scan(&result.Action, &result.Message); err != nil {
		return nil, authoritativeError(err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateByAdmin(ctx context.Context, p UpdateByAdminParams) (*UpdateResult, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT action, message FROM sp_update_by_admin($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		p.ActorID, p.TargetID,
		p.Name, p.PaternalSurname, p.MaternalSurname,
		p.BirthDate, p.HireDate,
		p.Email, p.PasswordHash, p.RoleID,
		p.RegimeID, p.PositionID, p.WorkCenterID,
		p.DepartmentID, p.RegionID, p.ManagementUnitID,
		p.Level,
	)
	return r.scanResult(row)
}

func (r *PostgresRepository) UpdateOwnProfile(ctx context.Context, p UpdateSelfParams) (*UpdateResult, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT action, message FROM sp_update_own_profile($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ActorID,
		p.Name, p.PaternalSurname, p.MaternalSurname,
		p.BirthDate, p.HireDate,
		p.RegimeID, p.PositionID, p.WorkCenterID,
		p.DepartmentID, p.RegionID, p.ManagementUnitID,
	)
	return r.scanResult(row)
}

func (r *PostgresRepository) UpdateOwnCredentials(ctx context.Context, p UpdateCredentialsParams) (*UpdateResult, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT action, message FROM sp_update_own_credentials($1, $2, $3)`,
		p.ActorID, p.NewEmail, p.NewPasswordHash,
	)
	return r.scanResult(row)
}

func (r *PostgresRepository) SetStatus(ctx context.Context, actorID, targetID int64, active bool) (*UpdateResult, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT action, message FROM sp_set_status($1, $2, $3)`,
		actorID, targetID, active,
	)
	return r.scanResult(row)
}

func (r *PostgresRepository) DeleteForensic(ctx context.Context, actorID, targetID int64) (string, error) {
	var message string
	err := r.db.QueryRowContext(ctx,
		`SELECT sp_delete_forensic($1, $2)`, actorID, targetID,
	).Scan(&message)
	if err != nil {
		return "", authoritativeError(err)
	}
	return message, nil
}

func (r *PostgresRepository) GetAccountFull(ctx context.Context, id int64) (*AccountFull, error) {
	a := &AccountFull{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, ficha, email, role_id, active,
		        name, paternal_surname, maternal_surname,
		        birth_date, hire_date, photo_url,
		        regime_id, position_id, work_center_id,
		        department_id, region_id, management_unit_id, level
		 FROM sp_query_account_full($1)`, id,
	).Scan(
		&a.ID, &a.Ficha, &a.Email, &a.RoleID, &a.Active,
		&a.Name, &a.PaternalSurname, &a.MaternalSurname,
		&a.BirthDate, &a.HireDate, &a.PhotoURL,
		&a.RegimeID, &a.PositionID, &a.WorkCenterID,
		&a.DepartmentID, &a.RegionID, &a.ManagementUnitID, &a.Level,
	)
	if err != nil {
		return nil, readError(err)
	}
	return a, nil
}

func (r *PostgresRepository) GetOwnProfile(ctx context.Context, id int64) (*OwnProfile, error) {
	p := &OwnProfile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, ficha, email, role_id,
		        name, paternal_surname, maternal_surname,
		        birth_date, hire_date,
		        regime_id, position_id, work_center_id,
		        department_id, region_id, management_unit_id
		 FROM sp_query_own_profile($1)`, id,
	).Scan(
		&p.ID, &p.Ficha, &p.Email, &p.RoleID,
		&p.Name, &p.PaternalSurname, &p.MaternalSurname,
		&p.BirthDate, &p.HireDate,
		&p.RegimeID, &p.PositionID, &p.WorkCenterID,
		&p.DepartmentID, &p.RegionID, &p.ManagementUnitID,
	)
	if err != nil {
		return nil, readError(err)
	}
	return p, nil
}
