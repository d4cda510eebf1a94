package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrParentNotFound distinguishes an unknown or inactive parent from an
// unexpected failure, so the handler can answer the middle tier of the
// three-tier classification.
var ErrParentNotFound = errors.New("parent not found or inactive")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// listChildren returns the active children of an active parent.
func (r *Repository) listChildren(ctx context.Context, parentTable, childTable, parentColumn string, parentID int64) ([]Option, error) {
	var parentActive bool
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT active FROM %s WHERE id = $1`, parentTable), parentID,
	).Scan(&parentActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if !parentActive {
		return nil, ErrParentNotFound
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, name FROM %s WHERE %s = $1 AND active ORDER BY name`, childTable, parentColumn),
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var options []Option
	for rows.Next() {
		var o Option
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (r *Repository) ListStates(ctx context.Context, countryID int64) ([]Option, error) {
	return r.listChildren(ctx, "countries", "states", "country_id", countryID)
}

func (r *Repository) ListMunicipalities(ctx context.Context, stateID int64) ([]Option, error) {
	return r.listChildren(ctx, "states", "municipalities", "state_id", stateID)
}

func (r *Repository) ListSubdirectorates(ctx context.Context, directorateID int64) ([]Option, error) {
	return r.listChildren(ctx, "directorates", "subdirectorates", "directorate_id", directorateID)
}

func (r *Repository) ListManagementUnits(ctx context.Context, subdirectorateID int64) ([]Option, error) {
	return r.listChildren(ctx, "subdirectorates", "management_units", "subdirectorate_id", subdirectorateID)
}

func (r *Repository) listInstructors(ctx context.Context, query string) ([]InstructorOption, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var options []InstructorOption
	for rows.Next() {
		var o InstructorOption
		if err := rows.Scan(&o.ID, &o.Ficha, &o.FullName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// ListInstructorsActive is the dropdown source of assignable instructors.
func (r *Repository) ListInstructorsActive(ctx context.Context) ([]InstructorOption, error) {
	return r.listInstructors(ctx, `SELECT id, ficha, full_name FROM sp_list_instructors_active()`)
}

// ListInstructorsHistory includes inactive instructors, annotated, for
// historical views.
func (r *Repository) ListInstructorsHistory(ctx context.Context) ([]InstructorOption, error) {
	return r.listInstructors(ctx, `SELECT id, ficha, full_name FROM sp_list_instructors_history()`)
}
