package repo

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"davet/internal/model"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)

type Repository interface {
	CreateEvent(ctx context.Context, e *model.Event) (int64, error)
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	GetAllEvents(ctx context.Context) ([]model.Event, error)
	UpdateEvent(ctx context.Context, e *model.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	UpsertResponseTx(ctx context.Context, resp *model.Response) error
	GetResponsesByEventID(ctx context.Context, eventID int64) ([]model.Response, error)
	GetAllEmployees(ctx context.Context) ([]model.Employee, error)
	GetEmployeeByID(ctx context.Context, id int) (*model.Employee, error)
	CreateEmployeeTx(ctx context.Context, e *model.Employee) (int, error)
	UpdateEmployee(ctx context.Context, e *model.Employee) error
	DeactivateEmployee(ctx context.Context, id int) error
	Ping() error
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) Ping() error {
	return r.db.Master.Ping()
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := ioutil.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := ioutil.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

func (r *repository) CreateEvent(ctx context.Context, e *model.Event) (int64, error) {
	query := `
		INSERT INTO events (company_name, event_date, location, start_time, end_time, transportation, visible_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowContext(ctx, query,
		e.CompanyName, e.Date, e.Location, e.StartTime, e.EndTime, e.Transportation, pq.Array(e.VisibleTo),
	)

	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}
	return e.ID, nil
}

func (r *repository) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `
		SELECT id, company_name, event_date, location, start_time, end_time,
		       transportation, visible_to, created_at, updated_at
		FROM events WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var e model.Event
	var visibleTo pq.Int64Array
	if err := row.Scan(
		&e.ID, &e.CompanyName, &e.Date, &e.Location, &e.StartTime, &e.EndTime,
		&e.Transportation, &visibleTo, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, ErrEventNotFound
	}
	e.VisibleTo = toIntSlice(visibleTo)

	responses, err := r.GetResponsesByEventID(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Responses = responses

	return &e, nil
}

func (r *repository) GetAllEvents(ctx context.Context) ([]model.Event, error) {
	query := `
		SELECT id, company_name, event_date, location, start_time, end_time,
		       transportation, visible_to, created_at, updated_at
		FROM events
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var visibleTo pq.Int64Array
		if err := rows.Scan(
			&e.ID,
			&e.CompanyName,
			&e.Date,
			&e.Location,
			&e.StartTime,
			&e.EndTime,
			&e.Transportation,
			&visibleTo,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.VisibleTo = toIntSlice(visibleTo)
		events = append(events, e)
	}

	return events, nil
}

func (r *repository) UpdateEvent(ctx context.Context, e *model.Event) error {
	query := `
		UPDATE events
		SET company_name = $1, event_date = $2, location = $3, start_time = $4,
		    end_time = $5, transportation = $6, visible_to = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	row := r.db.QueryRowContext(ctx, query,
		e.CompanyName, e.Date, e.Location, e.StartTime, e.EndTime,
		e.Transportation, pq.Array(e.VisibleTo), e.ID,
	)
	if err := row.Scan(&e.UpdatedAt); err != nil {
		return ErrEventNotFound
	}
	return nil
}

func (r *repository) DeleteEvent(ctx context.Context, id int64) error {
	// Responses are removed by the FK cascade.
	query := `DELETE FROM events WHERE id = $1 RETURNING id`

	var deleted int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&deleted); err != nil {
		return ErrEventNotFound
	}
	return nil
}

// UpsertResponseTx records an employee's answer for an event. A second answer
// for the same (event, employee) pair replaces the first and refreshes its
// timestamp; distinct pairs never contend.
func (r *repository) UpsertResponseTx(ctx context.Context, resp *model.Response) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var eventID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM events WHERE id = $1 FOR UPDATE
	`, resp.EventID).Scan(&eventID)
	if err != nil {
		_ = tx.Rollback()
		return ErrEventNotFound
	}

	query := `
		INSERT INTO responses (event_id, employee_id, attending, responded_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (event_id, employee_id)
		DO UPDATE SET attending = EXCLUDED.attending, responded_at = NOW()
		RETURNING responded_at
	`
	if err := tx.QueryRowContext(ctx, query, resp.EventID, resp.EmployeeID, resp.Attending).Scan(&resp.RespondedAt); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to upsert response: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE events SET updated_at = NOW() WHERE id = $1`, resp.EventID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to touch event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *repository) GetResponsesByEventID(ctx context.Context, eventID int64) ([]model.Response, error) {
	query := `
		SELECT event_id, employee_id, attending, responded_at
		FROM responses
		WHERE event_id = $1
		ORDER BY responded_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		var resp model.Response
		if err := rows.Scan(
			&resp.EventID,
			&resp.EmployeeID,
			&resp.Attending,
			&resp.RespondedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func (r *repository) GetAllEmployees(ctx context.Context) ([]model.Employee, error) {
	query := `
		SELECT id, name, department, role, active, created_at, updated_at
		FROM employees
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var emp model.Employee
		if err := rows.Scan(
			&emp.ID,
			&emp.Name,
			&emp.Department,
			&emp.Role,
			&emp.Active,
			&emp.CreatedAt,
			&emp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

func (r *repository) GetEmployeeByID(ctx context.Context, id int) (*model.Employee, error) {
	query := `
		SELECT id, name, department, role, active, created_at, updated_at
		FROM employees
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var emp model.Employee
	if err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Department,
		&emp.Role,
		&emp.Active,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, ErrEmployeeNotFound
	}

	return &emp, nil
}

// CreateEmployeeTx assigns the next sequential id inside the transaction so
// ids stay dense and stable for the lifetime of the roster.
func (r *repository) CreateEmployeeTx(ctx context.Context, e *model.Employee) (int, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var nextID int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(id), 0) + 1 FROM employees
	`).Scan(&nextID)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to assign employee id: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO employees (id, name, department, role, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING created_at, updated_at
	`, nextID, e.Name, e.Department, e.Role).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to create employee: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	e.ID = nextID
	e.Active = true
	return nextID, nil
}

func (r *repository) UpdateEmployee(ctx context.Context, e *model.Employee) error {
	query := `
		UPDATE employees
		SET name = $1, department = $2, role = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING active, updated_at
	`

	row := r.db.QueryRowContext(ctx, query, e.Name, e.Department, e.Role, e.ID)
	if err := row.Scan(&e.Active, &e.UpdatedAt); err != nil {
		return ErrEmployeeNotFound
	}
	return nil
}

// DeactivateEmployee soft-deletes: historical responses keep referencing the
// id, so roster rows are never removed.
func (r *repository) DeactivateEmployee(ctx context.Context, id int) error {
	query := `
		UPDATE employees
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updated int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&updated); err != nil {
		return ErrEmployeeNotFound
	}
	return nil
}

func toIntSlice(arr pq.Int64Array) []int {
	out := make([]int, 0, len(arr))
	for _, v := range arr {
		out = append(out, int(v))
	}
	return out
}
