package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/disasterprep/backend/internal/models"
)

// ErrModuleNotFound is returned by SetStatus when no module has the given id.
var ErrModuleNotFound = errors.New("module not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListModules returns the full catalog regardless of status. Students see a
// filtered view; administrators see everything.
func (s *Store) ListModules() ([]models.DisasterModule, error) {
	rows, err := s.db.Query(
		`SELECT id, name, description, is_location_based, required_region, status
		 FROM modules ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var modules []models.DisasterModule
	for rows.Next() {
		m, err := scanModule(rows.Scan)
		if err != nil {
			return nil, err
		}
		modules = append(modules, *m)
	}
	return modules, rows.Err()
}

func (s *Store) GetModule(id string) (*models.DisasterModule, error) {
	row := s.db.QueryRow(
		`SELECT id, name, description, is_location_based, required_region, status
		 FROM modules WHERE id = $1`,
		id,
	)
	m, err := scanModule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// SetStatus replaces the lifecycle status of one module; all other fields
// are untouched. Status validity is the caller's contract.
func (s *Store) SetStatus(id string, status models.ModuleStatus) error {
	res, err := s.db.Exec(`UPDATE modules SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set module status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set module status: %w", err)
	}
	if affected == 0 {
		return ErrModuleNotFound
	}
	return nil
}

func scanModule(scan func(dest ...interface{}) error) (*models.DisasterModule, error) {
	var m models.DisasterModule
	var region sql.NullString
	if err := scan(&m.ID, &m.Name, &m.Description, &m.IsLocationBased, &region, &m.Status); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan module: %w", err)
	}
	if region.Valid {
		r := models.Region(region.String)
		m.RequiredRegion = &r
	}
	return &m, nil
}
