package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Pattern represents a shape pattern definition stored in the database.
type Pattern struct {
	ID         string
	Name       string
	Confidence float64
	Samples    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PathPoint is one point of a pattern's template path.
type PathPoint struct {
	Sequence int
	X        float64
	Y        float64
	TMs      int64
}

// PatternRepository provides CRUD operations for patterns and their
// template paths.
type PatternRepository struct {
	db *sql.DB
}

// Patterns returns the pattern repository for this store.
func (s *Store) Patterns() *PatternRepository {
	return &PatternRepository{db: s.db}
}

// Create inserts a new pattern into the database.
func (r *PatternRepository) Create(p *Pattern) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if p.Confidence <= 0 {
		p.Confidence = 1.0
	}

	_, err := r.db.Exec(
		`INSERT INTO patterns (id, name, confidence, samples, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Confidence, p.Samples, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a pattern by its ID.
func (r *PatternRepository) GetByID(id string) (*Pattern, error) {
	p := &Pattern{}

	err := r.db.QueryRow(
		`SELECT id, name, confidence, samples, created_at, updated_at
		 FROM patterns WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Name, &p.Confidence, &p.Samples, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

// GetByName retrieves a pattern by its name.
func (r *PatternRepository) GetByName(name string) (*Pattern, error) {
	p := &Pattern{}

	err := r.db.QueryRow(
		`SELECT id, name, confidence, samples, created_at, updated_at
		 FROM patterns WHERE name = ?`,
		name,
	).Scan(&p.ID, &p.Name, &p.Confidence, &p.Samples, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

// List retrieves all patterns from the database.
func (r *PatternRepository) List() ([]*Pattern, error) {
	rows, err := r.db.Query(
		`SELECT id, name, confidence, samples, created_at, updated_at
		 FROM patterns ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []*Pattern
	for rows.Next() {
		p := &Pattern{}

		err := rows.Scan(&p.ID, &p.Name, &p.Confidence, &p.Samples, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}

		patterns = append(patterns, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return patterns, nil
}

// Update updates an existing pattern in the database.
func (r *PatternRepository) Update(p *Pattern) error {
	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE patterns SET name = ?, confidence = ?, samples = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Confidence, p.Samples, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a pattern from the database by its ID. Template points
// and samples cascade.
func (r *PatternRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM patterns WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetPoints retrieves a pattern's template path in sequence order.
func (r *PatternRepository) GetPoints(patternID string) ([]PathPoint, error) {
	rows, err := r.db.Query(
		`SELECT sequence, x, y, t_ms
		 FROM pattern_points
		 WHERE pattern_id = ?
		 ORDER BY sequence`,
		patternID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []PathPoint
	for rows.Next() {
		var p PathPoint
		if err := rows.Scan(&p.Sequence, &p.X, &p.Y, &p.TMs); err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return points, nil
}

// SetPoints replaces a pattern's template path in a single transaction.
func (r *PatternRepository) SetPoints(patternID string, points []PathPoint) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM pattern_points WHERE pattern_id = ?`, patternID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO pattern_points (pattern_id, sequence, x, y, t_ms) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.Exec(patternID, i, p.X, p.Y, p.TMs); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`UPDATE patterns SET updated_at = ? WHERE id = ?`,
		time.Now(), patternID); err != nil {
		return err
	}

	return tx.Commit()
}
