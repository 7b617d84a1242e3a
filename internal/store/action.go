package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Trigger kinds for action bindings.
const (
	// TriggerGesture binds an action to a classified gesture type, e.g.
	// "double-tap" or "swipe-left".
	TriggerGesture = "gesture"
	// TriggerPattern binds an action to a recognized shape pattern id.
	TriggerPattern = "pattern"
)

// Action represents a trigger-to-plugin binding stored in the database.
// TriggerKind is either TriggerGesture or TriggerPattern; TriggerValue is
// the gesture type string or the pattern id respectively.
type Action struct {
	ID           string
	TriggerKind  string
	TriggerValue string
	PluginName   string
	ActionName   string
	Config       json.RawMessage
	Enabled      bool
	CreatedAt    time.Time
}

// ActionRepository provides CRUD operations for actions.
type ActionRepository struct {
	db *sql.DB
}

// Actions returns the action repository for this store.
func (s *Store) Actions() *ActionRepository {
	return &ActionRepository{db: s.db}
}

// Create inserts a new action into the database.
func (r *ActionRepository) Create(a *Action) error {
	a.CreatedAt = time.Now()

	config := a.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	_, err := r.db.Exec(
		`INSERT INTO actions (id, trigger_kind, trigger_value, plugin_name, action_name, config, enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.TriggerKind, a.TriggerValue, a.PluginName, a.ActionName, string(config), a.Enabled, a.CreatedAt,
	)
	return err
}

// GetByID retrieves an action by its ID.
func (r *ActionRepository) GetByID(id string) (*Action, error) {
	a := &Action{}
	var config string
	var enabled int

	err := r.db.QueryRow(
		`SELECT id, trigger_kind, trigger_value, plugin_name, action_name, config, enabled, created_at
		 FROM actions WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.TriggerKind, &a.TriggerValue, &a.PluginName, &a.ActionName, &config, &enabled, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a.Config = json.RawMessage(config)
	a.Enabled = enabled != 0
	return a, nil
}

// GetByTrigger retrieves the action bound to the given trigger.
// Returns nil, nil if no action is bound to it.
func (r *ActionRepository) GetByTrigger(kind, value string) (*Action, error) {
	a := &Action{}
	var config string
	var enabled int

	err := r.db.QueryRow(
		`SELECT id, trigger_kind, trigger_value, plugin_name, action_name, config, enabled, created_at
		 FROM actions WHERE trigger_kind = ? AND trigger_value = ?`,
		kind, value,
	).Scan(&a.ID, &a.TriggerKind, &a.TriggerValue, &a.PluginName, &a.ActionName, &config, &enabled, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Silent skip - no action bound
		}
		return nil, err
	}

	a.Config = json.RawMessage(config)
	a.Enabled = enabled != 0
	return a, nil
}

// List retrieves all actions from the database.
func (r *ActionRepository) List() ([]*Action, error) {
	return r.list(`SELECT id, trigger_kind, trigger_value, plugin_name, action_name, config, enabled, created_at
		 FROM actions ORDER BY created_at DESC`)
}

// ListEnabled retrieves all enabled actions from the database.
func (r *ActionRepository) ListEnabled() ([]*Action, error) {
	return r.list(`SELECT id, trigger_kind, trigger_value, plugin_name, action_name, config, enabled, created_at
		 FROM actions WHERE enabled = 1 ORDER BY created_at DESC`)
}

func (r *ActionRepository) list(query string) ([]*Action, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*Action
	for rows.Next() {
		a := &Action{}
		var config string
		var enabled int

		err := rows.Scan(&a.ID, &a.TriggerKind, &a.TriggerValue, &a.PluginName, &a.ActionName, &config, &enabled, &a.CreatedAt)
		if err != nil {
			return nil, err
		}

		a.Config = json.RawMessage(config)
		a.Enabled = enabled != 0
		actions = append(actions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return actions, nil
}

// Update updates an existing action in the database.
func (r *ActionRepository) Update(a *Action) error {
	config := a.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	enabled := 0
	if a.Enabled {
		enabled = 1
	}

	result, err := r.db.Exec(
		`UPDATE actions SET trigger_kind = ?, trigger_value = ?, plugin_name = ?, action_name = ?, config = ?, enabled = ?
		 WHERE id = ?`,
		a.TriggerKind, a.TriggerValue, a.PluginName, a.ActionName, string(config), enabled, a.ID,
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

// Delete removes an action from the database by its ID.
func (r *ActionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM actions WHERE id = ?`, id)
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
