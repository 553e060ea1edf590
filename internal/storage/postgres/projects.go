package postgres

import (
	"context"
	"database/sql"
	"errors"
)

// ListProjects returns all projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	const query = `
		SELECT id, name, description, created_at, last_modified
		FROM projects
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &PersistenceError{Op: "list projects", Err: err}
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.LastModified); err != nil {
			return nil, &PersistenceError{Op: "list projects", Err: err}
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list projects", Err: err}
	}
	return projects, nil
}

// CreateProject inserts a new project. The database assigns the id and
// both timestamps.
func (s *Store) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	const query = `
		INSERT INTO projects (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at, last_modified
	`

	var p Project
	err := s.db.QueryRowContext(ctx, query, name, description).Scan(
		&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.LastModified,
	)
	if err != nil {
		return nil, &PersistenceError{Op: "create project", Err: err}
	}
	return &p, nil
}

// GetProject fetches one project by id. A missing project is a normal
// outcome and yields (nil, nil), not an error.
func (s *Store) GetProject(ctx context.Context, id string) (*Project, error) {
	const query = `
		SELECT id, name, description, created_at, last_modified
		FROM projects
		WHERE id = $1
	`

	var p Project
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.LastModified,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get project", Err: err}
	}
	return &p, nil
}
