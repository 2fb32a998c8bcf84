// Package postgres provides the production Store on top of a pgx pool.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ai-creative-studio/studio-backend/internal/storage"
	"github.com/ai-creative-studio/studio-backend/internal/studio/domain"
)

type Store struct {
	db *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetUser(ctx context.Context, id int) (*domain.User, error) {
	const q = `
select id, username, password, api_key, created_at
from users
where id = $1;
`
	var u domain.User
	err := s.db.QueryRow(ctx, q, id).
		Scan(&u.ID, &u.Username, &u.Password, &u.APIKey, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `
select id, username, password, api_key, created_at
from users
where username = $1;
`
	var u domain.User
	err := s.db.QueryRow(ctx, q, username).
		Scan(&u.ID, &u.Username, &u.Password, &u.APIKey, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, in domain.InsertUser) (*domain.User, error) {
	const q = `
insert into users (username, password, api_key)
values ($1, $2, $3)
returning id, username, password, api_key, created_at;
`
	var u domain.User
	err := s.db.QueryRow(ctx, q, in.Username, in.Password, in.APIKey).
		Scan(&u.ID, &u.Username, &u.Password, &u.APIKey, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdateUserAPIKey(ctx context.Context, userID int, apiKey string) (*domain.User, error) {
	const q = `
update users
set api_key = $2
where id = $1
returning id, username, password, api_key, created_at;
`
	var u domain.User
	err := s.db.QueryRow(ctx, q, userID, apiKey).
		Scan(&u.ID, &u.Username, &u.Password, &u.APIKey, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetProject(ctx context.Context, id int) (*domain.Project, error) {
	const q = `
select id, title, content, studio_type, user_id, tokens_used, metadata, created_at, updated_at
from projects
where id = $1;
`
	var p domain.Project
	err := s.db.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.Title, &p.Content, &p.StudioType, &p.UserID,
			&p.TokensUsed, &p.Metadata, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProjectsByUser(ctx context.Context, userID int) ([]domain.Project, error) {
	const q = `
select id, title, content, studio_type, user_id, tokens_used, metadata, created_at, updated_at
from projects
where user_id = $1
order by updated_at desc, id desc;
`
	rows, err := s.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.StudioType, &p.UserID,
			&p.TokensUsed, &p.Metadata, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateProject(ctx context.Context, in domain.InsertProject) (*domain.Project, error) {
	const q = `
insert into projects (title, content, studio_type, user_id, tokens_used, metadata)
values ($1, $2, $3, $4, $5, $6)
returning id, title, content, studio_type, user_id, tokens_used, metadata, created_at, updated_at;
`
	var p domain.Project
	err := s.db.QueryRow(ctx, q, in.Title, in.Content, in.StudioType, in.UserID,
		in.TokensUsed, in.Metadata).
		Scan(&p.ID, &p.Title, &p.Content, &p.StudioType, &p.UserID,
			&p.TokensUsed, &p.Metadata, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpdateProject(ctx context.Context, id int, upd domain.ProjectUpdate) (*domain.Project, error) {
	const q = `
update projects
set title       = coalesce($2, title),
    content     = coalesce($3, content),
    studio_type = coalesce($4, studio_type),
    tokens_used = coalesce($5, tokens_used),
    metadata    = coalesce($6, metadata),
    updated_at  = now()
where id = $1
returning id, title, content, studio_type, user_id, tokens_used, metadata, created_at, updated_at;
`
	var p domain.Project
	err := s.db.QueryRow(ctx, q, id, upd.Title, upd.Content, upd.StudioType,
		upd.TokensUsed, upd.Metadata).
		Scan(&p.ID, &p.Title, &p.Content, &p.StudioType, &p.UserID,
			&p.TokensUsed, &p.Metadata, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) DeleteProject(ctx context.Context, id int) (bool, error) {
	const q = `delete from projects where id = $1;`
	ct, err := s.db.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (s *Store) ListChatMessages(ctx context.Context, projectID int) ([]domain.ChatMessage, error) {
	const q = `
select id, project_id, content, sender, timestamp
from chat_messages
where project_id = $1
order by id;
`
	rows, err := s.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ChatMessage, 0, 16)
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Content, &m.Sender, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) CreateChatMessage(ctx context.Context, in domain.InsertChatMessage) (*domain.ChatMessage, error) {
	const q = `
insert into chat_messages (project_id, content, sender)
values ($1, $2, $3)
returning id, project_id, content, sender, timestamp;
`
	var m domain.ChatMessage
	err := s.db.QueryRow(ctx, q, in.ProjectID, in.Content, in.Sender).
		Scan(&m.ID, &m.ProjectID, &m.Content, &m.Sender, &m.Timestamp)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) DeleteOrphanMessages(ctx context.Context) (int, error) {
	const q = `
delete from chat_messages m
where m.project_id is not null
  and not exists (select 1 from projects p where p.id = m.project_id);
`
	ct, err := s.db.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

func (s *Store) HealthCheck(ctx context.Context) bool {
	return s.db.Ping(ctx) == nil
}

func (s *Store) Close() {
	s.db.Close()
}
