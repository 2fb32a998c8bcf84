package postgres

import "context"

// Schema mirrors the three tables the application persists. Foreign keys are
// deliberately not ON DELETE CASCADE: project deletion leaves messages
// behind, and the orphan sweep reclaims them.
const Schema = `
create table if not exists users (
    id          serial primary key,
    username    text not null unique,
    password    text not null,
    api_key     text,
    created_at  timestamptz not null default now()
);

create table if not exists projects (
    id          serial primary key,
    title       text not null,
    content     text not null,
    studio_type text not null,
    user_id     integer references users(id),
    tokens_used integer not null default 0,
    metadata    jsonb,
    created_at  timestamptz not null default now(),
    updated_at  timestamptz not null default now()
);

create table if not exists chat_messages (
    id          serial primary key,
    project_id  integer,
    content     text not null,
    sender      text not null,
    timestamp   timestamptz not null default now()
);
`

// EnsureSchema creates the tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, Schema)
	return err
}

// SeedDemoUser inserts the demo user (id 1) the development setup expects.
// Safe to call repeatedly.
func (s *Store) SeedDemoUser(ctx context.Context) error {
	const q = `
insert into users (id, username, password, api_key)
values (1, 'demo_user', 'password123', 'demo-api-key')
on conflict (id) do nothing;
`
	if _, err := s.db.Exec(ctx, q); err != nil {
		return err
	}

	// The explicit-id insert bypasses the serial sequence; move it past the
	// seeded rows so the next sequence-drawn insert does not collide.
	const bump = `select setval('users_id_seq', greatest((select max(id) from users), 1));`
	_, err := s.db.Exec(ctx, bump)
	return err
}
