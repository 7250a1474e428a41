package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/refnexus/refnexus/internal/db"
	"github.com/refnexus/refnexus/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
	q    db.Querier
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, q: pool}, nil
}

// NewPostgresFromPool wraps an existing pool (or pgxmock) in a PostgresStore.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, q: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leagues (
	id             BIGSERIAL PRIMARY KEY,
	user_id        BIGINT NOT NULL UNIQUE REFERENCES users(id),
	name           TEXT NOT NULL DEFAULT '',
	primary_region TEXT NOT NULL DEFAULT '',
	level          TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS referee_profiles (
	id               BIGSERIAL PRIMARY KEY,
	user_id          BIGINT NOT NULL UNIQUE REFERENCES users(id),
	full_name        TEXT NOT NULL DEFAULT '',
	cert_level       TEXT NOT NULL DEFAULT '',
	years_experience INTEGER NOT NULL DEFAULT 0,
	home_location    TEXT NOT NULL DEFAULT '',
	latitude         DOUBLE PRECISION,
	longitude        DOUBLE PRECISION,
	travel_radius_km DOUBLE PRECISION,
	bio              TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS field_locations (
	id        BIGSERIAL PRIMARY KEY,
	league_id BIGINT NOT NULL REFERENCES leagues(id),
	name      TEXT NOT NULL,
	address   TEXT NOT NULL DEFAULT '',
	latitude  DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	UNIQUE (league_id, name, address)
);

CREATE TABLE IF NOT EXISTS games (
	id                BIGSERIAL PRIMARY KEY,
	league_id         BIGINT NOT NULL REFERENCES leagues(id),
	field_location_id BIGINT NOT NULL REFERENCES field_locations(id),
	scheduled_start   TIMESTAMPTZ NOT NULL,
	age_group         TEXT NOT NULL DEFAULT '',
	gender_focus      TEXT NOT NULL DEFAULT '',
	competition_level TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'open',
	center_fee        DOUBLE PRECISION,
	ar_fee            DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS assignments (
	id         BIGSERIAL PRIMARY KEY,
	game_id    BIGINT NOT NULL REFERENCES games(id),
	referee_id BIGINT NOT NULL REFERENCES referee_profiles(id),
	role       TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'requested'
);

CREATE TABLE IF NOT EXISTS ratings (
	id         BIGSERIAL PRIMARY KEY,
	league_id  BIGINT NOT NULL REFERENCES leagues(id),
	referee_id BIGINT NOT NULL REFERENCES referee_profiles(id),
	game_id    BIGINT NOT NULL REFERENCES games(id),
	score      INTEGER NOT NULL,
	comment    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ref_notes (
	id         BIGSERIAL PRIMARY KEY,
	league_id  BIGINT NOT NULL REFERENCES leagues(id),
	referee_id BIGINT NOT NULL REFERENCES referee_profiles(id),
	game_id    BIGINT REFERENCES games(id),
	note       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_games_league_id ON games(league_id);
CREATE INDEX IF NOT EXISTS idx_games_status ON games(league_id, status);
CREATE INDEX IF NOT EXISTS idx_assignments_game_id ON assignments(game_id);
CREATE INDEX IF NOT EXISTS idx_assignments_referee_id ON assignments(referee_id);
CREATE INDEX IF NOT EXISTS idx_ratings_referee_id ON ratings(referee_id);
CREATE INDEX IF NOT EXISTS idx_ref_notes_referee_id ON ref_notes(referee_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.q.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// RunInTx runs fn against a transactional view of the store.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx)

	txStore := &PostgresStore{pool: s.pool, q: tx}
	if err := fn(txStore); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit tx")
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	err := s.q.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Email, u.PasswordHash, string(u.Role), u.CreatedAt,
	).Scan(&u.ID)
	return eris.Wrap(err, "postgres: insert user")
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.q.QueryRow(ctx,
		`SELECT id, email, password_hash, role, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "postgres: get user by email")
	}
	return &u, nil
}

func (s *PostgresStore) CreateLeague(ctx context.Context, l *model.League) error {
	err := s.q.QueryRow(ctx,
		`INSERT INTO leagues (user_id, name, primary_region, level) VALUES ($1, $2, $3, $4) RETURNING id`,
		l.UserID, l.Name, l.PrimaryRegion, l.Level,
	).Scan(&l.ID)
	return eris.Wrap(err, "postgres: insert league")
}

func (s *PostgresStore) GetLeague(ctx context.Context, id int64) (*model.League, error) {
	return s.getLeague(ctx, `SELECT id, user_id, name, primary_region, level FROM leagues WHERE id = $1`, id)
}

func (s *PostgresStore) GetLeagueByUserID(ctx context.Context, userID int64) (*model.League, error) {
	return s.getLeague(ctx, `SELECT id, user_id, name, primary_region, level FROM leagues WHERE user_id = $1`, userID)
}

func (s *PostgresStore) getLeague(ctx context.Context, sql string, arg any) (*model.League, error) {
	var l model.League
	err := s.q.QueryRow(ctx, sql, arg).Scan(&l.ID, &l.UserID, &l.Name, &l.PrimaryRegion, &l.Level)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "postgres: get league")
	}
	return &l, nil
}

func (s *PostgresStore) UpdateLeague(ctx context.Context, l *model.League) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE leagues SET name = $1, primary_region = $2, level = $3 WHERE id = $4`,
		l.Name, l.PrimaryRegion, l.Level, l.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update league %d", l.ID)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateRefereeProfile(ctx context.Context, p *model.RefereeProfile) error {
	err := s.q.QueryRow(ctx,
		`INSERT INTO referee_profiles (user_id, full_name, cert_level, years_experience, home_location, latitude, longitude, travel_radius_km, bio)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		p.UserID, p.FullName, p.CertLevel, p.YearsExperience, p.HomeLocation, p.Latitude, p.Longitude, p.TravelRadiusKM, p.Bio,
	).Scan(&p.ID)
	return eris.Wrap(err, "postgres: insert referee profile")
}

const refereeProfileColumns = `id, user_id, full_name, cert_level, years_experience, home_location, latitude, longitude, travel_radius_km, bio`

func scanRefereeProfile(row pgx.Row) (*model.RefereeProfile, error) {
	var p model.RefereeProfile
	err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.CertLevel, &p.YearsExperience,
		&p.HomeLocation, &p.Latitude, &p.Longitude, &p.TravelRadiusKM, &p.Bio)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) GetRefereeProfile(ctx context.Context, id int64) (*model.RefereeProfile, error) {
	p, err := scanRefereeProfile(s.q.QueryRow(ctx,
		`SELECT `+refereeProfileColumns+` FROM referee_profiles WHERE id = $1`, id))
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get referee profile %d", id)
	}
	return p, nil
}

func (s *PostgresStore) GetRefereeProfileByUserID(ctx context.Context, userID int64) (*model.RefereeProfile, error) {
	p, err := scanRefereeProfile(s.q.QueryRow(ctx,
		`SELECT `+refereeProfileColumns+` FROM referee_profiles WHERE user_id = $1`, userID))
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "postgres: get referee profile by user")
	}
	return p, nil
}

func (s *PostgresStore) UpdateRefereeProfile(ctx context.Context, p *model.RefereeProfile) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE referee_profiles SET full_name = $1, cert_level = $2, years_experience = $3, home_location = $4,
		 latitude = $5, longitude = $6, travel_radius_km = $7, bio = $8 WHERE id = $9`,
		p.FullName, p.CertLevel, p.YearsExperience, p.HomeLocation,
		p.Latitude, p.Longitude, p.TravelRadiusKM, p.Bio, p.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update referee profile %d", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListRefereeProfiles(ctx context.Context) ([]model.RefereeProfile, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+refereeProfileColumns+` FROM referee_profiles ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list referee profiles")
	}
	defer rows.Close()

	var profiles []model.RefereeProfile
	for rows.Next() {
		p, err := scanRefereeProfile(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan referee profile")
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate referee profiles")
	}
	return profiles, nil
}

func (s *PostgresStore) CreateFieldLocation(ctx context.Context, fl *model.FieldLocation) error {
	err := s.q.QueryRow(ctx,
		`INSERT INTO field_locations (league_id, name, address, latitude, longitude) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		fl.LeagueID, fl.Name, fl.Address, fl.Latitude, fl.Longitude,
	).Scan(&fl.ID)
	return eris.Wrap(err, "postgres: insert field location")
}

func (s *PostgresStore) GetFieldLocationByKey(ctx context.Context, leagueID int64, name, address string) (*model.FieldLocation, error) {
	var fl model.FieldLocation
	err := s.q.QueryRow(ctx,
		`SELECT id, league_id, name, address, latitude, longitude FROM field_locations
		 WHERE league_id = $1 AND name = $2 AND address = $3`,
		leagueID, name, address,
	).Scan(&fl.ID, &fl.LeagueID, &fl.Name, &fl.Address, &fl.Latitude, &fl.Longitude)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "postgres: get field location by key")
	}
	return &fl, nil
}

const gameColumns = `id, league_id, field_location_id, scheduled_start, age_group, gender_focus, competition_level, status, center_fee, ar_fee`

func scanGame(row pgx.Row) (*model.Game, error) {
	var g model.Game
	err := row.Scan(&g.ID, &g.LeagueID, &g.FieldLocationID, &g.ScheduledStart,
		&g.AgeGroup, &g.GenderFocus, &g.CompetitionLevel, &g.Status, &g.CenterFee, &g.ARFee)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *PostgresStore) CreateGame(ctx context.Context, g *model.Game) error {
	if g.Status == "" {
		g.Status = model.GameStatusOpen
	}
	err := s.q.QueryRow(ctx,
		`INSERT INTO games (league_id, field_location_id, scheduled_start, age_group, gender_focus, competition_level, status, center_fee, ar_fee)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		g.LeagueID, g.FieldLocationID, g.ScheduledStart, g.AgeGroup, g.GenderFocus,
		g.CompetitionLevel, string(g.Status), g.CenterFee, g.ARFee,
	).Scan(&g.ID)
	return eris.Wrap(err, "postgres: insert game")
}

func (s *PostgresStore) GetGame(ctx context.Context, leagueID, id int64) (*model.Game, error) {
	g, err := scanGame(s.q.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1 AND league_id = $2`, id, leagueID))
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get game %d", id)
	}
	return g, nil
}

func (s *PostgresStore) GetGameByID(ctx context.Context, id int64) (*model.Game, error) {
	g, err := scanGame(s.q.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get game %d", id)
	}
	return g, nil
}

func (s *PostgresStore) ListGames(ctx context.Context, leagueID int64, filter GameFilter) ([]model.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE league_id = $1`
	args := []any{leagueID}
	argIdx := 2

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	query += ` ORDER BY scheduled_start ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list games")
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan game")
		}
		games = append(games, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate games")
	}
	return games, nil
}

func (s *PostgresStore) UpdateGame(ctx context.Context, g *model.Game) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE games SET field_location_id = $1, scheduled_start = $2, age_group = $3, gender_focus = $4,
		 competition_level = $5, status = $6, center_fee = $7, ar_fee = $8 WHERE id = $9 AND league_id = $10`,
		g.FieldLocationID, g.ScheduledStart, g.AgeGroup, g.GenderFocus,
		g.CompetitionLevel, string(g.Status), g.CenterFee, g.ARFee, g.ID, g.LeagueID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update game %d", g.ID)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	if a.Status == "" {
		a.Status = model.AssignmentStatusRequested
	}
	err := s.q.QueryRow(ctx,
		`INSERT INTO assignments (game_id, referee_id, role, status) VALUES ($1, $2, $3, $4) RETURNING id`,
		a.GameID, a.RefereeID, a.Role, string(a.Status),
	).Scan(&a.ID)
	return eris.Wrap(err, "postgres: insert assignment")
}

func (s *PostgresStore) GetAssignment(ctx context.Context, id int64) (*model.Assignment, error) {
	var a model.Assignment
	err := s.q.QueryRow(ctx,
		`SELECT id, game_id, referee_id, role, status FROM assignments WHERE id = $1`, id,
	).Scan(&a.ID, &a.GameID, &a.RefereeID, &a.Role, &a.Status)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get assignment %d", id)
	}
	return &a, nil
}

func (s *PostgresStore) listAssignments(ctx context.Context, sql string, arg any) ([]model.Assignment, error) {
	rows, err := s.q.Query(ctx, sql, arg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list assignments")
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.GameID, &a.RefereeID, &a.Role, &a.Status); err != nil {
			return nil, eris.Wrap(err, "postgres: scan assignment")
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate assignments")
	}
	return assignments, nil
}

func (s *PostgresStore) ListAssignmentsForGame(ctx context.Context, gameID int64) ([]model.Assignment, error) {
	return s.listAssignments(ctx,
		`SELECT id, game_id, referee_id, role, status FROM assignments WHERE game_id = $1 ORDER BY id ASC`, gameID)
}

func (s *PostgresStore) ListAssignmentsForReferee(ctx context.Context, refereeID int64) ([]model.Assignment, error) {
	return s.listAssignments(ctx,
		`SELECT id, game_id, referee_id, role, status FROM assignments WHERE referee_id = $1 ORDER BY id ASC`, refereeID)
}

func (s *PostgresStore) UpdateAssignmentStatus(ctx context.Context, id int64, status model.AssignmentStatus) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE assignments SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return eris.Wrapf(err, "postgres: update assignment status %d", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountAcceptedAssignments(ctx context.Context, refereeID int64) (int, error) {
	var n int
	err := s.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM assignments WHERE referee_id = $1 AND status = $2`,
		refereeID, string(model.AssignmentStatusAccepted),
	).Scan(&n)
	return n, eris.Wrap(err, "postgres: count accepted assignments")
}

func (s *PostgresStore) CreateRating(ctx context.Context, r *model.Rating) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	err := s.q.QueryRow(ctx,
		`INSERT INTO ratings (league_id, referee_id, game_id, score, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		r.LeagueID, r.RefereeID, r.GameID, r.Score, r.Comment, r.CreatedAt,
	).Scan(&r.ID)
	return eris.Wrap(err, "postgres: insert rating")
}

func (s *PostgresStore) ListRatingsForReferee(ctx context.Context, refereeID int64) ([]model.Rating, error) {
	rows, err := s.q.Query(ctx,
		`SELECT id, league_id, referee_id, game_id, score, comment, created_at FROM ratings
		 WHERE referee_id = $1 ORDER BY created_at DESC`, refereeID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list ratings")
	}
	defer rows.Close()

	var ratings []model.Rating
	for rows.Next() {
		var r model.Rating
		if err := rows.Scan(&r.ID, &r.LeagueID, &r.RefereeID, &r.GameID, &r.Score, &r.Comment, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan rating")
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate ratings")
	}
	return ratings, nil
}

func (s *PostgresStore) AverageRatings(ctx context.Context) (map[int64]float64, error) {
	rows, err := s.q.Query(ctx,
		`SELECT referee_id, AVG(score)::float8 FROM ratings GROUP BY referee_id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: average ratings")
	}
	defer rows.Close()

	averages := make(map[int64]float64)
	for rows.Next() {
		var refereeID int64
		var avg float64
		if err := rows.Scan(&refereeID, &avg); err != nil {
			return nil, eris.Wrap(err, "postgres: scan average rating")
		}
		averages[refereeID] = avg
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate average ratings")
	}
	return averages, nil
}

func (s *PostgresStore) CreateNote(ctx context.Context, n *model.RefNote) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	err := s.q.QueryRow(ctx,
		`INSERT INTO ref_notes (league_id, referee_id, game_id, note, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		n.LeagueID, n.RefereeID, n.GameID, n.Note, n.CreatedAt,
	).Scan(&n.ID)
	return eris.Wrap(err, "postgres: insert note")
}

func (s *PostgresStore) ListNotesForReferee(ctx context.Context, refereeID int64, limit int) ([]model.RefNote, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.q.Query(ctx,
		`SELECT id, league_id, referee_id, game_id, note, created_at FROM ref_notes
		 WHERE referee_id = $1 ORDER BY created_at DESC LIMIT $2`, refereeID, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list notes")
	}
	defer rows.Close()

	var notes []model.RefNote
	for rows.Next() {
		var n model.RefNote
		if err := rows.Scan(&n.ID, &n.LeagueID, &n.RefereeID, &n.GameID, &n.Note, &n.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan note")
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate notes")
	}
	return notes, nil
}
