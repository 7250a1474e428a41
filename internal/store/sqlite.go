package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/refnexus/refnexus/internal/model"
)

// sqlQuerier is the query surface shared by *sql.DB and *sql.Tx.
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements Store using modernc.org/sqlite. It backs local
// development and the shared store test suite.
type SQLiteStore struct {
	db *sql.DB
	q  sqlQuerier
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, q: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS leagues (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id        INTEGER NOT NULL UNIQUE REFERENCES users(id),
	name           TEXT NOT NULL DEFAULT '',
	primary_region TEXT NOT NULL DEFAULT '',
	level          TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS referee_profiles (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id          INTEGER NOT NULL UNIQUE REFERENCES users(id),
	full_name        TEXT NOT NULL DEFAULT '',
	cert_level       TEXT NOT NULL DEFAULT '',
	years_experience INTEGER NOT NULL DEFAULT 0,
	home_location    TEXT NOT NULL DEFAULT '',
	latitude         REAL,
	longitude        REAL,
	travel_radius_km REAL,
	bio              TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS field_locations (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	league_id INTEGER NOT NULL REFERENCES leagues(id),
	name      TEXT NOT NULL,
	address   TEXT NOT NULL DEFAULT '',
	latitude  REAL NOT NULL,
	longitude REAL NOT NULL,
	UNIQUE (league_id, name, address)
);

CREATE TABLE IF NOT EXISTS games (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	league_id         INTEGER NOT NULL REFERENCES leagues(id),
	field_location_id INTEGER NOT NULL REFERENCES field_locations(id),
	scheduled_start   DATETIME NOT NULL,
	age_group         TEXT NOT NULL DEFAULT '',
	gender_focus      TEXT NOT NULL DEFAULT '',
	competition_level TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'open',
	center_fee        REAL,
	ar_fee            REAL
);

CREATE TABLE IF NOT EXISTS assignments (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id    INTEGER NOT NULL REFERENCES games(id),
	referee_id INTEGER NOT NULL REFERENCES referee_profiles(id),
	role       TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'requested'
);

CREATE TABLE IF NOT EXISTS ratings (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	league_id  INTEGER NOT NULL REFERENCES leagues(id),
	referee_id INTEGER NOT NULL REFERENCES referee_profiles(id),
	game_id    INTEGER NOT NULL REFERENCES games(id),
	score      INTEGER NOT NULL,
	comment    TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS ref_notes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	league_id  INTEGER NOT NULL REFERENCES leagues(id),
	referee_id INTEGER NOT NULL REFERENCES referee_profiles(id),
	game_id    INTEGER REFERENCES games(id),
	note       TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_games_league_id ON games(league_id);
CREATE INDEX IF NOT EXISTS idx_assignments_game_id ON assignments(game_id);
CREATE INDEX IF NOT EXISTS idx_assignments_referee_id ON assignments(referee_id);
CREATE INDEX IF NOT EXISTS idx_ratings_referee_id ON ratings(referee_id);
CREATE INDEX IF NOT EXISTS idx_ref_notes_referee_id ON ref_notes(referee_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.q.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RunInTx runs fn against a transactional view of the store.
func (s *SQLiteStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	txStore := &SQLiteStore{db: s.db, q: tx}
	if err := fn(txStore); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit tx")
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, role, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		u.Email, u.PasswordHash, string(u.Role), u.CreatedAt,
	).Scan(&u.ID)
	return eris.Wrap(err, "sqlite: insert user")
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.q.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, created_at FROM users WHERE email = ?`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "sqlite: get user by email")
	}
	return &u, nil
}

func (s *SQLiteStore) CreateLeague(ctx context.Context, l *model.League) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO leagues (user_id, name, primary_region, level) VALUES (?, ?, ?, ?) RETURNING id`,
		l.UserID, l.Name, l.PrimaryRegion, l.Level,
	).Scan(&l.ID)
	return eris.Wrap(err, "sqlite: insert league")
}

func (s *SQLiteStore) GetLeague(ctx context.Context, id int64) (*model.League, error) {
	return s.getLeague(ctx, `SELECT id, user_id, name, primary_region, level FROM leagues WHERE id = ?`, id)
}

func (s *SQLiteStore) GetLeagueByUserID(ctx context.Context, userID int64) (*model.League, error) {
	return s.getLeague(ctx, `SELECT id, user_id, name, primary_region, level FROM leagues WHERE user_id = ?`, userID)
}

func (s *SQLiteStore) getLeague(ctx context.Context, query string, arg any) (*model.League, error) {
	var l model.League
	err := s.q.QueryRowContext(ctx, query, arg).Scan(&l.ID, &l.UserID, &l.Name, &l.PrimaryRegion, &l.Level)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "sqlite: get league")
	}
	return &l, nil
}

func (s *SQLiteStore) UpdateLeague(ctx context.Context, l *model.League) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE leagues SET name = ?, primary_region = ?, level = ? WHERE id = ?`,
		l.Name, l.PrimaryRegion, l.Level, l.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update league %d", l.ID)
	}
	return checkRowsAffected(res)
}

func (s *SQLiteStore) CreateRefereeProfile(ctx context.Context, p *model.RefereeProfile) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO referee_profiles (user_id, full_name, cert_level, years_experience, home_location, latitude, longitude, travel_radius_km, bio)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		p.UserID, p.FullName, p.CertLevel, p.YearsExperience, p.HomeLocation, p.Latitude, p.Longitude, p.TravelRadiusKM, p.Bio,
	).Scan(&p.ID)
	return eris.Wrap(err, "sqlite: insert referee profile")
}

func (s *SQLiteStore) GetRefereeProfile(ctx context.Context, id int64) (*model.RefereeProfile, error) {
	return s.getRefereeProfile(ctx,
		`SELECT `+refereeProfileColumns+` FROM referee_profiles WHERE id = ?`, id)
}

func (s *SQLiteStore) GetRefereeProfileByUserID(ctx context.Context, userID int64) (*model.RefereeProfile, error) {
	return s.getRefereeProfile(ctx,
		`SELECT `+refereeProfileColumns+` FROM referee_profiles WHERE user_id = ?`, userID)
}

func (s *SQLiteStore) getRefereeProfile(ctx context.Context, query string, arg any) (*model.RefereeProfile, error) {
	var p model.RefereeProfile
	err := s.q.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.CertLevel, &p.YearsExperience,
		&p.HomeLocation, &p.Latitude, &p.Longitude, &p.TravelRadiusKM, &p.Bio,
	)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "sqlite: get referee profile")
	}
	return &p, nil
}

func (s *SQLiteStore) UpdateRefereeProfile(ctx context.Context, p *model.RefereeProfile) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE referee_profiles SET full_name = ?, cert_level = ?, years_experience = ?, home_location = ?,
		 latitude = ?, longitude = ?, travel_radius_km = ?, bio = ? WHERE id = ?`,
		p.FullName, p.CertLevel, p.YearsExperience, p.HomeLocation,
		p.Latitude, p.Longitude, p.TravelRadiusKM, p.Bio, p.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update referee profile %d", p.ID)
	}
	return checkRowsAffected(res)
}

func (s *SQLiteStore) ListRefereeProfiles(ctx context.Context) ([]model.RefereeProfile, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+refereeProfileColumns+` FROM referee_profiles ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list referee profiles")
	}
	defer rows.Close()

	var profiles []model.RefereeProfile
	for rows.Next() {
		var p model.RefereeProfile
		if err := rows.Scan(&p.ID, &p.UserID, &p.FullName, &p.CertLevel, &p.YearsExperience,
			&p.HomeLocation, &p.Latitude, &p.Longitude, &p.TravelRadiusKM, &p.Bio); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan referee profile")
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate referee profiles")
	}
	return profiles, nil
}

func (s *SQLiteStore) CreateFieldLocation(ctx context.Context, fl *model.FieldLocation) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO field_locations (league_id, name, address, latitude, longitude) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		fl.LeagueID, fl.Name, fl.Address, fl.Latitude, fl.Longitude,
	).Scan(&fl.ID)
	return eris.Wrap(err, "sqlite: insert field location")
}

func (s *SQLiteStore) GetFieldLocationByKey(ctx context.Context, leagueID int64, name, address string) (*model.FieldLocation, error) {
	var fl model.FieldLocation
	err := s.q.QueryRowContext(ctx,
		`SELECT id, league_id, name, address, latitude, longitude FROM field_locations
		 WHERE league_id = ? AND name = ? AND address = ?`,
		leagueID, name, address,
	).Scan(&fl.ID, &fl.LeagueID, &fl.Name, &fl.Address, &fl.Latitude, &fl.Longitude)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "sqlite: get field location by key")
	}
	return &fl, nil
}

func (s *SQLiteStore) CreateGame(ctx context.Context, g *model.Game) error {
	if g.Status == "" {
		g.Status = model.GameStatusOpen
	}
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO games (league_id, field_location_id, scheduled_start, age_group, gender_focus, competition_level, status, center_fee, ar_fee)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		g.LeagueID, g.FieldLocationID, g.ScheduledStart, g.AgeGroup, g.GenderFocus,
		g.CompetitionLevel, string(g.Status), g.CenterFee, g.ARFee,
	).Scan(&g.ID)
	return eris.Wrap(err, "sqlite: insert game")
}

func (s *SQLiteStore) GetGame(ctx context.Context, leagueID, id int64) (*model.Game, error) {
	var g model.Game
	err := s.q.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = ? AND league_id = ?`, id, leagueID,
	).Scan(&g.ID, &g.LeagueID, &g.FieldLocationID, &g.ScheduledStart,
		&g.AgeGroup, &g.GenderFocus, &g.CompetitionLevel, &g.Status, &g.CenterFee, &g.ARFee)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "sqlite: get game %d", id)
	}
	return &g, nil
}

func (s *SQLiteStore) GetGameByID(ctx context.Context, id int64) (*model.Game, error) {
	var g model.Game
	err := s.q.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = ?`, id,
	).Scan(&g.ID, &g.LeagueID, &g.FieldLocationID, &g.ScheduledStart,
		&g.AgeGroup, &g.GenderFocus, &g.CompetitionLevel, &g.Status, &g.CenterFee, &g.ARFee)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "sqlite: get game %d", id)
	}
	return &g, nil
}

func (s *SQLiteStore) ListGames(ctx context.Context, leagueID int64, filter GameFilter) ([]model.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE league_id = ?`
	args := []any{leagueID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY scheduled_start ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list games")
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(&g.ID, &g.LeagueID, &g.FieldLocationID, &g.ScheduledStart,
			&g.AgeGroup, &g.GenderFocus, &g.CompetitionLevel, &g.Status, &g.CenterFee, &g.ARFee); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan game")
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate games")
	}
	return games, nil
}

func (s *SQLiteStore) UpdateGame(ctx context.Context, g *model.Game) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE games SET field_location_id = ?, scheduled_start = ?, age_group = ?, gender_focus = ?,
		 competition_level = ?, status = ?, center_fee = ?, ar_fee = ? WHERE id = ? AND league_id = ?`,
		g.FieldLocationID, g.ScheduledStart, g.AgeGroup, g.GenderFocus,
		g.CompetitionLevel, string(g.Status), g.CenterFee, g.ARFee, g.ID, g.LeagueID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update game %d", g.ID)
	}
	return checkRowsAffected(res)
}

func (s *SQLiteStore) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	if a.Status == "" {
		a.Status = model.AssignmentStatusRequested
	}
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO assignments (game_id, referee_id, role, status) VALUES (?, ?, ?, ?) RETURNING id`,
		a.GameID, a.RefereeID, a.Role, string(a.Status),
	).Scan(&a.ID)
	return eris.Wrap(err, "sqlite: insert assignment")
}

func (s *SQLiteStore) GetAssignment(ctx context.Context, id int64) (*model.Assignment, error) {
	var a model.Assignment
	err := s.q.QueryRowContext(ctx,
		`SELECT id, game_id, referee_id, role, status FROM assignments WHERE id = ?`, id,
	).Scan(&a.ID, &a.GameID, &a.RefereeID, &a.Role, &a.Status)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "sqlite: get assignment %d", id)
	}
	return &a, nil
}

func (s *SQLiteStore) listAssignments(ctx context.Context, query string, arg any) ([]model.Assignment, error) {
	rows, err := s.q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list assignments")
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.GameID, &a.RefereeID, &a.Role, &a.Status); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan assignment")
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate assignments")
	}
	return assignments, nil
}

func (s *SQLiteStore) ListAssignmentsForGame(ctx context.Context, gameID int64) ([]model.Assignment, error) {
	return s.listAssignments(ctx,
		`SELECT id, game_id, referee_id, role, status FROM assignments WHERE game_id = ? ORDER BY id ASC`, gameID)
}

func (s *SQLiteStore) ListAssignmentsForReferee(ctx context.Context, refereeID int64) ([]model.Assignment, error) {
	return s.listAssignments(ctx,
		`SELECT id, game_id, referee_id, role, status FROM assignments WHERE referee_id = ? ORDER BY id ASC`, refereeID)
}

func (s *SQLiteStore) UpdateAssignmentStatus(ctx context.Context, id int64, status model.AssignmentStatus) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE assignments SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update assignment status %d", id)
	}
	return checkRowsAffected(res)
}

func (s *SQLiteStore) CountAcceptedAssignments(ctx context.Context, refereeID int64) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assignments WHERE referee_id = ? AND status = ?`,
		refereeID, string(model.AssignmentStatusAccepted),
	).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count accepted assignments")
}

func (s *SQLiteStore) CreateRating(ctx context.Context, r *model.Rating) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO ratings (league_id, referee_id, game_id, score, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		r.LeagueID, r.RefereeID, r.GameID, r.Score, r.Comment, r.CreatedAt,
	).Scan(&r.ID)
	return eris.Wrap(err, "sqlite: insert rating")
}

func (s *SQLiteStore) ListRatingsForReferee(ctx context.Context, refereeID int64) ([]model.Rating, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, league_id, referee_id, game_id, score, comment, created_at FROM ratings
		 WHERE referee_id = ? ORDER BY created_at DESC`, refereeID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list ratings")
	}
	defer rows.Close()

	var ratings []model.Rating
	for rows.Next() {
		var r model.Rating
		if err := rows.Scan(&r.ID, &r.LeagueID, &r.RefereeID, &r.GameID, &r.Score, &r.Comment, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan rating")
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate ratings")
	}
	return ratings, nil
}

func (s *SQLiteStore) AverageRatings(ctx context.Context) (map[int64]float64, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT referee_id, AVG(score) FROM ratings GROUP BY referee_id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: average ratings")
	}
	defer rows.Close()

	averages := make(map[int64]float64)
	for rows.Next() {
		var refereeID int64
		var avg float64
		if err := rows.Scan(&refereeID, &avg); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan average rating")
		}
		averages[refereeID] = avg
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate average ratings")
	}
	return averages, nil
}

func (s *SQLiteStore) CreateNote(ctx context.Context, n *model.RefNote) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO ref_notes (league_id, referee_id, game_id, note, created_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		n.LeagueID, n.RefereeID, n.GameID, n.Note, n.CreatedAt,
	).Scan(&n.ID)
	return eris.Wrap(err, "sqlite: insert note")
}

func (s *SQLiteStore) ListNotesForReferee(ctx context.Context, refereeID int64, limit int) ([]model.RefNote, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, league_id, referee_id, game_id, note, created_at FROM ref_notes
		 WHERE referee_id = ? ORDER BY created_at DESC LIMIT ?`, refereeID, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list notes")
	}
	defer rows.Close()

	var notes []model.RefNote
	for rows.Next() {
		var n model.RefNote
		if err := rows.Scan(&n.ID, &n.LeagueID, &n.RefereeID, &n.GameID, &n.Note, &n.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan note")
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate notes")
	}
	return notes, nil
}

func checkRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
