package store

import (
	"database/sql"
	"encoding/json"
	"log"
	"sync"

	"github.com/example/medtrack/internal/readmodel"
)

// PostgresReadStore implements ReadStoreInterface using PostgreSQL
type PostgresReadStore struct {
	db *sql.DB
	mu sync.RWMutex // for thread-safe operations
}

// NewPostgresReadStore creates a new PostgreSQL-based read store
func NewPostgresReadStore(db *sql.DB) *PostgresReadStore {
	return &PostgresReadStore{db: db}
}

// Set stores a read model
func (rs *PostgresReadStore) Set(collection, id string, data any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	switch collection {
	case "jobs":
		rs.setJobUnsafe(id, data.(*readmodel.JobReadModel))
	case "parts":
		rs.setPartUnsafe(id, data.(*readmodel.PartReadModel))
	case "users":
		rs.setUserUnsafe(id, data.(*readmodel.UserReadModel))
	case "sessions":
		rs.setSessionUnsafe(id, data.(*readmodel.SessionReadModel))
	}
}

// Get retrieves a read model by id
func (rs *PostgresReadStore) Get(collection, id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	switch collection {
	case "jobs":
		j, ok := rs.getJobUnsafe(id)
		return any(j), ok
	case "parts":
		p, ok := rs.getPartUnsafe(id)
		return any(p), ok
	case "users":
		u, ok := rs.getUserUnsafe(id)
		return any(u), ok
	case "sessions":
		s, ok := rs.getSessionUnsafe(id)
		return any(s), ok
	}
	return nil, false
}

// GetAll retrieves all items in a collection
func (rs *PostgresReadStore) GetAll(collection string) []any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	switch collection {
	case "jobs":
		return rs.getAllJobs()
	case "parts":
		return rs.getAllParts()
	case "users":
		return rs.getAllUsers()
	case "sessions":
		return rs.getAllSessions()
	}
	return nil
}

// Delete removes a read model
func (rs *PostgresReadStore) Delete(collection, id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	var tableName string
	switch collection {
	case "jobs":
		tableName = "read_jobs"
	case "parts":
		tableName = "read_parts"
	case "users":
		tableName = "read_users"
	case "sessions":
		tableName = "user_sessions"
	default:
		return
	}

	_, err := rs.db.Exec("DELETE FROM "+tableName+" WHERE id = $1", id)
	if err != nil {
		log.Printf("[PostgresReadStore] Error deleting from %s: %v", collection, err)
	}
}

// Update modifies a read model using an update function
func (rs *PostgresReadStore) Update(collection, id string, updateFn func(current any) any) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	var current any
	var found bool

	switch collection {
	case "jobs":
		current, found = rs.getJobUnsafe(id)
	case "parts":
		current, found = rs.getPartUnsafe(id)
	case "users":
		current, found = rs.getUserUnsafe(id)
	case "sessions":
		current, found = rs.getSessionUnsafe(id)
	}

	if !found {
		return false
	}

	updated := updateFn(current)

	switch collection {
	case "jobs":
		rs.setJobUnsafe(id, updated.(*readmodel.JobReadModel))
	case "parts":
		rs.setPartUnsafe(id, updated.(*readmodel.PartReadModel))
	case "users":
		rs.setUserUnsafe(id, updated.(*readmodel.UserReadModel))
	case "sessions":
		rs.setSessionUnsafe(id, updated.(*readmodel.SessionReadModel))
	}

	return true
}

// Job operations

func (rs *PostgresReadStore) setJobUnsafe(id string, j *readmodel.JobReadModel) {
	partsJSON, _ := json.Marshal(j.PartsUsed)
	_, err := rs.db.Exec(`
		INSERT INTO read_jobs (id, asset_id, asset_name, location, issue, urgency, status, reporter, job_type, technician, parts_used, repair_note, reported_at, updated_at, seq)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			technician = EXCLUDED.technician,
			parts_used = EXCLUDED.parts_used,
			repair_note = EXCLUDED.repair_note,
			updated_at = EXCLUDED.updated_at
	`, j.ID, j.AssetID, j.AssetName, j.Location, j.Issue, j.Urgency, j.Status, j.Reporter, j.Type, j.Technician, partsJSON, j.RepairNote, j.ReportedAt, j.UpdatedAt, j.Seq)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting job: %v", err)
	}
}

func (rs *PostgresReadStore) getJobUnsafe(id string) (*readmodel.JobReadModel, bool) {
	var j readmodel.JobReadModel
	var partsJSON []byte
	err := rs.db.QueryRow(`
		SELECT id, asset_id, asset_name, location, issue, urgency, status, reporter, job_type, technician, parts_used, repair_note, reported_at, updated_at, seq
		FROM read_jobs WHERE id = $1
	`, id).Scan(&j.ID, &j.AssetID, &j.AssetName, &j.Location, &j.Issue, &j.Urgency, &j.Status, &j.Reporter, &j.Type, &j.Technician, &partsJSON, &j.RepairNote, &j.ReportedAt, &j.UpdatedAt, &j.Seq)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting job: %v", err)
		}
		return nil, false
	}
	json.Unmarshal(partsJSON, &j.PartsUsed)
	if j.PartsUsed == nil {
		j.PartsUsed = []readmodel.UsedPartReadModel{}
	}
	return &j, true
}

func (rs *PostgresReadStore) getAllJobs() []any {
	rows, err := rs.db.Query(`
		SELECT id, asset_id, asset_name, location, issue, urgency, status, reporter, job_type, technician, parts_used, repair_note, reported_at, updated_at, seq
		FROM read_jobs ORDER BY seq DESC
	`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all jobs: %v", err)
		return nil
	}
	defer rows.Close()

	var jobs []any
	for rows.Next() {
		var j readmodel.JobReadModel
		var partsJSON []byte
		if err := rows.Scan(&j.ID, &j.AssetID, &j.AssetName, &j.Location, &j.Issue, &j.Urgency, &j.Status, &j.Reporter, &j.Type, &j.Technician, &partsJSON, &j.RepairNote, &j.ReportedAt, &j.UpdatedAt, &j.Seq); err != nil {
			log.Printf("[PostgresReadStore] Error scanning job: %v", err)
			continue
		}
		json.Unmarshal(partsJSON, &j.PartsUsed)
		if j.PartsUsed == nil {
			j.PartsUsed = []readmodel.UsedPartReadModel{}
		}
		jobs = append(jobs, &j)
	}
	return jobs
}

// Part operations

func (rs *PostgresReadStore) setPartUnsafe(id string, p *readmodel.PartReadModel) {
	_, err := rs.db.Exec(`
		INSERT INTO read_parts (id, name, price, stock, min_stock, unit, seq, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock,
			min_stock = EXCLUDED.min_stock,
			unit = EXCLUDED.unit,
			updated_at = EXCLUDED.updated_at
	`, p.ID, p.Name, p.Price, p.Stock, p.Min, p.Unit, p.Seq, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting part: %v", err)
	}
}

func (rs *PostgresReadStore) getPartUnsafe(id string) (*readmodel.PartReadModel, bool) {
	var p readmodel.PartReadModel
	err := rs.db.QueryRow(`
		SELECT id, name, price, stock, min_stock, unit, seq, created_at, updated_at
		FROM read_parts WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Min, &p.Unit, &p.Seq, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting part: %v", err)
		}
		return nil, false
	}
	return &p, true
}

func (rs *PostgresReadStore) getAllParts() []any {
	rows, err := rs.db.Query(`
		SELECT id, name, price, stock, min_stock, unit, seq, created_at, updated_at
		FROM read_parts ORDER BY seq ASC
	`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all parts: %v", err)
		return nil
	}
	defer rows.Close()

	var parts []any
	for rows.Next() {
		var p readmodel.PartReadModel
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Min, &p.Unit, &p.Seq, &p.CreatedAt, &p.UpdatedAt); err != nil {
			log.Printf("[PostgresReadStore] Error scanning part: %v", err)
			continue
		}
		parts = append(parts, &p)
	}
	return parts
}

// User operations

func (rs *PostgresReadStore) setUserUnsafe(id string, u *readmodel.UserReadModel) {
	_, err := rs.db.Exec(`
		INSERT INTO read_users (id, email, password_hash, name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting user: %v", err)
	}
}

func (rs *PostgresReadStore) getUserUnsafe(id string) (*readmodel.UserReadModel, bool) {
	var u readmodel.UserReadModel
	err := rs.db.QueryRow(`
		SELECT id, email, password_hash, name, role, is_active, created_at, updated_at
		FROM read_users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting user: %v", err)
		}
		return nil, false
	}
	return &u, true
}

func (rs *PostgresReadStore) getAllUsers() []any {
	rows, err := rs.db.Query(`
		SELECT id, email, password_hash, name, role, is_active, created_at, updated_at
		FROM read_users
	`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all users: %v", err)
		return nil
	}
	defer rows.Close()

	var users []any
	for rows.Next() {
		var u readmodel.UserReadModel
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			log.Printf("[PostgresReadStore] Error scanning user: %v", err)
			continue
		}
		users = append(users, &u)
	}
	return users
}

// Session operations

func (rs *PostgresReadStore) setSessionUnsafe(id string, s *readmodel.SessionReadModel) {
	_, err := rs.db.Exec(`
		INSERT INTO user_sessions (id, user_id, refresh_token_hash, expires_at, created_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			refresh_token_hash = EXCLUDED.refresh_token_hash,
			expires_at = EXCLUDED.expires_at
	`, s.ID, s.UserID, s.RefreshTokenHash, s.ExpiresAt, s.CreatedAt, s.IPAddress, s.UserAgent)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting session: %v", err)
	}
}

func (rs *PostgresReadStore) getSessionUnsafe(id string) (*readmodel.SessionReadModel, bool) {
	var s readmodel.SessionReadModel
	err := rs.db.QueryRow(`
		SELECT id, user_id, refresh_token_hash, expires_at, created_at, ip_address, user_agent
		FROM user_sessions WHERE id = $1
	`, id).Scan(&s.ID, &s.UserID, &s.RefreshTokenHash, &s.ExpiresAt, &s.CreatedAt, &s.IPAddress, &s.UserAgent)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting session: %v", err)
		}
		return nil, false
	}
	return &s, true
}

func (rs *PostgresReadStore) getAllSessions() []any {
	rows, err := rs.db.Query(`
		SELECT id, user_id, refresh_token_hash, expires_at, created_at, ip_address, user_agent
		FROM user_sessions
	`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all sessions: %v", err)
		return nil
	}
	defer rows.Close()

	var sessions []any
	for rows.Next() {
		var s readmodel.SessionReadModel
		if err := rows.Scan(&s.ID, &s.UserID, &s.RefreshTokenHash, &s.ExpiresAt, &s.CreatedAt, &s.IPAddress, &s.UserAgent); err != nil {
			log.Printf("[PostgresReadStore] Error scanning session: %v", err)
			continue
		}
		sessions = append(sessions, &s)
	}
	return sessions
}
