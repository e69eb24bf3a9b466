package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Prediction is one answered request as kept in the audit log.
type Prediction struct {
	ID        uuid.UUID       `json:"id"`
	Shape     string          `json:"shape"`
	Material  string          `json:"material"`
	Input     json.RawMessage `json:"input"`
	LoadKN    *float64        `json:"load_kn,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Repository interface {
	SavePrediction(ctx context.Context, p Prediction) error
	RecentPredictions(ctx context.Context, limit int) ([]Prediction, error)
}

const schema = `CREATE TABLE IF NOT EXISTS predictions (
	id         UUID PRIMARY KEY,
	shape      TEXT NOT NULL,
	material   TEXT NOT NULL,
	input      JSONB NOT NULL,
	load_kn    DOUBLE PRECISION,
	error      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
)`

type PostgresPredictionRepository struct {
	db *sql.DB
}

func NewPostgresPredictionDB(db *sql.DB) *PostgresPredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

func (r *PostgresPredictionRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresPredictionRepository) SavePrediction(ctx context.Context, p Prediction) error {
	query := `INSERT INTO predictions (id, shape, material, input, load_kn, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID.String(), p.Shape, p.Material, []byte(p.Input), p.LoadKN, p.Error, p.CreatedAt)
	return err
}

func (r *PostgresPredictionRepository) RecentPredictions(ctx context.Context, limit int) ([]Prediction, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, shape, material, input, load_kn, error, created_at
		FROM predictions ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Prediction
	for rows.Next() {
		var (
			p      Prediction
			id     string
			input  []byte
			loadKN sql.NullFloat64
		)
		if err := rows.Scan(&id, &p.Shape, &p.Material, &input, &loadKN, &p.Error, &p.CreatedAt); err != nil {
			return nil, err
		}
		if p.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		p.Input = json.RawMessage(input)
		if loadKN.Valid {
			v := loadKN.Float64
			p.LoadKN = &v
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
