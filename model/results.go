package model

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"go-ml.dev/pkg/zorros"

	"github.com/davidghobson1/COVID-19-Forecasting-Model/fu"
)

/*
Results is the explicit per-model evaluation accumulator of an experiment.
Every architecture writes its final metric rows here under its own name and
a comparison is queried back at the end. Backed by sqlite so experiment
runs can be compared across invocations; use ":memory:" for a throwaway
store.
*/
type Results struct {
	db *sql.DB
}

const resultsSchema = `
CREATE TABLE IF NOT EXISTS results (
	model  TEXT NOT NULL,
	subset TEXT NOT NULL,
	metric TEXT NOT NULL,
	value  REAL NOT NULL,
	PRIMARY KEY (model, subset, metric)
)`

// OpenResults opens or creates a results store at the given sqlite path.
func OpenResults(path string) (*Results, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	if _, err = db.Exec(resultsSchema); err != nil {
		db.Close()
		return nil, zorros.Trace(err)
	}
	return &Results{db: db}, nil
}

// Add upserts all metric values of one model/subset row except the
// iteration bookkeeping columns.
func (r *Results) Add(model, subset string, s fu.Struct) error {
	tx, err := r.db.Begin()
	if err != nil {
		return zorros.Trace(err)
	}
	for i, name := range s.Names {
		if name == "Iteration" || name == "Subset" {
			continue
		}
		_, err = tx.Exec(
			`INSERT OR REPLACE INTO results (model, subset, metric, value) VALUES (?, ?, ?, ?)`,
			model, subset, name, s.Values[i])
		if err != nil {
			tx.Rollback()
			return zorros.Trace(err)
		}
	}
	if err = tx.Commit(); err != nil {
		return zorros.Trace(err)
	}
	return nil
}

// Metric reads one stored metric value back.
func (r *Results) Metric(model, subset, metric string) (float64, error) {
	var v float64
	err := r.db.QueryRow(
		`SELECT value FROM results WHERE model = ? AND subset = ? AND metric = ?`,
		model, subset, metric).Scan(&v)
	if err != nil {
		return 0, zorros.Trace(err)
	}
	return v, nil
}

/*
Comparison lists all models of the store with one metric per subset,
ordered by the test subset value ascending, best first.
*/
func (r *Results) Comparison(metric string) ([]ModelScore, error) {
	rows, err := r.db.Query(`
		SELECT a.model, a.value, b.value
		FROM results a JOIN results b ON a.model = b.model
		WHERE a.subset = 'valid' AND b.subset = 'test'
		  AND a.metric = ? AND b.metric = ?
		ORDER BY b.value ASC`, metric, metric)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	defer rows.Close()
	var list []ModelScore
	for rows.Next() {
		var s ModelScore
		if err = rows.Scan(&s.Model, &s.Valid, &s.Test); err != nil {
			return nil, zorros.Trace(err)
		}
		list = append(list, s)
	}
	if err = rows.Err(); err != nil {
		return nil, zorros.Trace(err)
	}
	return list, nil
}

// ModelScore is one row of a Comparison.
type ModelScore struct {
	Model       string
	Valid, Test float64
}

// Close closes the underlying database.
func (r *Results) Close() error { return r.db.Close() }
