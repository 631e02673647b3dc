// Package db persists an audit log of served predictions in SQLite.
package db

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"gradesense/inference"
)

var database *sql.DB

// InitDB opens the SQLite database and creates the audit schema.
func InitDB(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var err error
	database, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        age INTEGER,
        gender VARCHAR(10),
        course VARCHAR(100),
        year VARCHAR(10),
        marital_status VARCHAR(5),
        depression VARCHAR(5),
        anxiety VARCHAR(5),
        panic_attack VARCHAR(5),
        treatment VARCHAR(5),
        predicted_cgpa REAL,
        cgpa_range VARCHAR(50),
        raw_score REAL,
        created_at DATETIME
    );`

	_, err = database.Exec(query)
	return err
}

// PredictionRow is one audit-log entry.
type PredictionRow struct {
	ID            int64     `json:"id"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	Course        string    `json:"course"`
	Year          string    `json:"year"`
	MaritalStatus string    `json:"marital_status"`
	Depression    string    `json:"depression"`
	Anxiety       string    `json:"anxiety"`
	PanicAttack   string    `json:"panic_attack"`
	Treatment     string    `json:"treatment"`
	PredictedCGPA float64   `json:"predicted_cgpa"`
	CGPARange     string    `json:"cgpa_range"`
	RawScore      float64   `json:"raw_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// SavePrediction appends a served prediction to the audit log.
func SavePrediction(rec inference.StudentRecord, res inference.Result) error {
	if database == nil {
		return errors.New("database not initialized")
	}

	_, err := database.Exec(`
        INSERT INTO predictions (age, gender, course, year, marital_status,
            depression, anxiety, panic_attack, treatment,
            predicted_cgpa, cgpa_range, raw_score, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Age, rec.Gender, rec.Course, rec.Year, rec.MaritalStatus,
		rec.Depression, rec.Anxiety, rec.PanicAttack, rec.Treatment,
		res.PredictedCGPA, res.CGPARange, res.RawScore, time.Now().UTC())
	return err
}

// QueryRecentPredictions returns the newest entries, newest first.
func QueryRecentPredictions(limit int) ([]PredictionRow, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := database.Query(`
        SELECT id, age, gender, course, year, marital_status,
               depression, anxiety, panic_attack, treatment,
               predicted_cgpa, cgpa_range, raw_score, created_at
        FROM predictions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PredictionRow
	for rows.Next() {
		var p PredictionRow
		if err := rows.Scan(&p.ID, &p.Age, &p.Gender, &p.Course, &p.Year,
			&p.MaritalStatus, &p.Depression, &p.Anxiety, &p.PanicAttack, &p.Treatment,
			&p.PredictedCGPA, &p.CGPARange, &p.RawScore, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Close closes the database handle.
func Close() error {
	if database == nil {
		return nil
	}
	err := database.Close()
	database = nil
	return err
}
