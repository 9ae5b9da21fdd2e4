package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"neowatch/asteroid"
)

var database *sql.DB

// ErrNotInitialized is returned when a query runs before InitDB.
var ErrNotInitialized = errors.New("database not initialized")

// InitDB opens the SQLite database at path and creates the schema.
func InitDB(path string) error {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS asteroids (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        miss_distance_km REAL NOT NULL,
        diameter_min_m REAL NOT NULL,
        diameter_max_m REAL NOT NULL,
        velocity_kph REAL NOT NULL,
        prediction TEXT NOT NULL,
        close_approach_date TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_asteroids_date ON asteroids(close_approach_date);
    `
	if _, err := conn.Exec(query); err != nil {
		conn.Close()
		return err
	}

	if database != nil {
		database.Close()
	}
	database = conn
	return nil
}

// Close releases the database handle.
func Close() error {
	if database == nil {
		return nil
	}
	err := database.Close()
	database = nil
	return err
}

// SaveAsteroids appends records in order inside one transaction.
func SaveAsteroids(records []asteroid.Record) error {
	if database == nil {
		return ErrNotInitialized
	}
	tx, err := database.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
        INSERT INTO asteroids (
            miss_distance_km, diameter_min_m, diameter_max_m, velocity_kph,
            prediction, close_approach_date
        ) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.Exec(r.MissDistanceKm, r.DiameterMinM, r.DiameterMaxM, r.VelocityKph,
			string(r.Prediction), r.CloseApproachDate.UTC().Format(time.RFC3339))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ClearAsteroids deletes every stored record.
func ClearAsteroids() error {
	if database == nil {
		return ErrNotInitialized
	}
	_, err := database.Exec(`DELETE FROM asteroids`)
	return err
}

// QueryAsteroids returns all records in insertion order.
func QueryAsteroids() ([]asteroid.Record, error) {
	if database == nil {
		return nil, ErrNotInitialized
	}
	rows, err := database.Query(`
        SELECT miss_distance_km, diameter_min_m, diameter_max_m, velocity_kph,
               prediction, close_approach_date
        FROM asteroids
        ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]asteroid.Record, 0)
	for rows.Next() {
		var r asteroid.Record
		var label, when string
		if err := rows.Scan(&r.MissDistanceKm, &r.DiameterMinM, &r.DiameterMaxM, &r.VelocityKph, &label, &when); err != nil {
			return nil, err
		}
		if r.Prediction, err = asteroid.ParseLabel(label); err != nil {
			return nil, err
		}
		if r.CloseApproachDate, err = asteroid.ParseDate(when); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
