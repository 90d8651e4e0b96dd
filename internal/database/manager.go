// Package database prepares the MySQL test database a PHPUnit suite
// expects before a run.
package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"pta/internal/config"
)

// Manager ensures the workspace's test database exists.
type Manager struct {
	cfg *config.Config
}

// NewManager creates a Manager for the given configuration.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg}
}

// Ensure checks that the configured test database exists and creates it
// if it does not. Connection info comes from the resolved configuration
// (workspace .env or environment).
func (m *Manager) Ensure() error {
	db := m.cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/", db.Username, db.Password, db.Host, db.Port)
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("connect to database server: %w", err)
	}
	defer conn.Close()

	if err := conn.Ping(); err != nil {
		return fmt.Errorf("ping database server: %w", err)
	}

	exists, err := databaseExists(conn, db.Name)
	if err != nil {
		return fmt.Errorf("check database %s: %w", db.Name, err)
	}
	if exists {
		return nil
	}
	if err := createDatabase(conn, db.Name); err != nil {
		return fmt.Errorf("create database %s: %w", db.Name, err)
	}
	return nil
}

func databaseExists(db *sql.DB, name string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRow(query, name).Scan(&exists)
	return exists, err
}

func createDatabase(db *sql.DB, name string) error {
	if !isValidDatabaseName(name) {
		return fmt.Errorf("invalid database name: %s", name)
	}
	query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)
	_, err := db.Exec(query)
	return err
}

// isValidDatabaseName validates a database name (basic check).
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	invalid := []string{"'", "\"", ";", "--", "/*", "*/", "`"}
	for _, s := range invalid {
		if strings.Contains(name, s) {
			return false
		}
	}
	return true
}
