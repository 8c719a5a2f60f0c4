package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/tococyn/internal/investigator"
	"github.com/lawnchairsociety/tococyn/internal/stats"
)

// ErrInvestigatorNotFound is returned when an investigator lookup fails.
var ErrInvestigatorNotFound = errors.New("investigator not found")

// ErrInvestigatorExists is returned when an investigator with the same name is already stored.
var ErrInvestigatorExists = errors.New("investigator already exists")

// InvestigatorSummary is one row of ListInvestigators.
type InvestigatorSummary struct {
	ID         int64
	FirstName  string
	Surname    string
	Occupation string
	Era        investigator.Era
	CreatedAt  time.Time
}

// FullName returns "First Surname".
func (s InvestigatorSummary) FullName() string {
	return s.FirstName + " " + s.Surname
}

// CreateInvestigator stores inv with its characteristics and sets inv.ID.
func (d *Database) CreateInvestigator(inv *investigator.Investigator) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := d.qb.BuildWithReturning(
		`INSERT INTO investigators (first_name, surname, gender, era, occupation, birthplace, residence, age)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, "id")
	args := []any{
		inv.FirstName, inv.Surname, string(inv.Gender), int(inv.Era),
		inv.Occupation, inv.Birthplace, inv.Residence, inv.Age,
	}

	var id int64
	if d.dialect.SupportsLastInsertID() {
		result, err := tx.Exec(query, args...)
		if err != nil {
			return 0, d.createError(err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to get investigator ID: %w", err)
		}
	} else if err := tx.QueryRow(query, args...).Scan(&id); err != nil {
		return 0, d.createError(err)
	}

	insert := d.qb.Build(
		"INSERT INTO characteristics (investigator_id, code, description, rating, position) VALUES (?, ?, ?, ?, ?)")
	for i, attr := range inv.Characteristics() {
		var rating sql.NullInt64
		if v, err := attr.Regular(); err == nil {
			rating = sql.NullInt64{Int64: int64(v), Valid: true}
		}
		if _, err := tx.Exec(insert, id, attr.Code, attr.Description, rating, i); err != nil {
			return 0, fmt.Errorf("failed to store characteristic %s: %w", attr.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit investigator: %w", err)
	}

	inv.ID = id
	return id, nil
}

func (d *Database) createError(err error) error {
	if d.dialect.IsDuplicateKeyError(err) {
		return ErrInvestigatorExists
	}
	return fmt.Errorf("failed to create investigator: %w", err)
}

// GetInvestigator loads an investigator and its characteristics by ID.
func (d *Database) GetInvestigator(id int64) (*investigator.Investigator, error) {
	var inv investigator.Investigator
	var gender string
	var era int

	err := d.db.QueryRow(d.qb.Build(
		`SELECT id, first_name, surname, gender, era, occupation, birthplace, residence, age
		FROM investigators WHERE id = ?`), id,
	).Scan(&inv.ID, &inv.FirstName, &inv.Surname, &gender, &era,
		&inv.Occupation, &inv.Birthplace, &inv.Residence, &inv.Age)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvestigatorNotFound
		}
		return nil, fmt.Errorf("failed to get investigator: %w", err)
	}
	inv.Gender = investigator.Gender(gender)
	inv.Era = investigator.Era(era)

	rows, err := d.db.Query(d.qb.Build(
		"SELECT code, description, rating FROM characteristics WHERE investigator_id = ? ORDER BY position"), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get characteristics: %w", err)
	}
	defer rows.Close()

	var attrs []*stats.Attribute
	for rows.Next() {
		var code, description string
		var rating sql.NullInt64
		if err := rows.Scan(&code, &description, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan characteristic: %w", err)
		}
		attr := stats.NewAttribute(description, code)
		if rating.Valid {
			attr.SetRegular(int(rating.Int64))
		}
		attrs = append(attrs, attr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read characteristics: %w", err)
	}

	inv.ReplaceCharacteristics(attrs)
	return &inv, nil
}

// ListInvestigators returns every stored investigator ordered by ID.
func (d *Database) ListInvestigators() ([]InvestigatorSummary, error) {
	rows, err := d.db.Query(
		"SELECT id, first_name, surname, occupation, era, created_at FROM investigators ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list investigators: %w", err)
	}
	defer rows.Close()

	var list []InvestigatorSummary
	for rows.Next() {
		var s InvestigatorSummary
		var era int
		var createdAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.FirstName, &s.Surname, &s.Occupation, &era, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan investigator: %w", err)
		}
		s.Era = investigator.Era(era)
		if createdAt.Valid {
			s.CreatedAt = createdAt.Time
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DeleteInvestigator removes an investigator. Characteristics cascade.
func (d *Database) DeleteInvestigator(id int64) error {
	result, err := d.db.Exec(d.qb.Build("DELETE FROM investigators WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete investigator: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete investigator: %w", err)
	}
	if n == 0 {
		return ErrInvestigatorNotFound
	}
	return nil
}
