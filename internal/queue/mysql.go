package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"backend-sevapali/internal/models"
)

// MySQLStore is the production Store over the tokens table. Every
// write goes through a single UPDATE guarded by the expected status,
// so a lost race shows up as zero affected rows instead of a silently
// overwritten transition.
type MySQLStore struct {
	DB *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{DB: db}
}

const tokenColumns = `id, token_number, citizen_id, office_id, department_id, status,
	appointment_date, appointment_time, document_refs, served_by, served_at,
	created_at, updated_at`

func (m *MySQLStore) Get(ctx context.Context, id string) (*models.Token, error) {
	row := m.DB.QueryRowContext(ctx, `
		SELECT `+tokenColumns+`
		FROM tokens
		WHERE id = ?
	`, id)
	return scanToken(row)
}

func (m *MySQLStore) GetByNumber(ctx context.Context, tokenNumber string) (*models.Token, error) {
	row := m.DB.QueryRowContext(ctx, `
		SELECT `+tokenColumns+`
		FROM tokens
		WHERE token_number = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, tokenNumber)
	return scanToken(row)
}

func (m *MySQLStore) Insert(ctx context.Context, token *models.Token) error {
	var refs sql.NullString
	if len(token.DocumentRefs) > 0 {
		encoded, err := json.Marshal(token.DocumentRefs)
		if err != nil {
			return fmt.Errorf("encode document refs: %w", err)
		}
		refs = sql.NullString{String: string(encoded), Valid: true}
	}

	_, err := m.DB.ExecContext(ctx, `
		INSERT INTO tokens
		(id, token_number, citizen_id, office_id, department_id, status,
		 appointment_date, appointment_time, document_refs, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		token.ID,
		token.TokenNumber,
		token.CitizenID,
		token.OfficeID,
		token.DepartmentID,
		token.Status,
		token.AppointmentDate,
		token.AppointmentTime,
		refs,
		token.CreatedAt,
		token.UpdatedAt,
	)
	return err
}

// ConditionalUpdate applies the mutation only while the row's status
// still equals expectedStatus. MySQL guarantees the read-check-write of
// a single UPDATE is atomic, which is the whole trick.
func (m *MySQLStore) ConditionalUpdate(ctx context.Context, id, expectedStatus string, mut Mutation) (bool, error) {
	sets := []string{"status = ?", "updated_at = NOW()"}
	args := []interface{}{mut.Status}

	if mut.SetCreatedAt != nil {
		sets = append(sets, "created_at = ?")
		args = append(args, *mut.SetCreatedAt)
	}
	if mut.ClearServed {
		sets = append(sets, "served_by = NULL", "served_at = NULL")
	} else {
		if mut.SetServedBy != nil {
			sets = append(sets, "served_by = ?")
			args = append(args, *mut.SetServedBy)
		}
		if mut.SetServedAt != nil {
			sets = append(sets, "served_at = ?")
			args = append(args, *mut.SetServedAt)
		}
	}

	args = append(args, id, expectedStatus)
	query := fmt.Sprintf(
		"UPDATE tokens SET %s WHERE id = ? AND status = ?",
		strings.Join(sets, ", "),
	)

	result, err := m.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (m *MySQLStore) QueryWaiting(ctx context.Context, key Key) ([]*models.Token, error) {
	rows, err := m.DB.QueryContext(ctx, `
		SELECT `+tokenColumns+`
		FROM tokens
		WHERE office_id = ?
		AND department_id = ?
		AND appointment_date = ?
		AND status = 'waiting'
		ORDER BY created_at ASC, id ASC
	`, key.OfficeID, key.DepartmentID, key.Date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []*models.Token
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func (m *MySQLStore) FindServing(ctx context.Context, key Key) (*models.Token, error) {
	row := m.DB.QueryRowContext(ctx, `
		SELECT `+tokenColumns+`
		FROM tokens
		WHERE office_id = ?
		AND department_id = ?
		AND appointment_date = ?
		AND status = 'serving'
		LIMIT 1
	`, key.OfficeID, key.DepartmentID, key.Date)

	token, err := scanToken(row)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanToken(row rowScanner) (*models.Token, error) {
	var token models.Token
	var apptTime, refs, servedBy sql.NullString
	var servedAt sql.NullTime

	err := row.Scan(
		&token.ID,
		&token.TokenNumber,
		&token.CitizenID,
		&token.OfficeID,
		&token.DepartmentID,
		&token.Status,
		&token.AppointmentDate,
		&apptTime,
		&refs,
		&servedBy,
		&servedAt,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if apptTime.Valid {
		token.AppointmentTime = apptTime.String
	}
	if refs.Valid && refs.String != "" {
		if err := json.Unmarshal([]byte(refs.String), &token.DocumentRefs); err != nil {
			return nil, fmt.Errorf("decode document refs for %s: %w", token.ID, err)
		}
	}
	if servedBy.Valid {
		token.ServedBy = &servedBy.String
	}
	if servedAt.Valid {
		at := servedAt.Time
		token.ServedAt = &at
	}
	return &token, nil
}
