package repository

import (
	"context"
	"database/sql"

	"inkwell/internal/domain"
)

const accountColumns = `id, login_name, display_name, email, password_hash, role, provider, created_at`

// AccountRepo persists accounts in SQLite. The UNIQUE index on login_name is
// the provisioning guard: a concurrent duplicate insert surfaces as a
// domain.ConflictError.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *AccountRepo) GetByLoginName(ctx context.Context, loginName string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE login_name = ?`, loginName)
	return scanAccount(row)
}

func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (login_name, display_name, email, password_hash, role, provider)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.LoginName, a.DisplayName, nullStr(a.Email), a.PasswordHash, string(a.Role), a.Provider)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *AccountRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Account, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY id LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, total, rows.Err()
}

func (r *AccountRepo) SetRole(ctx context.Context, id int64, role domain.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("account %d not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	var email sql.NullString
	var role string
	if err := row.Scan(&a.ID, &a.LoginName, &a.DisplayName, &email,
		&a.PasswordHash, &role, &a.Provider, &a.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	a.Email = strPtr(email)
	a.Role = domain.Role(role)
	return &a, nil
}
