// Package store provides SQLite-backed persistence for objectives and a
// cache of parsed data exports.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pacerhq/pacer/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when an objective lookup matches nothing.
var ErrNotFound = errors.New("objective not found")

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveObjective inserts or replaces an objective and its milestones.
func (s *Store) SaveObjective(o *model.Objective) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT OR REPLACE INTO objectives
		(id, name, metric, period_type, year, month, quarter,
		 target_amount, starting_amount, distribution,
		 segment, product, category, expense_category, client_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID.String(), o.Name, string(o.Metric), string(o.Period.Type),
		o.Period.Year, o.Period.Month, o.Period.Quarter,
		o.TargetAmount, o.StartingAmount, string(o.Distribution),
		o.Filters.Segment, o.Filters.Product, o.Filters.Category,
		o.Filters.ExpenseCategory, o.Filters.ClientID,
		o.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM milestones WHERE objective_id = ?", o.ID.String()); err != nil {
		return err
	}
	for _, m := range o.SortedMilestones() {
		_, err := tx.Exec(`INSERT OR REPLACE INTO milestones (objective_id, day, amount)
			VALUES (?, ?, ?)`, o.ID.String(), m.Day, m.Amount)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListObjectives loads all objectives, newest first.
func (s *Store) ListObjectives() ([]*model.Objective, error) {
	rows, err := s.db.Query(`SELECT
		id, name, metric, period_type, year, month, quarter,
		target_amount, starting_amount, distribution,
		segment, product, category, expense_category, client_id, created_at
		FROM objectives ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var objectives []*model.Objective
	index := make(map[string]*model.Objective)

	for rows.Next() {
		var o model.Objective
		var id, metric, periodType, distribution, createdAt string
		var segment, product, category, expenseCategory, clientID sql.NullString

		err := rows.Scan(&id, &o.Name, &metric, &periodType,
			&o.Period.Year, &o.Period.Month, &o.Period.Quarter,
			&o.TargetAmount, &o.StartingAmount, &distribution,
			&segment, &product, &category, &expenseCategory, &clientID, &createdAt)
		if err != nil {
			return nil, err
		}

		o.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("objective %q: %w", id, err)
		}
		o.Metric = model.Metric(metric)
		o.Period.Type = model.PeriodType(periodType)
		o.Distribution = model.Distribution(distribution)
		o.Filters = model.Filters{
			Segment:         segment.String,
			Product:         product.String,
			Category:        category.String,
			ExpenseCategory: expenseCategory.String,
			ClientID:        clientID.String,
		}
		o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		objectives = append(objectives, &o)
		index[id] = &o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Batch-load milestones
	msRows, err := s.db.Query("SELECT objective_id, day, amount FROM milestones ORDER BY day")
	if err != nil {
		return nil, err
	}
	defer func() { _ = msRows.Close() }()

	for msRows.Next() {
		var oid string
		var m model.Milestone
		if err := msRows.Scan(&oid, &m.Day, &m.Amount); err != nil {
			return nil, err
		}
		if o, ok := index[oid]; ok {
			o.Milestones = append(o.Milestones, m)
		}
	}

	return objectives, msRows.Err()
}

// FindObjective resolves a user-supplied reference: an exact name match or
// an id prefix. Ambiguous references resolve to the first match in list
// order.
func (s *Store) FindObjective(ref string) (*model.Objective, error) {
	objectives, err := s.ListObjectives()
	if err != nil {
		return nil, err
	}

	for _, o := range objectives {
		if strings.EqualFold(o.Name, ref) {
			return o, nil
		}
	}
	for _, o := range objectives {
		if strings.HasPrefix(o.ID.String(), strings.ToLower(ref)) {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

// DeleteObjective removes an objective; milestones cascade.
func (s *Store) DeleteObjective(id uuid.UUID) error {
	res, err := s.db.Exec("DELETE FROM objectives WHERE id = ?", id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// SnapshotInfo holds the tracked source file state for a cached snapshot.
type SnapshotInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// CachedSnapshotInfo returns tracked file info for a snapshot kind and year
// ("clients" uses year 0).
func (s *Store) CachedSnapshotInfo(kind string, year int) (SnapshotInfo, bool, error) {
	var info SnapshotInfo
	err := s.db.QueryRow(`SELECT mtime_ns, size_bytes FROM snapshots
		WHERE kind = ? AND year = ?`, kind, year).Scan(&info.MtimeNs, &info.SizeBytes)
	if errors.Is(err, sql.ErrNoRows) {
		return info, false, nil
	}
	if err != nil {
		return info, false, err
	}
	return info, true, nil
}

// SaveLedgerSnapshot replaces the cached ledger rows for a year.
func (s *Store) SaveLedgerSnapshot(snap model.LedgerSnapshot, path string, mtimeNs, sizeBytes int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM transactions WHERE year = ?", snap.Year); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM expenses WHERE year = ?", snap.Year); err != nil {
		return err
	}

	for _, t := range snap.Transactions {
		_, err := tx.Exec(`INSERT INTO transactions
			(year, month, amount, product, category, client_id, discount)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.Year, t.Month, t.Amount, t.Product, t.Category, t.ClientID, t.Discount)
		if err != nil {
			return err
		}
	}
	for _, e := range snap.Expenses {
		_, err := tx.Exec(`INSERT INTO expenses
			(year, month, category, manual, automatic, adjustment)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.Year, e.Month, e.Category, e.Manual, e.Automatic, e.Adjustment)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO snapshots (kind, year, file_path, mtime_ns, size_bytes)
		VALUES ('ledger', ?, ?, ?, ?)`, snap.Year, path, mtimeNs, sizeBytes)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadLedgerSnapshot reads the cached ledger rows for a year.
func (s *Store) LoadLedgerSnapshot(year int) (model.LedgerSnapshot, error) {
	snap := model.LedgerSnapshot{Year: year}

	rows, err := s.db.Query(`SELECT month, amount, product, category, client_id, discount
		FROM transactions WHERE year = ?`, year)
	if err != nil {
		return snap, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		t := model.Transaction{Year: year}
		var product, category, clientID sql.NullString
		if err := rows.Scan(&t.Month, &t.Amount, &product, &category, &clientID, &t.Discount); err != nil {
			return snap, err
		}
		t.Product = product.String
		t.Category = category.String
		t.ClientID = clientID.String
		snap.Transactions = append(snap.Transactions, t)
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	expRows, err := s.db.Query(`SELECT month, category, manual, automatic, adjustment
		FROM expenses WHERE year = ?`, year)
	if err != nil {
		return snap, err
	}
	defer func() { _ = expRows.Close() }()

	for expRows.Next() {
		e := model.Expense{Year: year}
		if err := expRows.Scan(&e.Month, &e.Category, &e.Manual, &e.Automatic, &e.Adjustment); err != nil {
			return snap, err
		}
		snap.Expenses = append(snap.Expenses, e)
	}
	return snap, expRows.Err()
}

// SaveClientSnapshot replaces the cached client rows.
func (s *Store) SaveClientSnapshot(snap model.ClientSnapshot, path string, mtimeNs, sizeBytes int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM clients"); err != nil {
		return err
	}

	for _, c := range snap.Clients {
		_, err := tx.Exec(`INSERT INTO clients
			(id, name, status, segment, created_at, converted_at,
			 first_purchase_at, last_purchase_at, churned_at, total_revenue, transactions)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, string(c.Status), c.Segment,
			c.CreatedAt.UTC().Format(time.RFC3339),
			timeOrNull(c.ConvertedAt), timeOrNull(c.FirstPurchaseAt),
			timeOrNull(c.LastPurchaseAt), timeOrNull(c.ChurnedAt),
			c.TotalRevenue, c.Transactions)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO snapshots (kind, year, file_path, mtime_ns, size_bytes)
		VALUES ('clients', 0, ?, ?, ?)`, path, mtimeNs, sizeBytes)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadClientSnapshot reads the cached client rows.
func (s *Store) LoadClientSnapshot() (model.ClientSnapshot, error) {
	var snap model.ClientSnapshot

	rows, err := s.db.Query(`SELECT id, name, status, segment, created_at,
		converted_at, first_purchase_at, last_purchase_at, churned_at,
		total_revenue, transactions FROM clients`)
	if err != nil {
		return snap, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c model.Client
		var status, createdAt string
		var name, segment, converted, firstP, lastP, churned sql.NullString

		err := rows.Scan(&c.ID, &name, &status, &segment, &createdAt,
			&converted, &firstP, &lastP, &churned, &c.TotalRevenue, &c.Transactions)
		if err != nil {
			return snap, err
		}

		c.Name = name.String
		c.Status = model.ClientStatus(status)
		c.Segment = segment.String
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		c.ConvertedAt = parseTimePtr(converted)
		c.FirstPurchaseAt = parseTimePtr(firstP)
		c.LastPurchaseAt = parseTimePtr(lastP)
		c.ChurnedAt = parseTimePtr(churned)

		snap.Clients = append(snap.Clients, c)
	}
	return snap, rows.Err()
}

func timeOrNull(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimePtr(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}
