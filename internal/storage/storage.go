package storage

import (
	"database/sql"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

type Store struct {
	db *sql.DB
}

type Item struct {
	ID       int64  `json:"item_id"`
	Name     string `json:"item_name"`
	Category string `json:"category"`
}

type Sale struct {
	ItemID   int64
	At       time.Time
	Quantity int
	Amount   float64
}

// HourlySales maps an hour (0-23) to the revenue taken in that hour.
type HourlySales map[int]float64

// DataDir is ~/.local/share/cafetel, created on demand.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback: get home dir from user.Current()
		if u, userErr := user.Current(); userErr == nil {
			home = u.HomeDir
		} else {
			return "", err
		}
	}
	dataDir := filepath.Join(home, ".local", "share", "cafetel")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// New opens the default database in DataDir.
func New() (*Store, error) {
	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(dataDir, "cafetel.db"))
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		item_id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_name TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id INTEGER NOT NULL REFERENCES items(item_id),
		transaction_date TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		total_amount REAL NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(transaction_date);
	CREATE INDEX IF NOT EXISTS idx_transactions_item ON transactions(item_id, transaction_date);

	CREATE TABLE IF NOT EXISTS settings (
		setting_key TEXT PRIMARY KEY,
		setting_value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// AddItem inserts an item, or returns the existing id for that name.
func (s *Store) AddItem(name, category string) (int64, error) {
	_, err := s.db.Exec(
		"INSERT INTO items (item_name, category) VALUES (?, ?) ON CONFLICT(item_name) DO NOTHING",
		name, category,
	)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRow("SELECT item_id FROM items WHERE item_name = ?", name).Scan(&id)
	return id, err
}

func (s *Store) Items() ([]Item, error) {
	rows, err := s.db.Query("SELECT item_id, item_name, category FROM items ORDER BY item_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Category); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Item looks up one item; sql.ErrNoRows if it does not exist.
func (s *Store) Item(id int64) (*Item, error) {
	it := Item{ID: id}
	err := s.db.QueryRow("SELECT item_name, category FROM items WHERE item_id = ?", id).
		Scan(&it.Name, &it.Category)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Store) RecordSale(sale Sale) error {
	_, err := s.db.Exec(
		"INSERT INTO transactions (item_id, transaction_date, quantity, total_amount) VALUES (?, ?, ?, ?)",
		sale.ItemID, sale.At.Format(dateTimeLayout), sale.Quantity, sale.Amount,
	)
	return err
}

// RecordSales inserts many sales in one transaction.
func (s *Store) RecordSales(sales []Sale) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO transactions (item_id, transaction_date, quantity, total_amount) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sale := range sales {
		if _, err := stmt.Exec(sale.ItemID, sale.At.Format(dateTimeLayout), sale.Quantity, sale.Amount); err != nil {
			return fmt.Errorf("insert sale for item %d: %w", sale.ItemID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (setting_key, setting_value) VALUES (?, ?)
		ON CONFLICT(setting_key) DO UPDATE SET
			setting_value = excluded.setting_value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// Setting returns the value for key; ok is false when it is unset.
func (s *Store) Setting(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow("SELECT setting_value FROM settings WHERE setting_key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// DailySales returns revenue per date string for dates in [from, to).
func (s *Store) DailySales(from, to time.Time) (map[string]float64, error) {
	rows, err := s.db.Query(`
		SELECT DATE(transaction_date) AS sale_date, SUM(total_amount)
		FROM transactions
		WHERE DATE(transaction_date) >= ? AND DATE(transaction_date) < ?
		GROUP BY sale_date
	`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make(map[string]float64)
	for rows.Next() {
		var date string
		var total float64
		if err := rows.Scan(&date, &total); err != nil {
			return nil, err
		}
		sales[date] = total
	}
	return sales, rows.Err()
}

// HourlySales returns revenue per date per hour for dates in [from, to).
func (s *Store) HourlySales(from, to time.Time) (map[string]HourlySales, error) {
	rows, err := s.db.Query(`
		SELECT DATE(transaction_date) AS sale_date,
			CAST(strftime('%H', transaction_date) AS INTEGER) AS hour_num,
			SUM(total_amount)
		FROM transactions
		WHERE DATE(transaction_date) >= ? AND DATE(transaction_date) < ?
		GROUP BY sale_date, hour_num
	`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make(map[string]HourlySales)
	for rows.Next() {
		var date string
		var hour int
		var total float64
		if err := rows.Scan(&date, &hour, &total); err != nil {
			return nil, err
		}
		if sales[date] == nil {
			sales[date] = make(HourlySales)
		}
		if hour >= 0 && hour < 24 {
			sales[date][hour] = total
		}
	}
	return sales, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
