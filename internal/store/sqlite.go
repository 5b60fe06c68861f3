// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tradergym/internal/errors"
	"tradergym/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Funded/personal accounts with their drawdown rules
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		initial_balance REAL NOT NULL,
		max_drawdown REAL NOT NULL,
		drawdown_type TEXT NOT NULL,
		is_pa INTEGER DEFAULT 0,
		trailing_stop_threshold REAL DEFAULT 0,
		risk_settings TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Journaled trades
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		date TEXT NOT NULL,
		symbol TEXT,
		pnl_net REAL NOT NULL,
		status TEXT NOT NULL,
		discipline_score INTEGER DEFAULT 3,
		execution_error TEXT DEFAULT 'None',
		according_to_plan TEXT DEFAULT '',
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (account_id) REFERENCES accounts(id)
	);

	-- Morning check-ins, one per account per day
	CREATE TABLE IF NOT EXISTS daily_prep (
		account_id TEXT NOT NULL,
		date TEXT NOT NULL,
		hrv_value REAL,
		hrv_baseline REAL,
		sleep_hours REAL,
		physical_score INTEGER,
		mental_score INTEGER,
		emotional_score INTEGER,
		process_score INTEGER,
		uncertainty_accepted INTEGER DEFAULT 0,
		daily_risk_amount REAL DEFAULT 0,
		habit_discipline_score INTEGER DEFAULT 0,
		journal_completed INTEGER DEFAULT 0,
		gatekeeper_score INTEGER DEFAULT 0,
		verdict TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (account_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id);
	CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
	CREATE INDEX IF NOT EXISTS idx_prep_date ON daily_prep(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Accounts Methods
// ============================================================================

// SaveAccount inserts or replaces an account.
func (s *SQLiteStore) SaveAccount(ctx context.Context, account *models.Account) error {
	if account == nil || account.ID == "" {
		return errors.NewValidationError("account", account, "account and id are required")
	}

	riskJSON, _ := json.Marshal(account.RiskSettings)
	isPA := 0
	if account.IsPA {
		isPA = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO accounts (id, name, initial_balance, max_drawdown, drawdown_type, is_pa, trailing_stop_threshold, risk_settings, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, account.ID, account.Name, account.InitialBalance, account.MaxDrawdown, string(account.DrawdownType), isPA, account.TrailingStopThreshold, string(riskJSON))
	if err != nil {
		return errors.NewStoreError("save", "account", account.ID, err)
	}
	return nil
}

// GetAccount retrieves an account by ID.
func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, initial_balance, max_drawdown, drawdown_type, is_pa, trailing_stop_threshold, risk_settings
		FROM accounts WHERE id = ?
	`, id)

	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrAccountNotFound
	}
	if err != nil {
		return nil, errors.NewStoreError("get", "account", id, err)
	}
	return account, nil
}

// ListAccounts retrieves all accounts ordered by name.
func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, initial_balance, max_drawdown, drawdown_type, is_pa, trailing_stop_threshold, risk_settings
		FROM accounts ORDER BY name ASC
	`)
	if err != nil {
		return nil, errors.NewStoreError("list", "account", "", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, errors.NewStoreError("scan", "account", "", err)
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

// UpdateMaxDailyRisk writes an accepted risk suggestion back into the
// account's risk settings.
func (s *SQLiteStore) UpdateMaxDailyRisk(ctx context.Context, accountID string, maxDailyRisk float64) error {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if account.RiskSettings == nil {
		account.RiskSettings = &models.AccountRiskSettings{}
	}
	account.RiskSettings.MaxDailyRisk = maxDailyRisk
	return s.SaveAccount(ctx, account)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	var ddType string
	var isPA int
	var riskJSON sql.NullString

	if err := row.Scan(&a.ID, &a.Name, &a.InitialBalance, &a.MaxDrawdown, &ddType, &isPA, &a.TrailingStopThreshold, &riskJSON); err != nil {
		return nil, err
	}

	a.DrawdownType = models.DrawdownType(ddType)
	a.IsPA = isPA == 1
	if riskJSON.Valid && riskJSON.String != "" && riskJSON.String != "null" {
		var rs models.AccountRiskSettings
		if err := json.Unmarshal([]byte(riskJSON.String), &rs); err == nil {
			a.RiskSettings = &rs
		}
	}
	return &a, nil
}

// ============================================================================
// Trades Methods
// ============================================================================

// LogTrade saves a trade to the database.
func (s *SQLiteStore) LogTrade(ctx context.Context, trade *models.Trade) error {
	if trade == nil || trade.ID == "" {
		return errors.NewValidationError("trade", trade, "trade and id are required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO trades (id, account_id, date, symbol, pnl_net, status, discipline_score, execution_error, according_to_plan, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.ID, trade.AccountID, trade.Date, trade.Symbol, trade.PnLNet, string(trade.Status), trade.DisciplineScore, string(trade.ExecutionError), string(trade.IsAccordingToPlan), trade.Notes)
	if err != nil {
		return errors.NewStoreError("save", "trade", trade.ID, err)
	}
	return nil
}

// LogTrades saves a batch of trades in one transaction.
func (s *SQLiteStore) LogTrades(ctx context.Context, trades []models.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO trades (id, account_id, date, symbol, pnl_net, status, discipline_score, execution_error, according_to_plan, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		_, err := stmt.ExecContext(ctx, t.ID, t.AccountID, t.Date, t.Symbol, t.PnLNet, string(t.Status), t.DisciplineScore, string(t.ExecutionError), string(t.IsAccordingToPlan), t.Notes)
		if err != nil {
			return errors.NewStoreError("batch save", "trade", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTrades retrieves trades from the database, most recent first.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := "SELECT id, account_id, date, symbol, pnl_net, status, discipline_score, execution_error, according_to_plan, notes FROM trades WHERE 1=1"
	args := []interface{}{}

	if filter.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Date != "" {
		query += " AND date = ?"
		args = append(args, filter.Date)
	}
	if filter.StartDate != "" {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}

	query += " ORDER BY date DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreError("query", "trade", "", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var status, execErr, plan string
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Date, &t.Symbol, &t.PnLNet, &status, &t.DisciplineScore, &execErr, &plan, &t.Notes); err != nil {
			return nil, errors.NewStoreError("scan", "trade", "", err)
		}
		t.Status = models.TradeStatus(status)
		t.ExecutionError = models.ExecutionError(execErr)
		t.IsAccordingToPlan = models.PlanAdherence(plan)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// ============================================================================
// Daily Prep Methods
// ============================================================================

// SavePrep inserts or replaces the check-in for an account and date.
func (s *SQLiteStore) SavePrep(ctx context.Context, accountID string, prep *models.DailyPrepData) error {
	if prep == nil || prep.Date == "" {
		return errors.NewValidationError("prep", prep, "prep and date are required")
	}

	boolInt := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO daily_prep (account_id, date, hrv_value, hrv_baseline, sleep_hours, physical_score, mental_score, emotional_score, process_score, uncertainty_accepted, daily_risk_amount, habit_discipline_score, journal_completed, gatekeeper_score, verdict)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, accountID, prep.Date, prep.HRVValue, prep.HRVBaseline, prep.SleepHours,
		prep.PhysicalScore, prep.MentalScore, prep.EmotionalScore, prep.ProcessScore,
		boolInt(prep.UncertaintyAccepted), prep.DailyRiskAmount, prep.HabitDisciplineScore,
		boolInt(prep.JournalCompleted), prep.GatekeeperScore, string(prep.Verdict))
	if err != nil {
		return errors.NewStoreError("save", "prep", prep.Date, err)
	}
	return nil
}

// GetPrep retrieves the check-in for an account and date.
func (s *SQLiteStore) GetPrep(ctx context.Context, accountID, date string) (*models.DailyPrepData, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT date, hrv_value, hrv_baseline, sleep_hours, physical_score, mental_score, emotional_score, process_score, uncertainty_accepted, daily_risk_amount, habit_discipline_score, journal_completed, gatekeeper_score, verdict
		FROM daily_prep WHERE account_id = ? AND date = ?
	`, accountID, date)

	var p models.DailyPrepData
	var uncertainty, journal int
	var verdict string
	err := row.Scan(&p.Date, &p.HRVValue, &p.HRVBaseline, &p.SleepHours,
		&p.PhysicalScore, &p.MentalScore, &p.EmotionalScore, &p.ProcessScore,
		&uncertainty, &p.DailyRiskAmount, &p.HabitDisciplineScore,
		&journal, &p.GatekeeperScore, &verdict)
	if err == sql.ErrNoRows {
		return nil, errors.ErrPrepNotFound
	}
	if err != nil {
		return nil, errors.NewStoreError("get", "prep", date, err)
	}

	p.UncertaintyAccepted = uncertainty == 1
	p.JournalCompleted = journal == 1
	p.Verdict = models.Verdict(verdict)
	return &p, nil
}
