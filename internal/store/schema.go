package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS objectives (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    metric           TEXT NOT NULL,
    period_type      TEXT NOT NULL,
    year             INTEGER NOT NULL,
    month            INTEGER NOT NULL DEFAULT 0,
    quarter          INTEGER NOT NULL DEFAULT 0,
    target_amount    REAL NOT NULL,
    starting_amount  REAL NOT NULL DEFAULT 0,
    distribution     TEXT NOT NULL,
    segment          TEXT,
    product          TEXT,
    category         TEXT,
    expense_category TEXT,
    client_id        TEXT,
    created_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS milestones (
    objective_id     TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
    day              INTEGER NOT NULL,
    amount           REAL NOT NULL,
    PRIMARY KEY (objective_id, day)
);

CREATE TABLE IF NOT EXISTS transactions (
    year             INTEGER NOT NULL,
    month            INTEGER NOT NULL,
    amount           REAL NOT NULL,
    product          TEXT,
    category         TEXT,
    client_id        TEXT,
    discount         REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS expenses (
    year             INTEGER NOT NULL,
    month            INTEGER NOT NULL,
    category         TEXT NOT NULL,
    manual           REAL NOT NULL DEFAULT 0,
    automatic        REAL NOT NULL DEFAULT 0,
    adjustment       REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS clients (
    id               TEXT PRIMARY KEY,
    name             TEXT,
    status           TEXT NOT NULL,
    segment          TEXT,
    created_at       TEXT NOT NULL,
    converted_at     TEXT,
    first_purchase_at TEXT,
    last_purchase_at TEXT,
    churned_at       TEXT,
    total_revenue    REAL NOT NULL DEFAULT 0,
    transactions     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS snapshots (
    kind             TEXT NOT NULL,
    year             INTEGER NOT NULL,
    file_path        TEXT NOT NULL,
    mtime_ns         INTEGER NOT NULL,
    size_bytes       INTEGER NOT NULL,
    PRIMARY KEY (kind, year)
);

CREATE INDEX IF NOT EXISTS idx_transactions_year ON transactions(year, month);
CREATE INDEX IF NOT EXISTS idx_expenses_year ON expenses(year, month);
`
