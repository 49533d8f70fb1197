package history

const schema = `
CREATE TABLE IF NOT EXISTS scans (
    id TEXT PRIMARY KEY,
    observed_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    scan_id TEXT NOT NULL,
    port INTEGER NOT NULL,
    process_name TEXT NOT NULL,
    pid INTEGER NOT NULL,
    observed_at TIMESTAMP NOT NULL,
    FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_entries_port ON entries(port);
CREATE INDEX IF NOT EXISTS idx_entries_observed ON entries(observed_at);
CREATE INDEX IF NOT EXISTS idx_entries_scan ON entries(scan_id);
`
