package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeExport creates a temp JSONL file and returns a DiscoveredFile for it.
func writeExport(t *testing.T, kind FileKind, year int, lines ...string) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	name := "clients.jsonl"
	if kind == KindLedger {
		name = "ledger_2025.jsonl"
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return DiscoveredFile{Path: path, Kind: kind, Year: year}
}

func TestParseLedgerFile(t *testing.T) {
	f := writeExport(t, KindLedger, 2025,
		`{"kind":"transaction","amount":1200,"month":3,"year":2025,"product":"saas","category":"subscriptions","client_id":"c1"}`,
		`{"kind":"transaction","amount":500,"month":3,"year":2025,"discount":50}`,
		`{"kind":"expense","category":"marketing","month":3,"year":2025,"manual":300,"automatic":100,"adjustment":-25}`,
	)

	result := ParseLedgerFile(f)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.ParseErrors != 0 {
		t.Errorf("ParseErrors = %d, want 0", result.ParseErrors)
	}

	s := result.Snapshot
	if s.Year != 2025 {
		t.Errorf("Year = %d, want 2025", s.Year)
	}
	if len(s.Transactions) != 2 {
		t.Fatalf("Transactions = %d, want 2", len(s.Transactions))
	}
	if s.Transactions[0].Amount != 1200 || s.Transactions[0].Product != "saas" {
		t.Errorf("first transaction = %+v", s.Transactions[0])
	}
	if len(s.Expenses) != 1 {
		t.Fatalf("Expenses = %d, want 1", len(s.Expenses))
	}
	if got := s.Expenses[0].Amount(); got != 375 {
		t.Errorf("expense amount = %.2f, want 375 (300+100-25)", got)
	}
}

func TestParseLedgerFile_MalformedLines(t *testing.T) {
	f := writeExport(t, KindLedger, 2025,
		`not json`,
		`{"kind":"transaction","amount":100,"month":6,"year":2025}`,
		`{"kind":"mystery","amount":5}`,
		`{"kind":"transaction","amount":100,"month":13,"year":2025}`,
	)

	result := ParseLedgerFile(f)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Snapshot.Transactions) != 1 {
		t.Errorf("Transactions = %d, want 1", len(result.Snapshot.Transactions))
	}
	if result.ParseErrors != 3 {
		t.Errorf("ParseErrors = %d, want 3", result.ParseErrors)
	}
}

func TestParseClientsFile(t *testing.T) {
	f := writeExport(t, KindClients, 0,
		`{"id":"c1","name":"Acme","status":"active","segment":"enterprise","created_at":"2025-01-10T00:00:00Z","converted_at":"2025-01-20T00:00:00Z","total_revenue":1200,"transactions":3}`,
		`{"id":"c2","name":"Beta","status":"lead","created_at":"2025-06-05T00:00:00Z"}`,
		`{"name":"no id","status":"lead","created_at":"2025-06-05T00:00:00Z"}`,
	)

	result := ParseClientsFile(f)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Snapshot.Clients) != 2 {
		t.Fatalf("Clients = %d, want 2", len(result.Snapshot.Clients))
	}
	if result.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1 (missing id)", result.ParseErrors)
	}

	c := result.Snapshot.Clients[0]
	if c.ConvertedAt == nil || !c.ConvertedAt.Equal(time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ConvertedAt = %v, want 2025-01-20", c.ConvertedAt)
	}
	if result.Snapshot.Clients[1].ConvertedAt != nil {
		t.Error("lead without conversion has non-nil ConvertedAt")
	}
}

func TestParseClientsFile_EmptyFile(t *testing.T) {
	f := writeExport(t, KindClients, 0)
	result := ParseClientsFile(f)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Snapshot.Clients) != 0 {
		t.Errorf("Clients = %d, want 0", len(result.Snapshot.Clients))
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"clients.jsonl", "ledger_2024.jsonl", "ledger_2025.jsonl", "notes.txt", "ledger_abc.jsonl"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("discovered %d files, want 3", len(files))
	}

	if _, ok := ClientsFile(files); !ok {
		t.Error("clients file not discovered")
	}
	if f, ok := LedgerFileFor(files, 2024); !ok || f.Year != 2024 {
		t.Errorf("ledger 2024 not discovered: %+v", f)
	}
	if _, ok := LedgerFileFor(files, 2023); ok {
		t.Error("found ledger for year with no file")
	}
}

func TestScanDir_Missing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if files != nil {
		t.Errorf("files = %v, want nil", files)
	}
}

// FuzzParseLedgerLine checks the line decoder never panics on arbitrary
// input, since export files are untrusted.
func FuzzParseLedgerLine(f *testing.F) {
	f.Add(`{"kind":"transaction","amount":100,"month":6,"year":2025}`)
	f.Add(`{"kind":"expense","category":"marketing","month":1,"year":2025,"manual":1}`)
	f.Add(`not json`)
	f.Add(`{}`)
	f.Add(`{"kind":null}`)
	f.Add(`{"kind":"transaction","month":-1}`)
	f.Add(``)

	f.Fuzz(func(t *testing.T, line string) {
		dir := t.TempDir()
		path := filepath.Join(dir, "ledger_2025.jsonl")
		if err := os.WriteFile(path, []byte(line+"\n"), 0o600); err != nil {
			t.Skip()
		}
		result := ParseLedgerFile(DiscoveredFile{Path: path, Kind: KindLedger, Year: 2025})
		for _, tx := range result.Snapshot.Transactions {
			if tx.Month < 1 || tx.Month > 12 {
				t.Errorf("accepted transaction with month %d", tx.Month)
			}
		}
	})
}
