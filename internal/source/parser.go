package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pacerhq/pacer/internal/model"
)

// LedgerResult holds a parsed ledger file.
type LedgerResult struct {
	Snapshot    model.LedgerSnapshot
	ParseErrors int
	Err         error
}

// ClientsResult holds a parsed clients file.
type ClientsResult struct {
	Snapshot    model.ClientSnapshot
	ParseErrors int
	Err         error
}

// maxLineBytes bounds a single export line; lines are small JSON objects.
const maxLineBytes = 1 << 20

// ParseLedgerFile reads one ledger export. Lines that fail to decode or
// carry an unknown kind are counted and skipped.
func ParseLedgerFile(f DiscoveredFile) LedgerResult {
	result := LedgerResult{Snapshot: model.LedgerSnapshot{Year: f.Year}}

	file, err := os.Open(f.Path)
	if err != nil {
		result.Err = fmt.Errorf("opening %s: %w", f.Path, err)
		return result
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var raw ledgerLine
		if err := json.Unmarshal(line, &raw); err != nil {
			result.ParseErrors++
			continue
		}

		switch raw.Kind {
		case "transaction":
			if !validMonth(raw.Month) {
				result.ParseErrors++
				continue
			}
			result.Snapshot.Transactions = append(result.Snapshot.Transactions, model.Transaction{
				Amount:   raw.Amount,
				Month:    raw.Month,
				Year:     raw.Year,
				Product:  raw.Product,
				Category: raw.Category,
				ClientID: raw.ClientID,
				Discount: raw.Discount,
			})
		case "expense":
			if !validMonth(raw.Month) {
				result.ParseErrors++
				continue
			}
			result.Snapshot.Expenses = append(result.Snapshot.Expenses, model.Expense{
				Category:   raw.Category,
				Month:      raw.Month,
				Year:       raw.Year,
				Manual:     raw.Manual,
				Automatic:  raw.Automatic,
				Adjustment: raw.Adjustment,
			})
		default:
			result.ParseErrors++
		}
	}

	if err := scanner.Err(); err != nil {
		result.Err = fmt.Errorf("reading %s: %w", f.Path, err)
	}
	return result
}

// ParseClientsFile reads the clients export. Records without an id are
// counted as parse errors and skipped.
func ParseClientsFile(f DiscoveredFile) ClientsResult {
	var result ClientsResult

	file, err := os.Open(f.Path)
	if err != nil {
		result.Err = fmt.Errorf("opening %s: %w", f.Path, err)
		return result
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var raw clientLine
		if err := json.Unmarshal(line, &raw); err != nil {
			result.ParseErrors++
			continue
		}
		if raw.ID == "" {
			result.ParseErrors++
			continue
		}

		result.Snapshot.Clients = append(result.Snapshot.Clients, raw.toModel())
	}

	if err := scanner.Err(); err != nil {
		result.Err = fmt.Errorf("reading %s: %w", f.Path, err)
	}
	return result
}

func validMonth(m int) bool {
	return m >= 1 && m <= 12
}
