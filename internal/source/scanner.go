package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ScanDir finds export files in the data directory: ledger_<year>.jsonl and
// clients.jsonl. A missing directory is not an error; it reads as no data.
func ScanDir(dataDir string) ([]DiscoveredFile, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading data dir: %w", err)
	}

	var files []DiscoveredFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		path := filepath.Join(dataDir, name)

		switch {
		case name == "clients.jsonl":
			files = append(files, DiscoveredFile{Path: path, Kind: KindClients})
		case strings.HasPrefix(name, "ledger_") && strings.HasSuffix(name, ".jsonl"):
			yearStr := strings.TrimSuffix(strings.TrimPrefix(name, "ledger_"), ".jsonl")
			year, err := strconv.Atoi(yearStr)
			if err != nil || year < 1900 || year > 9999 {
				continue
			}
			files = append(files, DiscoveredFile{Path: path, Kind: KindLedger, Year: year})
		}
	}

	return files, nil
}

// LedgerFileFor returns the discovered ledger file for a year, if any.
func LedgerFileFor(files []DiscoveredFile, year int) (DiscoveredFile, bool) {
	for _, f := range files {
		if f.Kind == KindLedger && f.Year == year {
			return f, true
		}
	}
	return DiscoveredFile{}, false
}

// ClientsFile returns the discovered clients file, if any.
func ClientsFile(files []DiscoveredFile) (DiscoveredFile, bool) {
	for _, f := range files {
		if f.Kind == KindClients {
			return f, true
		}
	}
	return DiscoveredFile{}, false
}
