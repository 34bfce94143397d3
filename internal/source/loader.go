package source

import (
	"fmt"
	"os"

	"github.com/pacerhq/pacer/internal/model"
	"github.com/pacerhq/pacer/internal/store"
)

// ProgressFunc reports load progress as files complete.
type ProgressFunc func(done, total int)

// LoadResult is the combined outcome of loading the data directory for one
// year: the ledger for that year plus the full client roster.
type LoadResult struct {
	Ledger  model.LedgerSnapshot
	Clients model.ClientSnapshot

	LedgerFound  bool
	ClientsFound bool
	ParseErrors  int
	CacheHits    int
	Reparsed     int
}

// Load discovers export files under dataDir, diffs them against the cache,
// parses only what changed, and returns the snapshots for the given year.
// A nil store disables caching and every discovered file is parsed fresh.
func Load(dataDir string, year int, st *store.Store, progress ProgressFunc) (*LoadResult, error) {
	files, err := ScanDir(dataDir)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{Ledger: model.LedgerSnapshot{Year: year}}

	total := 0
	ledgerFile, hasLedger := LedgerFileFor(files, year)
	if hasLedger {
		total++
	}
	clientsFile, hasClients := ClientsFile(files)
	if hasClients {
		total++
	}
	done := 0

	if hasLedger {
		result.LedgerFound = true
		snap, fromCache, parseErrs, err := loadLedger(ledgerFile, st)
		if err != nil {
			return nil, err
		}
		result.Ledger = snap
		result.ParseErrors += parseErrs
		if fromCache {
			result.CacheHits++
		} else {
			result.Reparsed++
		}
		done++
		if progress != nil {
			progress(done, total)
		}
	}

	if hasClients {
		result.ClientsFound = true
		snap, fromCache, parseErrs, err := loadClients(clientsFile, st)
		if err != nil {
			return nil, err
		}
		result.Clients = snap
		result.ParseErrors += parseErrs
		if fromCache {
			result.CacheHits++
		} else {
			result.Reparsed++
		}
		done++
		if progress != nil {
			progress(done, total)
		}
	}

	return result, nil
}

func loadLedger(f DiscoveredFile, st *store.Store) (model.LedgerSnapshot, bool, int, error) {
	info, statErr := os.Stat(f.Path)

	if st != nil && statErr == nil {
		cached, ok, err := st.CachedSnapshotInfo("ledger", f.Year)
		if err != nil {
			return model.LedgerSnapshot{}, false, 0, fmt.Errorf("reading cache: %w", err)
		}
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			snap, err := st.LoadLedgerSnapshot(f.Year)
			if err == nil {
				return snap, true, 0, nil
			}
			// Fall through to a fresh parse on cache read failure.
		}
	}

	parsed := ParseLedgerFile(f)
	if parsed.Err != nil {
		return model.LedgerSnapshot{}, false, 0, parsed.Err
	}
	if st != nil && statErr == nil {
		_ = st.SaveLedgerSnapshot(parsed.Snapshot, f.Path, info.ModTime().UnixNano(), info.Size())
	}
	return parsed.Snapshot, false, parsed.ParseErrors, nil
}

func loadClients(f DiscoveredFile, st *store.Store) (model.ClientSnapshot, bool, int, error) {
	info, statErr := os.Stat(f.Path)

	if st != nil && statErr == nil {
		cached, ok, err := st.CachedSnapshotInfo("clients", 0)
		if err != nil {
			return model.ClientSnapshot{}, false, 0, fmt.Errorf("reading cache: %w", err)
		}
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			snap, err := st.LoadClientSnapshot()
			if err == nil {
				return snap, true, 0, nil
			}
		}
	}

	parsed := ParseClientsFile(f)
	if parsed.Err != nil {
		return model.ClientSnapshot{}, false, 0, parsed.Err
	}
	if st != nil && statErr == nil {
		_ = st.SaveClientSnapshot(parsed.Snapshot, f.Path, info.ModTime().UnixNano(), info.Size())
	}
	return parsed.Snapshot, false, parsed.ParseErrors, nil
}
