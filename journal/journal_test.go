package journal_test

import (
	"path/filepath"
	"testing"

	"github.com/mwantia/sftptest/journal"
)

type testJournalFactory func(tst *testing.T) (journal.Journal, error)

func getTestJournalFactories() map[string]testJournalFactory {
	return map[string]testJournalFactory{
		"memory": func(tst *testing.T) (journal.Journal, error) {
			return journal.New("memory", "")
		},
		"sqlite-memory": func(tst *testing.T) (journal.Journal, error) {
			return journal.New("sqlite", ":memory:")
		},
		"sqlite-file": func(tst *testing.T) (journal.Journal, error) {
			return journal.New("sqlite", filepath.Join(tst.TempDir(), "journal.db"))
		},
	}
}

// TestAllJournals_Record verifies ordering, filtering and reset across all backends.
func TestAllJournals_Record(t *testing.T) {
	for name, factory := range getTestJournalFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			j, err := factory(tst)
			if err != nil {
				tst.Fatalf("Failed to create journal: %v", err)
			}
			defer j.Close()

			records := []journal.Entry{
				{Session: "s1", Op: journal.OpOpen, Path: "/a/b"},
				{Session: "s1", Op: journal.OpWrite, Path: "/a/b", Offset: 4, Length: 4},
				{Session: "s2", Op: journal.OpRename, Path: "/a/b", Target: "/a/c"},
				{Session: "s2", Op: journal.OpRemove, Path: "/a/z", Error: "node does not exist"},
			}
			for _, e := range records {
				if err := j.Record(ctx, e); err != nil {
					tst.Fatalf("Record failed: %v", err)
				}
			}

			all, err := j.Entries(ctx, journal.Filter{})
			if err != nil {
				tst.Fatalf("Entries failed: %v", err)
			}
			if len(all) != len(records) {
				tst.Fatalf("Expected %d entries, got %d", len(records), len(all))
			}
			for i, e := range all {
				if e.Op != records[i].Op || e.Path != records[i].Path {
					tst.Errorf("Expected entry %d to be %s, got %s", i, records[i], e)
				}
				if e.Time.IsZero() {
					tst.Errorf("Expected entry %d to be timestamped", i)
				}
			}
			if all[1].Offset != 4 || all[1].Length != 4 {
				tst.Errorf("Expected offset and length to survive, got %d/%d", all[1].Offset, all[1].Length)
			}
			if all[2].Target != "/a/c" || !all[3].Failed() {
				tst.Errorf("Expected target and error to survive, got %v", all)
			}

			renames, _ := j.Entries(ctx, journal.Filter{Op: journal.OpRename})
			if len(renames) != 1 {
				tst.Errorf("Expected one rename, got %d", len(renames))
			}
			session, _ := j.Entries(ctx, journal.Filter{Session: "s1", Path: "/a/b"})
			if len(session) != 2 {
				tst.Errorf("Expected two entries for s1, got %d", len(session))
			}

			if err := j.Reset(ctx); err != nil {
				tst.Fatalf("Reset failed: %v", err)
			}
			if all, _ := j.Entries(ctx, journal.Filter{}); len(all) != 0 {
				tst.Errorf("Expected empty journal after reset, got %d", len(all))
			}
		})
	}
}

// TestJournal_New verifies backend selection.
func TestJournal_New(t *testing.T) {
	tests := map[string]string{
		"":       "memory",
		"memory": "memory",
		"none":   "none",
		"sqlite": "sqlite",
	}

	for typ, expected := range tests {
		j, err := journal.New(typ, "")
		if err != nil {
			t.Fatalf("New(%q) failed: %v", typ, err)
		}
		if j.GetName() != expected {
			t.Errorf("Expected %s, got %s", expected, j.GetName())
		}
		j.Close()
	}

	if _, err := journal.New("redis", ""); err == nil {
		t.Errorf("Expected error for unknown journal type")
	}
}

// TestJournal_Discard verifies that the none journal keeps nothing.
func TestJournal_Discard(t *testing.T) {
	ctx := t.Context()
	j := journal.Discard()

	if err := j.Record(ctx, journal.Entry{Op: journal.OpOpen, Path: "/"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if all, _ := j.Entries(ctx, journal.Filter{}); len(all) != 0 {
		t.Errorf("Expected no entries, got %d", len(all))
	}
}
