package badgerkv

import (
	"testing"

	"github.com/mirelcoau/tristore/pkg/kv"
)

func TestSetGetAcrossTransactions(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("failed to open backend: %v", err)
	}
	defer s.Close()

	write, err := s.Begin(true)
	if err != nil {
		t.Fatalf("begin write: %v", err)
	}
	if err := write.Set(kv.SPO, []byte("key"), []byte("value")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := write.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	read, err := s.Begin(false)
	if err != nil {
		t.Fatalf("begin read: %v", err)
	}
	defer read.Rollback()

	got, err := read.Get(kv.SPO, []byte("key"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("got %q, want %q", got, "value")
	}
}

func TestTablesDoNotCollide(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("failed to open backend: %v", err)
	}
	defer s.Close()

	txn, err := s.Begin(true)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	_ = txn.Set(kv.SPO, []byte("k"), []byte("spo"))
	_ = txn.Set(kv.POS, []byte("k"), []byte("pos"))
	if err := txn.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	read, _ := s.Begin(false)
	defer read.Rollback()
	spoVal, err := read.Get(kv.SPO, []byte("k"))
	if err != nil || string(spoVal) != "spo" {
		t.Errorf("spo table got %q, %v", spoVal, err)
	}
	posVal, err := read.Get(kv.POS, []byte("k"))
	if err != nil || string(posVal) != "pos" {
		t.Errorf("pos table got %q, %v", posVal, err)
	}
}

func TestRollbackDiscardsUncommitted(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("failed to open backend: %v", err)
	}
	defer s.Close()

	txn, _ := s.Begin(true)
	_ = txn.Set(kv.SPO, []byte("k"), []byte("v"))
	if err := txn.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	read, _ := s.Begin(false)
	defer read.Rollback()
	if _, err := read.Get(kv.SPO, []byte("k")); err != kv.ErrNotFound {
		t.Errorf("expected ErrNotFound after rollback, got %v", err)
	}
}

func TestScanInclusiveClosedRange(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("failed to open backend: %v", err)
	}
	defer s.Close()

	txn, _ := s.Begin(true)
	for _, k := range []string{"a", "b", "c", "d"} {
		_ = txn.Set(kv.SPO, []byte(k), []byte(k))
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	read, err := s.Begin(false)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer read.Rollback()

	it, err := read.Scan(kv.SPO, []byte("b"), []byte("c"))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	defer it.Close()

	var got []string
	for it.Next() {
		got = append(got, string(it.Key()))
	}
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("expected [b c], got %v", got)
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("failed to open backend: %v", err)
	}
	defer s.Close()

	txn, err := s.Begin(false)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer txn.Rollback()
	if err := txn.Set(kv.SPO, []byte("k"), []byte("v")); err != kv.ErrReadOnly {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}
