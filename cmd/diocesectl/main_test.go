package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunAgainstSQLite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DIOCESE_STORAGE_DRIVER", "")
	t.Setenv("DIOCESE_REDIS_URL", "")
	t.Setenv("DIOCESE_POSTGRES_DSN", "")
	t.Setenv("DIOCESE_SQLITE_PATH", filepath.Join(dir, "diocese.db"))
	t.Setenv("DIOCESE_BLOB_DRIVER", "fs")
	t.Setenv("DIOCESE_BLOB_FS_ROOT", filepath.Join(dir, "blobs"))

	var stdout, stderr bytes.Buffer
	if code := run([]string{"check", "--format", "json"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"violations": []`) {
		t.Fatalf("unexpected output %q", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"repair"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "written: nothing") {
		t.Fatalf("unexpected repair output %q", stdout.String())
	}
}

func TestRunReportsErrors(t *testing.T) {
	t.Setenv("DIOCESE_STORAGE_DRIVER", "etcd")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"check"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "unknown storage driver etcd") {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}

	stderr.Reset()
	if code := run([]string{"bogus"}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1 for unknown command, got %d", code)
	}
}
