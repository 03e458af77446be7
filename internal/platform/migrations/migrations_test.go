package migrations

import (
	"io"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func TestEmbeddedSourcesAreWellFormed(t *testing.T) {
	src, err := iofs.New(sources, "sql")
	if err != nil {
		t.Fatalf("load sources: %v", err)
	}
	defer src.Close()

	version, err := src.First()
	if err != nil {
		t.Fatalf("first version: %v", err)
	}

	prev := uint(0)
	for {
		if version <= prev {
			t.Fatalf("versions not strictly increasing: %d after %d", version, prev)
		}
		prev = version

		up, _, err := src.ReadUp(version)
		if err != nil {
			t.Fatalf("version %d missing up migration: %v", version, err)
		}
		up.Close()

		down, _, err := src.ReadDown(version)
		if err != nil {
			t.Fatalf("version %d missing down migration: %v", version, err)
		}
		down.Close()

		next, err := src.Next(version)
		if err != nil {
			break
		}
		version = next
	}
}

func TestInitialMigrationCreatesExamplesTable(t *testing.T) {
	src, err := iofs.New(sources, "sql")
	if err != nil {
		t.Fatalf("load sources: %v", err)
	}
	defer src.Close()

	version, err := src.First()
	if err != nil {
		t.Fatalf("first version: %v", err)
	}

	up, _, err := src.ReadUp(version)
	if err != nil {
		t.Fatalf("read up: %v", err)
	}
	defer up.Close()

	body, err := io.ReadAll(up)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "CREATE TABLE IF NOT EXISTS examples") {
		t.Fatalf("initial migration does not create examples table:\n%s", body)
	}
}
