package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiscountMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_discounts.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no discount migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS discounts",
		"FOREIGN KEY (store_id) REFERENCES stores(id) ON DELETE CASCADE",
		"CHECK (buy_quantity IS NULL OR buy_quantity > 0)",
		"CHECK (get_quantity IS NULL OR get_quantity > 0)",
		"DROP TABLE IF EXISTS discounts",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOutboxMigrationGuardsDuplicateEmission(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_outbox.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no outbox migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "ux_outbox_events_event_aggregate") {
		t.Error("missing unique emission guard index")
	}
	if !strings.Contains(content, "outbox_dlq") {
		t.Error("missing dead letter table")
	}
}
