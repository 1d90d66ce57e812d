package catalog

import (
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	ddl := `-- leading comment
CREATE TABLE a (
    id TEXT PRIMARY KEY
);

-- another comment
CREATE INDEX idx_a ON a (id);
CREATE TABLE b (id TEXT)`

	statements := splitStatements(ddl)
	if len(statements) != 3 {
		t.Fatalf("statements = %d, want 3", len(statements))
	}
	if !strings.Contains(statements[0], "CREATE TABLE a") {
		t.Errorf("first statement = %q", statements[0])
	}
	if !strings.Contains(statements[1], "CREATE INDEX idx_a") {
		t.Errorf("second statement = %q", statements[1])
	}
	if !strings.Contains(statements[2], "CREATE TABLE b") {
		t.Errorf("third statement = %q", statements[2])
	}
	for _, stmt := range statements {
		if strings.Contains(stmt, "comment") {
			t.Errorf("comment line leaked into statement %q", stmt)
		}
	}
}

func TestDefaultSchemaStatements(t *testing.T) {
	statements := splitStatements(defaultSchema)
	if len(statements) < 5 {
		t.Fatalf("embedded schema yields %d statements, expected the full table set", len(statements))
	}

	joined := strings.Join(statements, "\n")
	for _, table := range []string{"patients", "studies", "series", "instances", "schema_info"} {
		if !strings.Contains(joined, table) {
			t.Errorf("embedded schema missing %s", table)
		}
	}
}
