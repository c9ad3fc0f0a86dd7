package schematool

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ridge/parallel"
	"github.com/stratadb/strata/dialect"
	"github.com/stratadb/strata/test"
	"github.com/stretchr/testify/require"
)

const statusSchema = `
[[table]]
name = "app_user"

[[table.column]]
name = "Status"
storage = "status"

[[table.index]]
name = "app_user_status_idx"
fields = ["Status"]
`

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "app.toml")
	outPath := filepath.Join(dir, "app.sql")
	require.NoError(t, os.WriteFile(schemaPath, []byte(userSchema), 0o644))

	group := test.Group(t)
	config := Config{SchemaFile: schemaPath, Backend: dialect.Postgres(), Out: outPath}
	group.Spawn("watch", parallel.Fail, func(ctx context.Context) error {
		return Watch(ctx, config)
	})

	waitForScript(t, outPath, "app_user_email_idx")

	// a save of the schema file triggers regeneration
	require.NoError(t, os.WriteFile(schemaPath, []byte(statusSchema), 0o644))
	waitForScript(t, outPath, "app_user_status_idx")

	// a broken save is logged and skipped; the next good save recovers
	require.NoError(t, os.WriteFile(schemaPath, []byte(`[[table]`), 0o644))
	require.NoError(t, os.WriteFile(schemaPath, []byte(userSchema), 0o644))
	waitForScript(t, outPath, "app_user_email_idx")
}

func waitForScript(t *testing.T, path, marker string) {
	t.Helper()
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && strings.Contains(string(data), marker)
	}, 10*time.Second, 10*time.Millisecond)
}
