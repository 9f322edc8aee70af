package datasource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLitePath(t *testing.T) {
	tests := []struct {
		name string
		conn string
		want string
	}{
		{"triple slash relative", "sqlite:///sample.db", "sample.db"},
		{"quadruple slash absolute", "sqlite:////tmp/sample.db", "/tmp/sample.db"},
		{"bare path", "sqlite:sample.db", "sample.db"},
		{"double slash", "sqlite://sample.db", "sample.db"},
		{"empty", "sqlite:", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqlitePath(tt.conn))
		})
	}
}

func TestOpen_RoutesSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.db")
	src, err := Open(context.Background(), "sqlite:///"+path, zap.NewNop())
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "sqlite", src.Kind())
	assert.NoError(t, src.Ping(context.Background()))
}

func TestOpen_RoutesFileURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uri.db")
	src, err := Open(context.Background(), "file:"+path, zap.NewNop())
	require.NoError(t, err)
	defer src.Close()

	assert.NoError(t, src.Ping(context.Background()))
}

func TestOpen_RejectsUnsupported(t *testing.T) {
	tests := []string{
		"mysql://root@localhost/db",
		"not a connection string",
		"",
		"sqlite:",
	}
	for _, conn := range tests {
		_, err := Open(context.Background(), conn, zap.NewNop())
		assert.Error(t, err, "connection string %q should be rejected", conn)
	}
}
