package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseFromURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"path names todo", "mongodb://localhost:27017/todo", "todo"},
		{"path names another database", "mongodb://h/other", "other"},
		{"options after path", "mongodb://h:27017/tasks?retryWrites=true", "tasks"},
		{"no path", "mongodb://localhost:27017", DefaultDatabase},
		{"empty path", "mongodb://localhost:27017/", DefaultDatabase},
		{"wrong scheme", "http://localhost/other", DefaultDatabase},
		{"not a uri", "::::", DefaultDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DatabaseFromURI(tt.uri))
		})
	}
}

func TestOpenMongoRejectsMalformedURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	driver, err := OpenMongo(ctx, "not-a-mongo-uri", "")
	require.Error(t, err)
	assert.Nil(t, driver)
	assert.Contains(t, err.Error(), "failed to connect to mongo")
}
