package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseURL(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@db:5432/shop", "pgx5://u:p@db:5432/shop"},
		{"postgresql://db/shop?sslmode=disable", "pgx5://db/shop?sslmode=disable"},
		{"u:p@db:5432/shop", "pgx5://u:p@db:5432/shop"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, databaseURL(tt.dsn), tt.dsn)
	}
}
