package repository

import (
	"context"
	"testing"
	"time"
)

func TestNewRejectsBadURL(t *testing.T) {
	if _, err := New(context.Background(), "://not a url"); err == nil {
		t.Fatal("New should fail on an unparsable url")
	}
}

func TestNewFailsWhenDatabaseUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	db, err := New(ctx, "postgres://user:pw@127.0.0.1:1/driveoncampus?connect_timeout=1")
	if err == nil {
		db.Close()
		t.Fatal("New should fail when ping fails")
	}
	if db != nil {
		t.Errorf("db = %v, want nil", db)
	}
}
