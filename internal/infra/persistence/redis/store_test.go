package redis

import (
	"context"
	"strings"
	"testing"

	goredis "github.com/redis/go-redis/v9"
)

func TestOpenRejectsBadURL(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := Open(context.Background(), "http://not-redis"); err == nil || !strings.Contains(err.Error(), "parse redis URL") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestKeyPrefix(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })
	if got := New(client).key("clergy"); got != "diocese:clergy" {
		t.Fatalf("unexpected default key %q", got)
	}
	if got := New(client, WithPrefix("test:"), nil).key("parishes"); got != "test:parishes" {
		t.Fatalf("unexpected prefixed key %q", got)
	}
}
