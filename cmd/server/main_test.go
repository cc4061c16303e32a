package main

import (
	"testing"
)

func TestNewLogger(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		if _, err := newLogger(lvl); err != nil {
			t.Fatalf("newLogger(%q) err=%v", lvl, err)
		}
	}
	if _, err := newLogger("verbose"); err == nil {
		t.Fatal("want error for unknown level")
	}
}

func TestFlagsFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	cmd := newRootCmd()
	if got := cmd.Flags().Lookup("http-addr").DefValue; got != ":9999" {
		t.Fatalf("http-addr default=%q want :9999", got)
	}
	if got := cmd.Flags().Lookup("log-level").DefValue; got != "info" {
		t.Fatalf("log-level default=%q want info", got)
	}
}
