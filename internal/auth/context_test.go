package auth

import (
	"context"
	"testing"
)

func TestUserRoundTrip(t *testing.T) {
	ctx := ContextWithUser(context.Background(), "analyst")

	user, ok := UserFromContext(ctx)
	if !ok || user != "analyst" {
		t.Fatalf("expected analyst, got %q (ok=%v)", user, ok)
	}
	if got := UserOrAnonymous(context.Background()); got != AnonymousUser {
		t.Fatalf("expected anonymous fallback, got %q", got)
	}
	if _, ok := UserFromContext(ContextWithUser(context.Background(), "  ")); ok {
		t.Fatalf("blank user should not count as authenticated")
	}
}

func TestCredentialsMatches(t *testing.T) {
	creds := Credentials{Username: "admin", Password: "s3cret"}

	if !creds.Matches("admin", "s3cret") {
		t.Fatalf("expected credentials to match")
	}
	if creds.Matches("admin", "wrong") || creds.Matches("Admin", "s3cret") {
		t.Fatalf("expected mismatched credentials to be rejected")
	}
	if (Credentials{}).Matches("", "") {
		t.Fatalf("unconfigured credentials must never match")
	}
}
