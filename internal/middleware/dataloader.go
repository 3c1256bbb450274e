package middleware

import (
	"context"
	"net/http"

	"github.com/rpattn/bidash/internal/entityloader"
	"github.com/rpattn/bidash/internal/repository"
)

type ctxKey string

const accountLoaderKey ctxKey = "accountLoader"

// DataLoaderMiddleware attaches a request scoped account loader to the context
func DataLoaderMiddleware(repo repository.DatasetRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loader := entityloader.NewAccountLoader(repo)
			ctx := context.WithValue(r.Context(), accountLoaderKey, loader)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountLoaderFromContext retrieves the account loader from context
func AccountLoaderFromContext(ctx context.Context) *entityloader.AccountLoader {
	if l, ok := ctx.Value(accountLoaderKey).(*entityloader.AccountLoader); ok {
		return l
	}
	return nil
}
