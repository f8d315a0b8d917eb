// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"cityguide/internal/cache"
	"cityguide/internal/database"
	"cityguide/internal/middleware"
	"cityguide/internal/session"
	"cityguide/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "cityguide")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "cityguide")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and response cache keys.
		for _, pattern := range []string{"session:*", "api:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB          *sql.DB
	Valkey      *redis.Client
	Sessions    *session.Store
	Cache       *cache.ResponseCache
	Users       *store.UserStore
	Categories  *Categories
	Types       *Types
	Brands      *Brands
	Businesses  *Businesses
	Attractions *Attractions
	Events      *Events
	SubEvents   *SubEvents
	Sections    *Sections
	Auth        *Auth
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	rc := cache.NewResponseCache(vk, 1*time.Minute)
	users := store.NewUserStore(db)

	return &testEnv{
		DB:          db,
		Valkey:      vk,
		Sessions:    sessions,
		Cache:       rc,
		Users:       users,
		Categories:  NewCategories(store.NewCategoryStore(db), rc),
		Types:       NewTypes(store.NewTypeStore(db), rc),
		Brands:      NewBrands(store.NewBrandStore(db), rc),
		Businesses:  NewBusinesses(store.NewBusinessStore(db), rc),
		Attractions: NewAttractions(store.NewAttractionStore(db), rc),
		Events:      NewEvents(store.NewEventStore(db), rc),
		SubEvents:   NewSubEvents(store.NewSubEventStore(db), rc),
		Sections:    NewSections(store.NewSectionStore(db), rc),
		Auth:        NewAuth(sessions, users),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// operatorSession creates a session.Data for an authenticated operator.
func operatorSession(role string) *session.Data {
	return &session.Data{
		UserID:    uuid.New(),
		Username:  "tester",
		Email:     "tester@test.local",
		Role:      role,
		TwoFADone: true,
	}
}

// jsonRequest builds a request with a JSON-encoded body.
func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asOperator attaches an admin operator session to a request.
func asOperator(r *http.Request) *http.Request {
	return r.WithContext(ctxWithSession(r.Context(), operatorSession("admin")))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody unmarshals a recorder's JSON body into dst.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// cleanRows deletes test rows by slug from the given table.
func cleanRows(t *testing.T, db *sql.DB, table string, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM "+table+" WHERE slug = $1", s)
	}
}

// cleanUsers deletes test accounts by username.
func cleanUsers(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, u := range usernames {
		db.Exec("DELETE FROM users WHERE username = $1", u)
	}
}

// uniqueSlug returns a slug unlikely to collide between test runs.
func uniqueSlug(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}
