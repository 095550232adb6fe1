package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/SmitChaudhari26/VoxDesk/internal/auth"
	"github.com/SmitChaudhari26/VoxDesk/internal/model"
	"github.com/SmitChaudhari26/VoxDesk/internal/repository/sqlite"
	"github.com/SmitChaudhari26/VoxDesk/internal/service"
)

// testEnv wires real services to an in-memory database so handler tests
// exercise the full stack below the router.
type testEnv struct {
	db    *sqlite.DB
	auths *service.AuthService
	notes *service.NoteService
	todos *service.TodoService
	tasks *service.TaskService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)

	return &testEnv{
		db:    db,
		auths: service.NewAuthService(sqlite.NewUserRepo(db), tokens, passwords, logger),
		notes: service.NewNoteService(sqlite.NewNoteRepo(db), logger),
		todos: service.NewTodoService(sqlite.NewTodoRepo(db), logger),
		tasks: service.NewTaskService(sqlite.NewTaskRepo(db), logger),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// registerUser creates an account and returns the stored user.
func registerUser(t *testing.T, env *testEnv, email string) *model.User {
	t.Helper()
	result, err := env.auths.Register(context.Background(), email, "s3cretpw", "")
	if err != nil {
		t.Fatalf("registering %s: %v", email, err)
	}
	return result.User
}

// authedRequest builds a request whose context carries the given user, as
// it would after passing through RequireAuth.
func authedRequest(method, target string, body io.Reader, user *model.User) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(auth.ContextWithUser(req.Context(), user))
}
