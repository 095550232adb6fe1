package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SmitChaudhari26/VoxDesk/internal/auth"
	"github.com/SmitChaudhari26/VoxDesk/internal/handler"
)

func TestAuthHandler_Register(t *testing.T) {
	env := newTestEnv(t)
	h := handler.NewAuthHandler(env.auths, nil, testLogger())

	t.Run("creates account", func(t *testing.T) {
		body := `{"email":"alice@example.com","password":"s3cretpw","name":"Alice"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		h.HandleRegister(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res handler.AuthResponse
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "alice@example.com", res.User.Email)
		assert.Equal(t, "Alice", res.User.Name)
	})

	t.Run("response never leaks credentials", func(t *testing.T) {
		body := `{"email":"bob@example.com","password":"s3cretpw"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		h.HandleRegister(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), "password")
		assert.NotContains(t, rr.Body.String(), "$2a$")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		body := `{"email":"carol@example.com","password":"s3cretpw"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
		h.HandleRegister(httptest.NewRecorder(), req)

		req = httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		h.HandleRegister(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		for _, body := range []string{
			`{"password":"s3cretpw"}`,
			`{"email":"dave@example.com"}`,
			`{not json`,
		} {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
			rr := httptest.NewRecorder()
			h.HandleRegister(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", body)
		}
	})
}

func TestAuthHandler_Login(t *testing.T) {
	env := newTestEnv(t)
	h := handler.NewAuthHandler(env.auths, nil, testLogger())
	registerUser(t, env, "alice@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		body := `{"email":"alice@example.com","password":"s3cretpw"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		h.HandleLogin(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res handler.AuthResponse
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotEmpty(t, res.Token)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		bodies := []string{
			`{"email":"alice@example.com","password":"wrongpw1"}`,
			`{"email":"nobody@example.com","password":"s3cretpw"}`,
		}
		var responses []string
		for _, body := range bodies {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
			rr := httptest.NewRecorder()
			h.HandleLogin(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			responses = append(responses, rr.Body.String())
		}
		assert.Equal(t, responses[0], responses[1])
	})
}

func TestAuthHandler_GoogleSignIn(t *testing.T) {
	env := newTestEnv(t)

	// Fake tokeninfo endpoint: "good-token" verifies, anything else is 400.
	tokeninfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "id_token=good-token") {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
			return
		}
		exp := time.Now().Add(time.Hour).Unix()
		fmt.Fprintf(w, `{"aud":"test-client-id","sub":"g-123","email":"gina@example.com","name":"Gina","exp":"%d"}`, exp)
	}))
	t.Cleanup(tokeninfo.Close)

	google := auth.NewGoogleProviderForTest("test-client-id", tokeninfo.URL, tokeninfo.URL)
	h := handler.NewAuthHandler(env.auths, google, testLogger())

	t.Run("valid token signs in", func(t *testing.T) {
		body := `{"idToken":"good-token"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/google", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		h.HandleGoogleSignIn(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res handler.AuthResponse
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "gina@example.com", res.User.Email)
	})

	t.Run("rejected token is 401", func(t *testing.T) {
		body := `{"idToken":"forged-token"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/google", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		h.HandleGoogleSignIn(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("empty token is 400", func(t *testing.T) {
		body := `{"idToken":""}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/google", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		h.HandleGoogleSignIn(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_GoogleLogin_SetsStateCookie(t *testing.T) {
	env := newTestEnv(t)
	google := auth.NewGoogleProviderForTest("test-client-id", "http://unused", "http://unused")
	h := handler.NewAuthHandler(env.auths, google, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/login", nil)
	rr := httptest.NewRecorder()

	h.HandleGoogleLogin(rr, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)

	var state string
	for _, c := range rr.Result().Cookies() {
		if c.Name == "oauth_state" {
			state = c.Value
		}
	}
	assert.NotEmpty(t, state)
	assert.Contains(t, rr.Header().Get("Location"), "state="+state)
}

func TestAuthHandler_GoogleCallback_StateMismatch(t *testing.T) {
	env := newTestEnv(t)
	google := auth.NewGoogleProviderForTest("test-client-id", "http://unused", "http://unused")
	h := handler.NewAuthHandler(env.auths, google, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "expected"})
	rr := httptest.NewRecorder()

	h.HandleGoogleCallback(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuthHandler_Profile(t *testing.T) {
	env := newTestEnv(t)
	h := handler.NewAuthHandler(env.auths, nil, testLogger())
	user := registerUser(t, env, "alice@example.com")

	req := authedRequest(http.MethodGet, "/api/profile", nil, user)
	rr := httptest.NewRecorder()

	h.HandleProfile(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var res map[string]any
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, "alice@example.com", res["email"])
	assert.Equal(t, user.ID, res["id"])
	assert.NotContains(t, res, "passwordHash")
}
