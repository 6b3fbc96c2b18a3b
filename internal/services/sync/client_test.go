package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
)

// memoryKV is a map-backed KeyValueStorage
type memoryKV struct {
	values map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}}
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return v, nil
}

func (m *memoryKV) Set(ctx context.Context, key, value, description string) error {
	m.values[key] = value
	return nil
}

func (m *memoryKV) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memoryKV) GetAll(ctx context.Context) (map[string]string, error) {
	return m.values, nil
}

func newTestClient(serverURL string, kv interfaces.KeyValueStorage) *Client {
	return NewClient(serverURL, kv, WithRateLimit(0), WithLogger(arbor.NewLogger()))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_FallsThroughNotFoundToSecondCandidate(t *testing.T) {
	var tried []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tried = append(tried, r.URL.Path)
		switch r.URL.Path {
		case "/auth/login":
			var creds models.Credentials
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "ann@example.com", creds.Email)
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"token": "tok-1",
				"user":  map[string]string{"email": "ann@example.com", "name": "Ann"},
			})
		case "/api/me":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]string{"email": "ann@example.com"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	kv := newMemoryKV()
	client := newTestClient(server.URL, kv)

	user, err := client.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, []string{"/api/auth/login", "/auth/login"}, tried)
	assert.Equal(t, "tok-1", kv.values[common.KeySyncToken])

	me, err := client.Me(context.Background())
	require.NoError(t, err)
	require.NotNil(t, me)
	assert.Equal(t, "ann@example.com", me.Email)
}

func TestLogin_BasicAuthFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			http.NotFound(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "bob@example.com" || pass != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": "basic-tok"})
	}))
	defer server.Close()

	kv := newMemoryKV()
	user, err := newTestClient(server.URL, kv).Login(context.Background(), "bob@example.com", "pw")
	require.NoError(t, err)

	// No user object in the response: built from the email
	assert.Equal(t, "bob@example.com", user.Email)
	assert.Equal(t, "bob", user.Name)
	assert.Equal(t, "basic-tok", kv.values[common.KeySyncToken])
}

func TestLogin_NoEndpoint(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := newTestClient(server.URL, newMemoryKV()).Login(context.Background(), "a@b.c", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEndpointNotFound)
	assert.True(t, IsSyncError(err))
	assert.Contains(t, err.Error(), "login endpoint not found")
}

func TestLogin_ServerErrorIsSyncError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, newMemoryKV()).Login(context.Background(), "a@b.c", "pw")
	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, http.StatusInternalServerError, syncErr.Status)
	assert.Equal(t, "login", syncErr.Op)
}

func TestLogin_UnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestClient(url, newMemoryKV()).Login(context.Background(), "a@b.c", "pw")
	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Zero(t, syncErr.Status)
}

func TestRegister_FallbackUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/register" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"token": "reg-tok"})
	}))
	defer server.Close()

	kv := newMemoryKV()
	user, err := newTestClient(server.URL, kv).Register(context.Background(), "c@d.e", "pw", "Cee")
	require.NoError(t, err)
	assert.Equal(t, &models.User{Email: "c@d.e", Name: "Cee"}, user)
	assert.Equal(t, "reg-tok", kv.values[common.KeySyncToken])
}

func TestMe_UnauthorizedIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	user, err := newTestClient(server.URL, newMemoryKV()).Me(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestLogout_ClearsToken(t *testing.T) {
	kv := newMemoryKV()
	kv.values[common.KeySyncToken] = "tok"
	client := newTestClient("http://unused", kv)

	assert.True(t, client.IsAuthenticated(context.Background()))
	require.NoError(t, client.Logout(context.Background()))
	assert.False(t, client.IsAuthenticated(context.Background()))
}

func TestIsAuthenticated_JWTExpiry(t *testing.T) {
	sign := func(exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		})
		signed, err := token.SignedString([]byte("server-secret"))
		require.NoError(t, err)
		return signed
	}

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"no token", "", false},
		{"opaque token", "abc123", true},
		{"valid jwt", sign(time.Now().Add(time.Hour)), true},
		{"expired jwt", sign(time.Now().Add(-time.Hour)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemoryKV()
			if tt.token != "" {
				kv.values[common.KeySyncToken] = tt.token
			}
			assert.Equal(t, tt.want, newTestClient("http://unused", kv).IsAuthenticated(context.Background()))
		})
	}
}

func TestListDocuments_ArrayOrEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"array", `[{"id":"doc_1","title":"A","type":"pdf"}]`},
		{"envelope", `{"items":[{"id":"doc_1","title":"A","type":"pdf"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/docs" {
					http.NotFound(w, r)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			docs, err := newTestClient(server.URL, newMemoryKV()).ListDocuments(context.Background())
			require.NoError(t, err)
			require.Len(t, docs, 1)
			assert.Equal(t, "doc_1", docs[0].ID)
			assert.Equal(t, models.DocumentTypePDF, docs[0].Type)
		})
	}
}

func TestListDocuments_MissingEndpointIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	docs, err := newTestClient(server.URL, newMemoryKV()).ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestPathsFromConfig_OverridesOnlyGivenLists(t *testing.T) {
	paths := PathsFromConfig(common.SyncPathsConfig{Login: []string{"/v2/session"}})
	assert.Equal(t, []string{"/v2/session"}, paths.Login)
	assert.Equal(t, DefaultPaths().Me, paths.Me)
}
