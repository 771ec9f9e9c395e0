package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/medium-api/internal/api"
	"github.com/phrazzld/medium-api/internal/platform/memstore"
	"github.com/phrazzld/medium-api/internal/service"
	"github.com/phrazzld/medium-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// testServer drives the real router over an in-memory store.
type testServer struct {
	t       *testing.T
	handler http.Handler
	jwt     auth.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mem := memstore.New()
	log := slog.New(slog.DiscardHandler)

	users, err := service.NewUserService(mem.Users(), mem.Blogs(), auth.NewBcryptHasher(4), log)
	require.NoError(t, err)
	blogs, err := service.NewBlogService(mem.Blogs(), log)
	require.NoError(t, err)
	likes, err := service.NewLikeService(mem.Likes(), log)
	require.NoError(t, err)

	jwtService := auth.RequireTestJWTService(t)

	return &testServer{
		t:   t,
		jwt: jwtService,
		handler: api.NewRouter(api.RouterConfig{
			UserService: users,
			BlogService: blogs,
			LikeService: likes,
			JWTService:  jwtService,
			Logger:      log,
		}),
	}
}

// do sends a request as userID, or anonymously when userID is uuid.Nil.
// A string body is sent verbatim; anything else is JSON encoded.
func (s *testServer) do(method, path string, body any, userID uuid.UUID) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		req.Header.Set("Authorization", auth.GenerateAuthHeaderForTestingT(s.t, s.jwt, userID))
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// signup registers a user and returns the ID carried by the issued token.
func (s *testServer) signup(email, name string) uuid.UUID {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/v1/user/signup", map[string]any{
		"email":    email,
		"password": "secret123",
		"name":     name,
	}, uuid.Nil)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[api.SignupResponse](s.t, rec)
	claims, err := s.jwt.ValidateToken(context.Background(), resp.Token)
	require.NoError(s.t, err)
	return claims.UserID
}

// createBlog creates a post as authorID and returns its ID.
func (s *testServer) createBlog(authorID uuid.UUID, title string, published bool) uuid.UUID {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/v1/blog", map[string]any{
		"title":     title,
		"content":   []map[string]any{{"insert": title + " body"}},
		"published": published,
	}, authorID)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[api.BlogMutationResponse](s.t, rec).Blog.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// errorBody mirrors the error envelope.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	TraceID string          `json:"trace_id"`
}

type fieldsBody struct {
	Fields []api.FieldError `json:"fields"`
}

func decodeFields(t *testing.T, rec *httptest.ResponseRecorder) []api.FieldError {
	t.Helper()

	body := decode[errorBody](t, rec)
	require.Equal(t, "invalid input", body.Message)

	var fields fieldsBody
	require.NoError(t, json.Unmarshal(body.Error, &fields), string(body.Error))
	return fields.Fields
}
