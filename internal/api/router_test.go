package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
	"github.com/99minutos/user-service/internal/core/service"
	"github.com/99minutos/user-service/internal/infrastructure/security"
)

// memRepo is an in-memory ports.UserRepository for full-stack router tests.
type memRepo struct {
	mu     sync.Mutex
	users  map[int64]domain.User
	nextID int64
	err    error
	writes int
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[int64]domain.User)}
}

func (r *memRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	r.writes++
	stored := *u
	stored.ID = r.nextID
	r.users[stored.ID] = stored
	return &stored, nil
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for id := int64(1); id <= r.nextID; id++ {
		if u, ok := r.users[id]; ok && u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *memRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.writes++
	r.users[u.ID] = *u
	return nil
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	r.writes++
	delete(r.users, id)
	return nil
}

func (r *memRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.User, 0, len(r.users))
	for id := int64(1); id <= r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, &u)
		}
	}
	return out, nil
}

func (r *memRepo) Ping(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *memRepo) fail(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

type testServer struct {
	handler http.Handler
	repo    *memRepo
}

func newTestServer(t *testing.T, exposeList bool) *testServer {
	t.Helper()
	hasher, err := security.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	repo := newMemRepo()
	svc := service.NewUserService(repo, hasher, zerolog.Nop())

	e := NewRouter(Dependencies{
		Users:          svc,
		HealthChecks:   map[string]ports.Pinger{"store": repo},
		Log:            zerolog.Nop(),
		ExposeUserList: exposeList,
	})
	return &testServer{handler: e, repo: repo}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp.Message
}

func createAnn(t *testing.T, s *testServer) int64 {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/user", `{"name":"Ann","email":"ann@x.com","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string `json:"message"`
		Data    struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "User record saved" || resp.Data.ID == 0 {
		t.Fatalf("unexpected create response: %+v", resp)
	}
	return resp.Data.ID
}

func TestRouter_HelloWorld(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || messageOf(t, rec) != "Hello World" {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestRouter_CreateThenAuthenticate(t *testing.T) {
	s := newTestServer(t, false)
	id := createAnn(t, s)

	rec := s.do(t, http.MethodPost, "/user/search", `{"email":"ann@x.com","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(id) || resp["name"] != "Ann" || resp["email"] != "ann@x.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["passwordHash"]; leaked {
		t.Fatalf("authentication response must not carry the hash")
	}
}

func TestRouter_AuthenticationFailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t, false)
	createAnn(t, s)

	wrong := s.do(t, http.MethodPost, "/user/search", `{"email":"ann@x.com","password":"wrong"}`)
	unknown := s.do(t, http.MethodPost, "/user/search", `{"email":"nobody@x.com","password":"secret1"}`)

	if wrong.Code != http.StatusBadRequest || unknown.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for both, got %d and %d", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("bodies differ: %q vs %q", wrong.Body.String(), unknown.Body.String())
	}
	if messageOf(t, wrong) != "User not found" {
		t.Fatalf("unexpected message %q", messageOf(t, wrong))
	}
}

func TestRouter_SearchMissingCredentials(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/user/search", `{"email":"ann@x.com"}`)
	if rec.Code != http.StatusBadRequest || messageOf(t, rec) != "email or password missing" {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_CreateRejectsInvalidInputWithoutWrites(t *testing.T) {
	s := newTestServer(t, false)

	for _, body := range []string{
		`{"name":"Ann","email":"not-an-email","password":"secret1"}`,
		`{"email":"ann@x.com","password":"secret1"}`,
		`{"name":"Ann","email":"ann@x.com","password":""}`,
		`{"name":"Ann","email":"ann@x.com","password":"` + strings.Repeat("p", 73) + `"}`,
	} {
		rec := s.do(t, http.MethodPost, "/user", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
		if messageOf(t, rec) != "missing or invalid input" {
			t.Fatalf("%s: unexpected message %q", body, messageOf(t, rec))
		}
	}
	if s.repo.writes != 0 {
		t.Fatalf("expected no writes, got %d", s.repo.writes)
	}
}

func TestRouter_UpdateReplacesCredentials(t *testing.T) {
	s := newTestServer(t, false)
	id := createAnn(t, s)
	path := "/user/" + strconv.FormatInt(id, 10)

	rec := s.do(t, http.MethodPut, path, `{"name":"Ann B","email":"annb@x.com","password":"secret2"}`)
	if rec.Code != http.StatusOK || messageOf(t, rec) != "User record updated" {
		t.Fatalf("update: unexpected response %d: %s", rec.Code, rec.Body.String())
	}

	old := s.do(t, http.MethodPost, "/user/search", `{"email":"annb@x.com","password":"secret1"}`)
	if old.Code != http.StatusBadRequest {
		t.Fatalf("old password must fail, got %d", old.Code)
	}
	fresh := s.do(t, http.MethodPost, "/user/search", `{"email":"annb@x.com","password":"secret2"}`)
	if fresh.Code != http.StatusOK {
		t.Fatalf("new password must verify, got %d", fresh.Code)
	}
}

func TestRouter_UpdateUnknownIDSkipsValidation(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPut, "/user/99", `{"name":""}`)
	if rec.Code != http.StatusNotFound || messageOf(t, rec) != "User not found" {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_UpdateInvalidPayload(t *testing.T) {
	s := newTestServer(t, false)
	id := createAnn(t, s)
	writes := s.repo.writes

	rec := s.do(t, http.MethodPut, "/user/"+strconv.FormatInt(id, 10), `{"name":"Ann"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if s.repo.writes != writes {
		t.Fatalf("invalid update must not write")
	}
}

func TestRouter_DeleteLifecycle(t *testing.T) {
	s := newTestServer(t, false)
	id := createAnn(t, s)
	path := "/user/" + strconv.FormatInt(id, 10)

	rec := s.do(t, http.MethodDelete, path, "")
	if rec.Code != http.StatusOK || messageOf(t, rec) != "User record deleted" {
		t.Fatalf("delete: unexpected response %d: %s", rec.Code, rec.Body.String())
	}

	again := s.do(t, http.MethodDelete, path, "")
	if again.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", again.Code)
	}

	put := s.do(t, http.MethodPut, path, `{"name":"Ann","email":"ann@x.com","password":"secret1"}`)
	if put.Code != http.StatusNotFound {
		t.Fatalf("update after delete: expected 404, got %d", put.Code)
	}

	search := s.do(t, http.MethodPost, "/user/search", `{"email":"ann@x.com","password":"secret1"}`)
	if search.Code != http.StatusBadRequest {
		t.Fatalf("search after delete: expected 400, got %d", search.Code)
	}
}

func TestRouter_NonNumericIDIsNotFound(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodDelete, "/user/abc", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_DuplicateEmailsAuthenticateOldest(t *testing.T) {
	s := newTestServer(t, false)
	first := createAnn(t, s)
	second := createAnn(t, s)
	if first == second {
		t.Fatalf("expected distinct ids")
	}

	rec := s.do(t, http.MethodPost, "/user/search", `{"email":"ann@x.com","password":"secret1"}`)
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != first {
		t.Fatalf("expected lowest id %d, got %d", first, resp.ID)
	}
}

func TestRouter_ListOnlyWhenExposed(t *testing.T) {
	hidden := newTestServer(t, false)
	if rec := hidden.do(t, http.MethodGet, "/user", ""); rec.Code == http.StatusOK {
		t.Fatalf("list must not be served when not exposed")
	}

	s := newTestServer(t, true)
	createAnn(t, s)

	rec := s.do(t, http.MethodGet, "/user", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var rows []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	hash, _ := rows[0]["passwordHash"].(string)
	if !strings.HasPrefix(hash, "$2") || hash == "secret1" {
		t.Fatalf("expected stored bcrypt hash, got %q", hash)
	}
}

func TestRouter_StoreFailureIsGenericServerError(t *testing.T) {
	s := newTestServer(t, true)
	s.repo.fail(errors.New("dial tcp: connection refused"))

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/user", `{"name":"Ann","email":"ann@x.com","password":"secret1"}`},
		{http.MethodPost, "/user/search", `{"email":"ann@x.com","password":"secret1"}`},
		{http.MethodDelete, "/user/1", ""},
		{http.MethodGet, "/user", ""},
	} {
		rec := s.do(t, tc.method, tc.path, tc.body)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s %s: expected 500, got %d", tc.method, tc.path, rec.Code)
		}
		if messageOf(t, rec) != "server error" {
			t.Fatalf("%s %s: unexpected message %q", tc.method, tc.path, messageOf(t, rec))
		}
		if strings.Contains(rec.Body.String(), "connection refused") {
			t.Fatalf("internal error leaked to client")
		}
	}
}

func TestRouter_Readiness(t *testing.T) {
	s := newTestServer(t, false)

	if rec := s.do(t, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	s.repo.fail(errors.New("down"))
	if rec := s.do(t, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound || messageOf(t, rec) != "Not Found" {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_MetricsExposeHTTPAndDomainSeries(t *testing.T) {
	s := newTestServer(t, false)
	createAnn(t, s)

	rec := s.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, series := range []string{
		`users_echo_requests_total{`,
		`url="/user"`,
		`users_operations_total{operation="create",result="ok"}`,
	} {
		if !strings.Contains(body, series) {
			t.Fatalf("expected %s in metrics output", series)
		}
	}
	if strings.Contains(body, `url="/metrics"`) {
		t.Fatalf("scrapes must not be counted")
	}
}
