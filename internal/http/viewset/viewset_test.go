package viewset

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/roleviews/internal/http/errors"
	"github.com/dropDatabas3/roleviews/internal/roles"
)

type note struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Secret string `json:"secret,omitempty"`
}

type noteIn struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type noteStore struct {
	mu    sync.Mutex
	notes []note
}

func (s *noteStore) all() []note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]note(nil), s.notes...)
}

func (s *noteStore) put(n note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == n.ID {
			s.notes[i] = n
			return
		}
	}
	s.notes = append(s.notes, n)
}

func (s *noteStore) del(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return
		}
	}
}

// users: header X-Groups con los grupos separados por coma.
func groupsFromHeader(r *http.Request) (string, roles.User) {
	h := r.Header.Get("X-Groups")
	if h == "" {
		return "", roles.GroupList(nil)
	}
	return "u-" + h, roles.GroupList(strings.Split(h, ","))
}

func newTestServer(t *testing.T, destroy *roles.Hook[DestroyFunc[note]], registry ...string) (*httptest.Server, *noteStore) {
	t.Helper()
	st := &noteStore{notes: []note{
		{ID: "1", Text: "public", Secret: "s1"},
		{ID: "2", Text: "hidden", Secret: "s2"},
	}}

	public := FieldSerializer[note, noteIn]{
		Out:   func(n note) any { return map[string]string{"id": n.ID, "text": n.Text} },
		Apply: func(in noteIn, n *note) { n.ID, n.Text = in.ID, in.Text },
	}
	full := FieldSerializer[note, noteIn]{
		Out:   func(n note) any { return n },
		Apply: public.Apply,
	}

	forbid := func(context.Context, *Request, *note) error { return errors.ErrForbidden }
	save := func(_ context.Context, _ *Request, n *note) error { st.put(*n); return nil }

	hooks := Hooks[note]{
		Queryset: roles.NewHook[QuerysetFunc[note]](roles.HookGetQueryset,
			func(context.Context, *Request) ([]note, error) { return st.all()[:1], nil }).
			For("admin", func(context.Context, *Request) ([]note, error) { return st.all(), nil }),
		Serializer: roles.NewHook[SerializerFunc[note]](roles.HookGetSerializerClass,
			func(context.Context, *Request) (Serializer[note], error) { return public, nil }).
			For("admin", func(context.Context, *Request) (Serializer[note], error) { return full, nil }),
		Create: roles.NewHook[WriteFunc[note]](roles.HookPerformCreate, forbid).For("admin", save),
		Update: roles.NewHook[WriteFunc[note]](roles.HookPerformUpdate, forbid).For("admin", save),
	}
	if destroy == nil {
		destroy = roles.NewHook[DestroyFunc[note]](roles.HookPerformDestroy,
			func(context.Context, *Request, note) error { return errors.ErrForbidden }).
			For("admin", func(_ context.Context, _ *Request, n note) error { st.del(n.ID); return nil })
	}
	hooks.Destroy = destroy

	d, err := roles.New(roles.Config{
		Hooks: roles.NewHookRegistry(registry...),
		Roles: roles.NewRoleSet("admin", "staff"),
	})
	require.NoError(t, err)

	vs, err := New(Config[note]{
		Name:       "notes",
		Dispatcher: d,
		Hooks:      hooks,
		ID:         func(n note) string { return n.ID },
		UserFor:    groupsFromHeader,
		MaxBody:    256,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Mount("/notes", vs.Routes())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, st
}

func do(t *testing.T, srv *httptest.Server, method, path, groups, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if groups != "" {
		req.Header.Set("X-Groups", groups)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestList_AdminOverrideSeesEverything(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := do(t, srv, http.MethodGet, "/notes", "admin", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeList(t, resp)
	require.Len(t, out, 2)
	assert.Equal(t, "s1", out[0]["secret"])
}

func TestList_FallsBackToDefault(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	cases := map[string]string{
		"anonymous":             "",
		"no role group":         "guests",
		"role without override": "staff",
		"ambiguous":             "admin,staff",
	}
	for name, groups := range cases {
		t.Run(name, func(t *testing.T) {
			resp := do(t, srv, http.MethodGet, "/notes", groups, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			out := decodeList(t, resp)
			require.Len(t, out, 1)
			assert.NotContains(t, out[0], "secret")
		})
	}
}

func TestRetrieve_OutsideQuerysetIs404(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/notes/2", "staff", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/notes/2", "admin", "").StatusCode)
}

func TestCreate(t *testing.T) {
	srv, st := newTestServer(t, nil)

	resp := do(t, srv, http.MethodPost, "/notes", "staff", `{"id":"3","text":"x"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/notes", "admin", `{"id":"3","text":"x"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, st.all(), 3)
}

func TestCreate_BadBodies(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := do(t, srv, http.MethodPost, "/notes", "admin", `{"id":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/notes", "admin", `{"unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/notes", "admin", `{"id":"3","text":"`+strings.Repeat("a", 512)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestUpdate_AppliesOntoExisting(t *testing.T) {
	srv, st := newTestServer(t, nil)

	resp := do(t, srv, http.MethodPut, "/notes/2", "admin", `{"id":"2","text":"edited"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, n := range st.all() {
		if n.ID == "2" {
			assert.Equal(t, "edited", n.Text)
			assert.Equal(t, "s2", n.Secret)
		}
	}
}

func TestDestroy(t *testing.T) {
	srv, st := newTestServer(t, nil)

	assert.Equal(t, http.StatusForbidden, do(t, srv, http.MethodDelete, "/notes/1", "", "").StatusCode)
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/notes/1", "admin", "").StatusCode)
	assert.Len(t, st.all(), 1)
}

func TestDestroy_AbstractHookWithoutOverrideIs501(t *testing.T) {
	abstract := roles.NewAbstractHook[DestroyFunc[note]](roles.HookPerformDestroy).
		For("admin", func(context.Context, *Request, note) error { return nil })
	srv, _ := newTestServer(t, abstract)

	assert.Equal(t, http.StatusNotImplemented, do(t, srv, http.MethodDelete, "/notes/1", "staff", "").StatusCode)
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/notes/1", "admin", "").StatusCode)
}

func TestUnregisteredHookIgnoresRole(t *testing.T) {
	// Sólo get_queryset participa del dispatch: el serializer siempre es el default.
	srv, _ := newTestServer(t, nil, roles.HookGetQueryset)

	resp := do(t, srv, http.MethodGet, "/notes", "admin", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeList(t, resp)
	require.Len(t, out, 2)
	assert.NotContains(t, out[0], "secret")
}

func TestNew_RejectsOverrideForUnknownRole(t *testing.T) {
	d, err := roles.New(roles.Config{Roles: roles.NewRoleSet("admin")})
	require.NoError(t, err)

	qs := roles.NewHook[QuerysetFunc[note]](roles.HookGetQueryset,
		func(context.Context, *Request) ([]note, error) { return nil, nil }).
		For("superuser", func(context.Context, *Request) ([]note, error) { return nil, nil })

	_, err = New(Config[note]{
		Name:       "notes",
		Dispatcher: d,
		ID:         func(n note) string { return n.ID },
		Hooks: Hooks[note]{
			Queryset:   qs,
			Serializer: roles.NewAbstractHook[SerializerFunc[note]](roles.HookGetSerializerClass),
			Create:     roles.NewAbstractHook[WriteFunc[note]](roles.HookPerformCreate),
			Update:     roles.NewAbstractHook[WriteFunc[note]](roles.HookPerformUpdate),
			Destroy:    roles.NewAbstractHook[DestroyFunc[note]](roles.HookPerformDestroy),
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "superuser")
}

func TestNew_RequiresAllHooks(t *testing.T) {
	d, err := roles.New(roles.Config{Roles: roles.NewRoleSet("admin")})
	require.NoError(t, err)

	_, err = New(Config[note]{Name: "notes", Dispatcher: d, ID: func(n note) string { return n.ID }})
	require.Error(t, err)
}
