package viewset

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/roleviews/internal/http/errors"
	"github.com/dropDatabas3/roleviews/internal/observability/logger"
	"github.com/dropDatabas3/roleviews/internal/roles"
)

// defaultMaxBody tamaño máximo del body en create/update.
const defaultMaxBody = 1 << 20

// Config configura un ViewSet.
type Config[T any] struct {
	// Name del recurso (logs).
	Name string

	Dispatcher *roles.Dispatcher
	Hooks      Hooks[T]

	// ID retorna la clave del objeto para lookups por {id}.
	ID func(obj T) string

	// UserFor obtiene el usuario del request. nil => anónimo.
	UserFor func(r *http.Request) (userID string, user roles.User)

	// MaxBody límite en bytes del body. 0 => 1MiB.
	MaxBody int64
}

// ViewSet sirve un recurso cuyo comportamiento depende del rol del usuario.
type ViewSet[T any] struct {
	cfg Config[T]
}

// New valida la configuración, incluyendo overrides declarados para roles desconocidos.
func New[T any](cfg Config[T]) (*ViewSet[T], error) {
	if cfg.Dispatcher == nil {
		return nil, stderrors.New("viewset: nil dispatcher")
	}
	if cfg.ID == nil {
		return nil, stderrors.New("viewset: nil ID func")
	}
	h := cfg.Hooks
	if h.Queryset == nil || h.Serializer == nil || h.Create == nil || h.Update == nil || h.Destroy == nil {
		return nil, fmt.Errorf("viewset %s: all five hooks are required", cfg.Name)
	}
	if err := cfg.Dispatcher.Validate(h.describers()...); err != nil {
		return nil, fmt.Errorf("viewset %s: %w", cfg.Name, err)
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = defaultMaxBody
	}
	return &ViewSet[T]{cfg: cfg}, nil
}

// Routes retorna el router del recurso, listo para r.Mount.
func (v *ViewSet[T]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", v.list)
	r.Post("/", v.create)
	r.Get("/{id}", v.retrieve)
	r.Put("/{id}", v.update)
	r.Delete("/{id}", v.destroy)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, r, errors.ErrMethodNotAllowed)
	})
	return r
}

func (v *ViewSet[T]) request(r *http.Request, action Action) (*Request, context.Context) {
	req := &Request{HTTP: r, Action: action, User: roles.GroupList(nil)}
	if v.cfg.UserFor != nil {
		req.UserID, req.User = v.cfg.UserFor(r)
	}
	ctx := logger.ToContext(r.Context(), logger.From(r.Context(),
		logger.Resource(v.cfg.Name),
		logger.Action(string(action)),
	))
	return req, ctx
}

// ─── Hook calls ───

func (v *ViewSet[T]) getQueryset(ctx context.Context, req *Request) ([]T, error) {
	fn, _, err := roles.Select(ctx, v.cfg.Dispatcher, v.cfg.Hooks.Queryset, req.User)
	if err != nil {
		return nil, err
	}
	return fn(ctx, req)
}

func (v *ViewSet[T]) getSerializer(ctx context.Context, req *Request) (Serializer[T], error) {
	fn, _, err := roles.Select(ctx, v.cfg.Dispatcher, v.cfg.Hooks.Serializer, req.User)
	if err != nil {
		return nil, err
	}
	return fn(ctx, req)
}

func (v *ViewSet[T]) performWrite(ctx context.Context, hook *roles.Hook[WriteFunc[T]], req *Request, obj *T) error {
	fn, _, err := roles.Select(ctx, v.cfg.Dispatcher, hook, req.User)
	if err != nil {
		return err
	}
	return fn(ctx, req, obj)
}

func (v *ViewSet[T]) performDestroy(ctx context.Context, req *Request, obj T) error {
	fn, _, err := roles.Select(ctx, v.cfg.Dispatcher, v.cfg.Hooks.Destroy, req.User)
	if err != nil {
		return err
	}
	return fn(ctx, req, obj)
}

// getObject busca {id} dentro del queryset del rol.
func (v *ViewSet[T]) getObject(ctx context.Context, req *Request) (T, error) {
	var zero T
	id := chi.URLParam(req.HTTP, "id")
	qs, err := v.getQueryset(ctx, req)
	if err != nil {
		return zero, err
	}
	for _, obj := range qs {
		if v.cfg.ID(obj) == id {
			return obj, nil
		}
	}
	return zero, errors.ErrNotFound
}

// ─── Actions ───

func (v *ViewSet[T]) list(w http.ResponseWriter, r *http.Request) {
	req, ctx := v.request(r, ActionList)

	qs, err := v.getQueryset(ctx, req)
	if err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}
	ser, err := v.getSerializer(ctx, req)
	if err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}

	out := make([]any, len(qs))
	for i, obj := range qs {
		out[i] = ser.Represent(obj)
	}
	writeJSON(w, http.StatusOK, out)
}

func (v *ViewSet[T]) retrieve(w http.ResponseWriter, r *http.Request) {
	req, ctx := v.request(r, ActionRetrieve)

	obj, err := v.getObject(ctx, req)
	if err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}
	ser, err := v.getSerializer(ctx, req)
	if err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, http.StatusOK, ser.Represent(obj))
}

func (v *ViewSet[T]) create(w http.ResponseWriter, r *http.Request) {
	req, ctx := v.request(r, ActionCreate)

	ser, err := v.getSerializer(ctx, req)
	if err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}
	var obj T
	if err := v.decode(w, r, ser, &obj); err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}
	if err := v.performWrite(ctx, v.cfg.Hooks.Create, req, &obj); err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, http.StatusCreated, ser.Represent(obj))
}

func (v *ViewSet[T]) update(w http.ResponseWriter, r *http.Request) {
	req, ctx := v.request(r, ActionUpdate)

	obj, err := v.getObject(ctx, req)
	if err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}
	ser, err := v.getSerializer(ctx, req)
	if err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}
	if err := v.decode(w, r, ser, &obj); err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}
	if err := v.performWrite(ctx, v.cfg.Hooks.Update, req, &obj); err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, http.StatusOK, ser.Represent(obj))
}

func (v *ViewSet[T]) destroy(w http.ResponseWriter, r *http.Request) {
	req, ctx := v.request(r, ActionDestroy)

	obj, err := v.getObject(ctx, req)
	if err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}
	if err := v.performDestroy(ctx, req, obj); err != nil {
		errors.WriteError(w, r.WithContext(ctx), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode lee el body con límite de tamaño y traduce errores a AppError.
func (v *ViewSet[T]) decode(w http.ResponseWriter, r *http.Request, ser Serializer[T], into *T) error {
	body := http.MaxBytesReader(w, r.Body, v.cfg.MaxBody)
	defer body.Close()
	if err := ser.Decode(body, into); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.ErrBodyTooLarge
		}
		return errors.ErrInvalidJSON.WithDetail(err.Error()).WithCause(err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
