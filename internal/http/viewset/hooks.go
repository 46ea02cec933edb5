package viewset

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/dropDatabas3/roleviews/internal/roles"
)

// Action es la acción del viewset en curso.
type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDestroy  Action = "destroy"
)

// Request es lo que reciben los hooks.
type Request struct {
	HTTP   *http.Request
	Action Action
	UserID string     // vacío => anónimo
	User   roles.User // fuente de grupos para resolver el rol
}

// Firmas de los hooks.
type (
	QuerysetFunc[T any]   func(ctx context.Context, req *Request) ([]T, error)
	SerializerFunc[T any] func(ctx context.Context, req *Request) (Serializer[T], error)
	WriteFunc[T any]      func(ctx context.Context, req *Request, obj *T) error
	DestroyFunc[T any]    func(ctx context.Context, req *Request, obj T) error
)

// Serializer define cómo se representa un objeto y cómo se lee del body.
type Serializer[T any] interface {
	// Represent retorna el valor a codificar como JSON.
	Represent(obj T) any
	// Decode aplica el body sobre into. En update, into ya trae el objeto actual.
	Decode(body io.Reader, into *T) error
}

// Hooks agrupa los cinco hooks del ciclo de vida. Todos son obligatorios;
// usar roles.NewAbstractHook para hooks sin default.
type Hooks[T any] struct {
	Queryset   *roles.Hook[QuerysetFunc[T]]
	Serializer *roles.Hook[SerializerFunc[T]]
	Create     *roles.Hook[WriteFunc[T]]
	Update     *roles.Hook[WriteFunc[T]]
	Destroy    *roles.Hook[DestroyFunc[T]]
}

func (h Hooks[T]) describers() []roles.Describer {
	return []roles.Describer{h.Queryset, h.Serializer, h.Create, h.Update, h.Destroy}
}

// FieldSerializer es un Serializer construido a partir de dos funciones.
// In es el DTO de entrada; Apply copia sus campos sobre el objeto.
type FieldSerializer[T, In any] struct {
	Out   func(obj T) any
	Apply func(in In, into *T)
}

func (s FieldSerializer[T, In]) Represent(obj T) any { return s.Out(obj) }

func (s FieldSerializer[T, In]) Decode(body io.Reader, into *T) error {
	var in In
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return err
	}
	s.Apply(in, into)
	return nil
}
