package errors

import (
	"errors"
	"fmt"

	"github.com/dropDatabas3/roleviews/internal/domain/repository"
	"github.com/dropDatabas3/roleviews/internal/roles"
)

// AppError es el error que llega al cliente: Code y Message van en el body JSON,
// HTTPStatus en el status line. Err (la causa) sólo se loguea.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// WithDetail retorna una copia con Detail; los errores del catálogo no se mutan.
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithCause retorna una copia con la causa original.
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// domainErrors traduce sentinels de dominio a su respuesta HTTP. El orden importa:
// gana la primera coincidencia.
var domainErrors = []struct {
	target error
	resp   *AppError
}{
	{repository.ErrNotFound, ErrNotFound},
	{repository.ErrConflict, ErrConflict},
	{repository.ErrInvalidInput, ErrUnprocessableEntity},
	{repository.ErrUnavailable, ErrServiceUnavailable},
	{roles.ErrHookNotImplemented, ErrNotImplemented},
	// sólo con roles.ambiguous=reject
	{roles.ErrAmbiguousRole, ErrAmbiguousRole},
}

// FromError convierte cualquier error en un AppError. Un *AppError en la cadena se
// respeta tal cual; lo desconocido es 500 conservando la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, m := range domainErrors {
		if errors.Is(err, m.target) {
			return m.resp.WithCause(err)
		}
	}
	return ErrInternalServerError.WithCause(err)
}
