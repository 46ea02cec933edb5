package errors

import "net/http"

func appError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// Catálogo de respuestas. Usar WithDetail/WithCause para personalizarlas.
var (
	// Body del request
	ErrInvalidJSON  = appError(http.StatusBadRequest, "INVALID_JSON", "El cuerpo de la solicitud no es un JSON válido.")
	ErrBodyTooLarge = appError(http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "El cuerpo de la solicitud excede el tamaño máximo permitido.")

	// Autenticación (bearer JWT)
	ErrTokenMissing = appError(http.StatusUnauthorized, "TOKEN_MISSING", "No se proporcionó token de autenticación.")
	ErrTokenInvalid = appError(http.StatusUnauthorized, "TOKEN_INVALID", "El token de acceso es inválido o expiró.")

	// Permisos por rol
	ErrForbidden     = appError(http.StatusForbidden, "FORBIDDEN", "Su rol no permite realizar esta acción.")
	ErrAmbiguousRole = appError(http.StatusForbidden, "AMBIGUOUS_ROLE", "El usuario pertenece a más de un grupo con rol; no se puede elegir uno.")

	// Recursos
	ErrNotFound            = appError(http.StatusNotFound, "NOT_FOUND", "El recurso solicitado no fue encontrado.")
	ErrMethodNotAllowed    = appError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "El método HTTP no está permitido para este recurso.")
	ErrConflict            = appError(http.StatusConflict, "CONFLICT", "El recurso ya existe o cambió.")
	ErrUnprocessableEntity = appError(http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", "Los datos enviados no son válidos.")

	ErrRateLimitExceeded = appError(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Ha excedido el límite de solicitudes. Intente más tarde.")

	// Servidor
	ErrInternalServerError = appError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Ocurrió un error interno en el servidor.")
	ErrNotImplemented      = appError(http.StatusNotImplemented, "NOT_IMPLEMENTED", "El hook no tiene implementación para este rol.")
	ErrServiceUnavailable  = appError(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "El servicio no está disponible temporalmente.")
)
