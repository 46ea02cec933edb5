// Package audit registra eventos de negocio (escrituras) como logs estructurados.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/roleviews/internal/observability/logger"
)

// Log escribe un evento de auditoría con el logger del request.
// Los eventos van al logger "audit" para poder enrutarlos aparte.
func Log(ctx context.Context, event string, fields ...zap.Field) {
	logger.From(ctx).Named("audit").Info(event, append(fields, logger.String("event", event))...)
}
