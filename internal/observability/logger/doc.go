// Package logger centraliza el logging zap de roleviews.
//
// Hay un logger global (Init/L) y un logger por request que WithLogging guarda en el
// contexto con request_id, method, path y user_id. El viewset le agrega resource y
// action; el dispatcher de roles escribe sus decisiones bajo el nombre "dispatch"
// con hook, role y outcome.
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "roleviews"})
//	defer logger.Sync()
//
//	logger.From(ctx).Info("article created", logger.ID(a.ID))
//	logger.From(ctx, logger.Hook("get_queryset")).Debug("role dispatch")
//
// En dev la salida es consola con colores; en prod, JSON (ISO8601, stacktrace en error).
package logger
