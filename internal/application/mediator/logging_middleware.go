package mediator

import (
	"context"
	"fmt"
	"reflect"

	"github.com/andrescamacho/chaincommand-go/internal/application/logging"
)

// LoggingMiddleware records every request and its outcome through the
// logger found in the context
func LoggingMiddleware(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
	logger := logging.LoggerFromContext(ctx)
	name := requestName(request)

	logger.Log(logging.LevelDebug, "handling "+name, nil)
	resp, err := next(ctx, request)
	if err != nil {
		logger.Log(logging.LevelWarn, fmt.Sprintf("%s failed", name), map[string]interface{}{
			"request": name,
			"error":   err.Error(),
		})
		return resp, err
	}
	return resp, nil
}

func requestName(request Request) string {
	t := reflect.TypeOf(request)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
