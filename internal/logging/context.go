package logging

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Common field keys used across layers.
const (
	FieldLayer     = "layer"
	FieldAdapter   = "adapter"
	FieldUseCase   = "usecase"
	FieldComponent = "component"
	FieldAction    = "action"
	FieldEntityID  = "entity_id"
	FieldPath      = "path"
	FieldCount     = "count"
)

// WithCtx stores log in ctx.
func WithCtx(ctx context.Context, log zerolog.Logger) context.Context {
	return log.WithContext(ctx)
}

// FromCtx returns the logger stored in ctx, or a disabled logger.
func FromCtx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// CtxWithFields returns a context whose logger carries the given fields.
func CtxWithFields(ctx context.Context, fields map[string]any) context.Context {
	log := zerolog.Ctx(ctx).With().Fields(fields).Logger()
	return log.WithContext(ctx)
}

// WrapErr logs err at debug level with msg and returns it wrapped with msg.
func WrapErr(log *zerolog.Logger, err error, msg string) error {
	log.Debug().Err(err).Msg(msg)
	return fmt.Errorf("%s: %w", msg, err)
}
