package web

import (
	"context"
	"log/slog"

	"portal/internal/application/orchestrators"
)

type contextKey string

const confirmContextKey contextKey = "remove_confirmed"

// withConfirmation records the user's answer to the removal prompt for this request.
func withConfirmation(ctx context.Context, yes bool) context.Context {
	return context.WithValue(ctx, confirmContextKey, yes)
}

// requestConfirmer answers the Confirmer gate from the posted confirmation form.
// A request that carries no answer is declined.
var requestConfirmer = orchestrators.ConfirmerFunc(func(ctx context.Context, prompt string) bool {
	yes, _ := ctx.Value(confirmContextKey).(bool)
	slog.Debug("confirm_event", "event", "answered", "prompt", prompt, "confirmed", yes)
	return yes
})
