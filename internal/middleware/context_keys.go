package middleware

import "context"

// pluginNameKey is the key used to store the authenticated calling plugin's
// name in the request context.
const pluginNameKey = contextKey("pluginName")

// GetPluginFromCtx retrieves the calling plugin's name from the context.
// The name is log attribution only: it must never influence business logic.
func GetPluginFromCtx(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(pluginNameKey).(string)
	return name, ok
}
