package middleware

import (
	"context"
	"net/http"

	"github.com/mssola/useragent"
)

// Device summarizes the calling device, derived from the User-Agent header.
// It travels in the request context and ends up on audit-trail events.
type Device struct {
	Platform string
	OS       string
	Mobile   bool
}

type contextKeyDevice struct{}

var ContextKeyDevice = contextKeyDevice{}

// GetDevice retrieves the device metadata from the context.
func GetDevice(ctx context.Context) Device {
	if d, ok := ctx.Value(ContextKeyDevice).(Device); ok {
		return d
	}
	return Device{}
}

// DeviceMetadata parses the User-Agent header once per request.
func DeviceMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := useragent.New(r.UserAgent())
		d := Device{
			Platform: ua.Platform(),
			OS:       ua.OS(),
			Mobile:   ua.Mobile(),
		}
		ctx := context.WithValue(r.Context(), ContextKeyDevice, d)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
