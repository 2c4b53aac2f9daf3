//go:build !swagger

package httpapi

import "github.com/go-chi/chi/v5"

// MountSwagger is a no-op without the swagger build tag.
func MountSwagger(r chi.Router) {}
