package handler

import (
	"io/fs"

	"cobrowse/internal/app/cobrowse"
	"cobrowse/internal/configs"
	"cobrowse/internal/pkg/auth/token"
)

// AppDeps bundles what the HTTP layer needs.
type AppDeps struct {
	Config  *configs.AppConfig
	Codec   *token.Codec
	Service *cobrowse.Service

	// Assets is the file tree served for every non-API path.
	Assets fs.FS
}
