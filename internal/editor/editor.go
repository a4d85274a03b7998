// Package editor exposes a session over HTTP: a JSON API for every editor
// action, the embedded browser page, and a websocket that pushes the view
// after each re-render.
package editor

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ziadkadry99/asciitree/internal/session"
)

// RequestTimeout bounds the short API calls. The websocket and folder
// ingestion run for as long as the client stays connected.
const RequestTimeout = 60 * time.Second

// Editor serves one shared session.
type Editor struct {
	sess    *session.Session
	log     *zap.Logger
	timeout time.Duration
}

// New creates an Editor for the session.
func New(sess *session.Session, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{sess: sess, log: log, timeout: RequestTimeout}
}

// RegisterRoutes mounts all editor routes onto the given router.
func (e *Editor) RegisterRoutes(r chi.Router) {
	r.With(middleware.Timeout(e.timeout)).Get("/", e.ServeIndex)
	r.Get("/ws/tree", e.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Post("/ingest", e.handleIngest)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(e.timeout))

			r.Get("/tree", e.handleView)
			r.Get("/export", e.handleExport)

			r.Post("/nodes/{id}/children", e.handleAddChild)
			r.Post("/nodes/{id}/siblings", e.handleAddSibling)
			r.Put("/nodes/{id}", e.handleRename)
			r.Delete("/nodes/{id}", e.handleDelete)
			r.Post("/nodes/{id}/move", e.handleMove)
			r.Post("/nodes/{id}/arm", e.handleArmNode)

			r.Post("/hover", e.handleHover)
			r.Post("/active/children", e.handleAddChildActive)
			r.Post("/active/siblings", e.handleAddSiblingActive)
			r.Delete("/active", e.handleDeleteActive)
			r.Post("/move/arm", e.handleArm)
			r.Post("/move/drop", e.handleDrop)
			r.Post("/move/cancel", e.handleCancel)

			r.Post("/clear", e.handleClear)
			r.Post("/demo", e.handleDemo)
			r.Post("/import", e.handleImport)
			r.Post("/copy", e.handleCopy)
		})
	})
}
