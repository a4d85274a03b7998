package editor

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-multierror"

	"github.com/ziadkadry99/asciitree/internal/markup"
	"github.com/ziadkadry99/asciitree/internal/session"
	"github.com/ziadkadry99/asciitree/internal/tree"
	"github.com/ziadkadry99/asciitree/internal/walker"
)

// maxImportBytes bounds uploaded tree text.
const maxImportBytes = 1 << 20

// mutationResponse is returned by every editing endpoint.
type mutationResponse struct {
	ID   string       `json:"id,omitempty"`
	View session.View `json:"view"`
}

// ingestResponse reports a folder ingestion, including partial failures.
type ingestResponse struct {
	Added   int          `json:"added"`
	Partial bool         `json:"partial"`
	Errors  []string     `json:"errors,omitempty"`
	View    session.View `json:"view"`
}

// copyResponse reports the clipboard outcome.
type copyResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type renameRequest struct {
	Label string `json:"label"`
}

type moveRequest struct {
	To string `json:"to"`
}

type hoverRequest struct {
	ID string `json:"id"`
}

type ingestRequest struct {
	Path     string `json:"path"`
	ParentID string `json:"parent_id,omitempty"`
}

func (e *Editor) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, e.sess.View())
}

func (e *Editor) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	out, err := markup.Render(format, e.sess.Export())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", markup.ContentType(format))
	w.Write([]byte(out))
}

func (e *Editor) handleAddChild(w http.ResponseWriter, r *http.Request) {
	id, err := e.sess.AddChild(chi.URLParam(r, "id"))
	e.respond(w, http.StatusCreated, id, err)
}

func (e *Editor) handleAddSibling(w http.ResponseWriter, r *http.Request) {
	id, err := e.sess.AddSibling(chi.URLParam(r, "id"))
	e.respond(w, http.StatusCreated, id, err)
}

func (e *Editor) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	err := e.sess.Rename(chi.URLParam(r, "id"), req.Label)
	e.respond(w, http.StatusOK, "", err)
}

func (e *Editor) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := e.sess.Delete(chi.URLParam(r, "id"))
	e.respond(w, http.StatusOK, "", err)
}

func (e *Editor) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.To == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "destination is required"})
		return
	}
	err := e.sess.MoveTo(chi.URLParam(r, "id"), req.To)
	e.respond(w, http.StatusOK, "", err)
}

func (e *Editor) handleHover(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	err := e.sess.Hover(req.ID)
	e.respond(w, http.StatusOK, "", err)
}

func (e *Editor) handleAddChildActive(w http.ResponseWriter, r *http.Request) {
	id, err := e.sess.AddChildActive()
	e.respond(w, http.StatusCreated, id, err)
}

func (e *Editor) handleAddSiblingActive(w http.ResponseWriter, r *http.Request) {
	id, err := e.sess.AddSiblingActive()
	e.respond(w, http.StatusCreated, id, err)
}

func (e *Editor) handleDeleteActive(w http.ResponseWriter, r *http.Request) {
	e.respond(w, http.StatusOK, "", e.sess.DeleteActive())
}

func (e *Editor) handleArm(w http.ResponseWriter, r *http.Request) {
	e.respond(w, http.StatusOK, "", e.sess.ArmMove())
}

func (e *Editor) handleArmNode(w http.ResponseWriter, r *http.Request) {
	e.respond(w, http.StatusOK, "", e.sess.ArmMoveNode(chi.URLParam(r, "id")))
}

func (e *Editor) handleDrop(w http.ResponseWriter, r *http.Request) {
	e.respond(w, http.StatusOK, "", e.sess.DropOnActive())
}

func (e *Editor) handleCancel(w http.ResponseWriter, r *http.Request) {
	e.respond(w, http.StatusOK, "", e.sess.CancelMove())
}

func (e *Editor) handleClear(w http.ResponseWriter, r *http.Request) {
	e.respond(w, http.StatusOK, "", e.sess.Clear())
}

func (e *Editor) handleDemo(w http.ResponseWriter, r *http.Request) {
	e.respond(w, http.StatusOK, "", e.sess.LoadDemo())
}

func (e *Editor) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	e.respond(w, http.StatusOK, "", e.sess.LoadText(body))
}

func (e *Editor) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path is required"})
		return
	}

	var (
		res walker.Result
		err error
	)
	if req.ParentID != "" {
		res, err = e.sess.IngestInto(r.Context(), req.Path, req.ParentID, nil)
	} else {
		res, err = e.sess.Ingest(r.Context(), req.Path, nil)
	}
	if err != nil {
		e.writeError(w, err)
		return
	}

	resp := ingestResponse{Added: res.Added, View: e.sess.View()}
	if res.Err != nil {
		resp.Partial = true
		resp.Errors = flattenErrors(res.Err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *Editor) handleCopy(w http.ResponseWriter, r *http.Request) {
	resp := copyResponse{Status: "copied"}
	if err := e.sess.Copy(); err != nil {
		resp.Status = "failed"
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// respond writes the fresh view, or maps err to a status code.
func (e *Editor) respond(w http.ResponseWriter, status int, id string, err error) {
	if err != nil {
		e.writeError(w, err)
		return
	}
	writeJSON(w, status, mutationResponse{ID: id, View: e.sess.View()})
}

func (e *Editor) writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, tree.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, tree.ErrRootNode),
		errors.Is(err, tree.ErrCycle),
		errors.Is(err, walker.ErrNotDirectory),
		errors.Is(err, session.ErrNoActive),
		errors.Is(err, session.ErrNotArmed):
		return http.StatusConflict
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, tree.ErrMalformed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func flattenErrors(err error) []string {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		out := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
