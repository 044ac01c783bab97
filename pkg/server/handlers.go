package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/topolayout/pkg/buildinfo"
	"github.com/matzehuels/topolayout/pkg/errors"
	"github.com/matzehuels/topolayout/pkg/layout"
	"github.com/matzehuels/topolayout/pkg/render"
	"github.com/matzehuels/topolayout/pkg/topology"
)

var errTooManyViews = stderrors.New("too many open views")

// =============================================================================
// Request and Response Types
// =============================================================================

// CreateViewRequest opens a view. Width and Height optionally size the
// drawing surface; the view box keeps the configured width.
type CreateViewRequest struct {
	TopologyID string           `json:"topology_id"`
	Payload    topology.Payload `json:"payload"`
	Width      float64          `json:"width,omitempty"`
	Height     float64          `json:"height,omitempty"`
}

// ViewInfo describes an open view.
type ViewInfo struct {
	ID         string    `json:"id"`
	TopologyID string    `json:"topology_id"`
	Created    time.Time `json:"created"`
	Nodes      int       `json:"nodes"`
	Links      int       `json:"links"`
	Gravity    bool      `json:"gravity"`
	Active     bool      `json:"active"`
}

// GravityRequest sets gravity. A missing On toggles it.
type GravityRequest struct {
	On *bool `json:"on,omitempty"`
}

// SettleRequest runs the simulation to rest synchronously.
type SettleRequest struct {
	MaxTicks int `json:"max_ticks,omitempty"`
}

// SettleResponse reports a settle run.
type SettleResponse struct {
	Ticks int     `json:"ticks"`
	Alpha float64 `json:"alpha"`
}

// Drag phases.
const (
	PhaseStart = "start"
	PhaseMove  = "move"
	PhaseEnd   = "end"
)

// DragRequest is one step of a drag gesture.
type DragRequest struct {
	Phase string  `json:"phase"`
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// DragResponse is where the node was placed.
type DragResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DeviceLinkRequest attaches a link to one end of a network device.
type DeviceLinkRequest struct {
	Link topology.LinkRecord `json:"link"`
	End  string              `json:"end"` // "from" or "to"
	Op   string              `json:"op"`  // "create" or "update"
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// Views
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Server", buildinfo.UserAgent())
	writeJSON(w, http.StatusOK, s.healthBody())
}

func (s *Server) handleListViews(w http.ResponseWriter, r *http.Request) {
	views := s.listViews()
	out := make([]ViewInfo, 0, len(views))
	for _, v := range views {
		var info ViewInfo
		err := v.do(r.Context(), "info", func(g *layout.Graph) error {
			info = viewInfo(v, g)
			return nil
		})
		if err == nil {
			out = append(out, info)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	var req CreateViewRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := s.openView(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	var info ViewInfo
	if err := v.do(r.Context(), "info", func(g *layout.Graph) error {
		info = viewInfo(v, g)
		return nil
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if ok {
		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	if !s.closeView(chi.URLParam(r, "viewID")) {
		writeError(w, errors.New(errors.ErrCodeViewNotFound, "view %s not found", chi.URLParam(r, "viewID")))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGravity(w http.ResponseWriter, r *http.Request) {
	var req GravityRequest
	if !decode(w, r, &req) {
		return
	}
	var on bool
	s.command(w, r, "gravity", func(g *layout.Graph) error {
		if req.On == nil {
			on = g.ToggleGravity(r.Context())
		} else {
			g.SetGravity(r.Context(), *req.On)
			on = *req.On
		}
		return nil
	}, func() { writeJSON(w, http.StatusOK, map[string]bool{"gravity": on}) })
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	var req SettleRequest
	if !decode(w, r, &req) {
		return
	}
	var resp SettleResponse
	s.command(w, r, "settle", func(g *layout.Graph) error {
		ticks, err := g.Settle(r.Context(), req.MaxTicks)
		resp = SettleResponse{Ticks: ticks, Alpha: g.Simulation().Alpha()}
		return err
	}, func() { writeJSON(w, http.StatusOK, resp) })
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	var p topology.Payload
	if !decode(w, r, &p) {
		return
	}
	nodes, links := topology.Ingest(&p)
	s.command(w, r, "reload", func(g *layout.Graph) error {
		g.Reload(r.Context(), nodes, links)
		return nil
	}, noContent(w))
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req DragRequest
	if !decode(w, r, &req) {
		return
	}
	var resp DragResponse
	s.command(w, r, "drag_"+req.Phase, func(g *layout.Graph) error {
		n := g.Node(req.ID)
		if n == nil {
			return errors.New(errors.ErrCodeNodeNotFound, "node %s not found", req.ID)
		}
		switch req.Phase {
		case PhaseStart:
			g.DragStart(req.ID)
			resp = DragResponse{X: n.X, Y: n.Y}
		case PhaseMove:
			if !g.Dragging(req.ID) {
				g.DragStart(req.ID)
			}
			x, y, ok := g.DragMove(req.ID, req.X, req.Y)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "invalid drag position")
			}
			resp = DragResponse{X: x, Y: y}
		case PhaseEnd:
			g.DragEnd(r.Context(), req.ID)
			resp = DragResponse{X: n.X, Y: n.Y}
		default:
			return errors.New(errors.ErrCodeInvalidInput, "unknown drag phase %q", req.Phase)
		}
		return nil
	}, func() { writeJSON(w, http.StatusOK, resp) })
}

// =============================================================================
// Nodes, Links, Hosts and Devices
// =============================================================================

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var rec topology.IPRecord
	if !decode(w, r, &rec) {
		return
	}
	n := topology.NodeFromRecord(rec)
	if err := errors.ValidateNodeID(n.ID); err != nil {
		writeError(w, err)
		return
	}
	s.command(w, r, "add_node", func(g *layout.Graph) error {
		if !g.AddNode(r.Context(), n) {
			return errConflict("node %s already exists", n.ID)
		}
		return nil
	}, func() { writeJSON(w, http.StatusCreated, map[string]string{"id": n.ID}) })
}

func (s *Server) handleNodeAction(w http.ResponseWriter, r *http.Request) {
	id, action := chi.URLParam(r, "nodeID"), chi.URLParam(r, "action")
	s.command(w, r, "node_"+action, func(g *layout.Graph) error {
		if g.Node(id) == nil {
			return errors.New(errors.ErrCodeNodeNotFound, "node %s not found", id)
		}
		switch action {
		case "click":
			g.ClickNode(id)
		case "dblclick":
			g.DoubleClickNode(id)
		case "select":
			g.SelectNode(id)
		case "deselect":
			g.DeselectNode(id)
		case "highlight":
			g.HighlightNode(id, true)
		case "unhighlight":
			g.HighlightNode(id, false)
		default:
			return errors.New(errors.ErrCodeInvalidInput, "unknown node action %q", action)
		}
		return nil
	}, noContent(w))
}

func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	var rec topology.LinkRecord
	if !decode(w, r, &rec) {
		return
	}
	l := topology.LinkFromRecord(rec)
	s.command(w, r, "create_link", func(g *layout.Graph) error {
		if !g.CreateLink(r.Context(), l) {
			return errConflict("link %s -> %s rejected", l.SourceID, l.TargetID)
		}
		return nil
	}, func() { writeJSON(w, http.StatusCreated, map[string]string{"id": l.ID}) })
}

func (s *Server) handleUpdateLink(w http.ResponseWriter, r *http.Request) {
	var rec topology.LinkRecord
	if !decode(w, r, &rec) {
		return
	}
	rec.ID = chi.URLParam(r, "linkID")
	l := topology.LinkFromRecord(rec)
	s.command(w, r, "update_link", func(g *layout.Graph) error {
		if !g.UpdateLink(r.Context(), l) {
			return errConflict("link %s rejected", l.ID)
		}
		return nil
	}, noContent(w))
}

func (s *Server) handleRemoveLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "linkID")
	s.command(w, r, "remove_link", func(g *layout.Graph) error {
		if !g.RemoveLink(r.Context(), id) {
			return errors.New(errors.ErrCodeLinkNotFound, "link %s not found", id)
		}
		return nil
	}, noContent(w))
}

func (s *Server) handleLinkAction(w http.ResponseWriter, r *http.Request) {
	id, action := chi.URLParam(r, "linkID"), chi.URLParam(r, "action")
	s.command(w, r, "link_"+action, func(g *layout.Graph) error {
		l := g.Link(id)
		if l == nil {
			return errors.New(errors.ErrCodeLinkNotFound, "link %s not found", id)
		}
		switch action {
		case "click":
			g.ClickLink(id)
		case "dblclick":
			g.DoubleClickLink(id)
		case "highlight":
			g.HighlightLink(l.SourceID, l.TargetID, true)
		case "unhighlight":
			g.HighlightLink(l.SourceID, l.TargetID, false)
		default:
			return errors.New(errors.ErrCodeInvalidInput, "unknown link action %q", action)
		}
		return nil
	}, noContent(w))
}

func (s *Server) handleUpdateHost(w http.ResponseWriter, r *http.Request) {
	var rec topology.HostRecord
	if !decode(w, r, &rec) {
		return
	}
	host := topology.HostFromRecord(&rec)
	s.command(w, r, "update_host", func(g *layout.Graph) error {
		if !g.UpdateHost(host) {
			return errors.New(errors.ErrCodeNodeNotFound, "no node for host %s", rec.HostIP)
		}
		return nil
	}, noContent(w))
}

func (s *Server) handleAddInterface(w http.ResponseWriter, r *http.Request) {
	var rec topology.IPRecord
	if !decode(w, r, &rec) {
		return
	}
	deviceID := chi.URLParam(r, "deviceID")
	iface := topology.NodeFromRecord(rec)
	s.command(w, r, "add_interface", func(g *layout.Graph) error {
		if !g.AddNetworkDevice(deviceID, iface) {
			return errConflict("cannot attach %s to device %s", iface.ID, deviceID)
		}
		return nil
	}, noContent(w))
}

func (s *Server) handleUpdateInterface(w http.ResponseWriter, r *http.Request) {
	var rec topology.HostRecord
	if !decode(w, r, &rec) {
		return
	}
	deviceID := chi.URLParam(r, "deviceID")
	host := topology.HostFromRecord(&rec)
	s.command(w, r, "update_interface", func(g *layout.Graph) error {
		if !g.UpdateNetworkDevice(deviceID, host) {
			return errors.New(errors.ErrCodeNodeNotFound, "device %s has no interface %s", deviceID, rec.HostIP)
		}
		return nil
	}, noContent(w))
}

func (s *Server) handleDeviceLink(w http.ResponseWriter, r *http.Request) {
	var req DeviceLinkRequest
	if !decode(w, r, &req) {
		return
	}
	end := layout.EndpointFrom
	switch req.End {
	case "from", "":
	case "to":
		end = layout.EndpointTo
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "end must be from or to, got %q", req.End))
		return
	}
	op := layout.LinkCreate
	switch req.Op {
	case "create", "":
	case "update":
		op = layout.LinkUpdate
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "op must be create or update, got %q", req.Op))
		return
	}
	deviceID := chi.URLParam(r, "deviceID")
	l := topology.LinkFromRecord(req.Link)
	s.command(w, r, "device_link", func(g *layout.Graph) error {
		if !g.SetNetworkDeviceLink(r.Context(), l, end, deviceID, op) {
			return errConflict("device link %s rejected", l.ID)
		}
		return nil
	}, func() { writeJSON(w, http.StatusOK, map[string]string{"id": l.ID}) })
}

// =============================================================================
// Rendering
// =============================================================================

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", render.ContentType(render.FormatSVG))
	w.Write(render.RenderSVG(snap, render.WithLabels()))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	data, err := render.Render(r.Context(), snap, format, render.Options{Labels: true})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

// command runs fn on the view named in the URL and calls respond on success.
func (s *Server) command(w http.ResponseWriter, r *http.Request, name string, fn func(*layout.Graph) error, respond func()) {
	v, err := s.lookup(chi.URLParam(r, "viewID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := v.do(r.Context(), name, fn); err != nil {
		writeError(w, err)
		return
	}
	respond()
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (layout.Snapshot, bool) {
	var snap layout.Snapshot
	ok := false
	s.command(w, r, "snapshot", func(g *layout.Graph) error {
		snap = g.Snapshot()
		return nil
	}, func() { ok = true })
	return snap, ok
}

func viewInfo(v *view, g *layout.Graph) ViewInfo {
	return ViewInfo{
		ID:         v.id,
		TopologyID: v.topologyID,
		Created:    v.created,
		Nodes:      len(g.Nodes()),
		Links:      len(g.Links()),
		Gravity:    g.GravityOn(),
		Active:     g.Active(),
	}
}

func noContent(w http.ResponseWriter) func() {
	return func() { w.WriteHeader(http.StatusNoContent) }
}

// conflictError marks a rejected mutation.
type conflictError struct{ msg string }

func (e *conflictError) Error() string { return e.msg }

func errConflict(format string, args ...any) error {
	return &conflictError{msg: fmt.Sprintf(format, args...)}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var conflict *conflictError
	switch {
	case stderrors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: conflict.msg, Code: "CONFLICT"})
	case stderrors.Is(err, errTooManyViews):
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, errors.HTTPStatus(err), ErrorResponse{
			Error: errors.UserMessage(err),
			Code:  string(errors.GetCode(err)),
		})
	}
}
