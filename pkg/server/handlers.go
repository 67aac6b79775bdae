package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/render/nodelink"
	"github.com/matzehuels/edgeknife/pkg/script"
	"github.com/matzehuels/edgeknife/pkg/session"
)

type graphResponse struct {
	ID       string         `json:"id"`
	Document graph.Document `json:"document"`
}

type listResponse struct {
	Graphs []string `json:"graphs"`
}

type gestureRequest struct {
	Flavor string         `json:"flavor"`
	Events []script.Event `json:"events"`
}

type gestureResponse struct {
	ID         string         `json:"id"`
	Document   graph.Document `json:"document"`
	Changed    bool           `json:"changed"`
	Dispatched int            `json:"dispatched"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listGraphs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, listResponse{Graphs: ids})
}

func (s *Server) createGraph(w http.ResponseWriter, r *http.Request) {
	doc, err := s.decodeDocument(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	id := uuid.NewString()
	if err := s.store.Put(r.Context(), id, doc); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/graphs/"+id)
	writeJSON(w, http.StatusCreated, graphResponse{ID: id, Document: doc})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	id, doc, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, graphResponse{ID: id, Document: *doc})
}

func (s *Server) putGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateGraphID(id); err != nil {
		s.respondError(w, r, err)
		return
	}
	doc, err := s.decodeDocument(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	unlock := s.lock(id)
	defer unlock()
	if err := s.store.Put(r.Context(), id, doc); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, graphResponse{ID: id, Document: doc})
}

func (s *Server) deleteGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateGraphID(id); err != nil {
		s.respondError(w, r, err)
		return
	}

	unlock := s.lock(id)
	defer unlock()
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// applyGestures replays the request's events onto the stored graph in a
// headless session and persists the result if the graph changed.
func (s *Server) applyGestures(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateGraphID(id); err != nil {
		s.respondError(w, r, err)
		return
	}

	var req gestureRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode gesture request"))
		return
	}
	sc := &script.Script{Events: req.Events}
	if err := sc.Validate(); err != nil {
		s.respondError(w, r, err)
		return
	}

	unlock := s.lock(id)
	defer unlock()

	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	sess, err := session.New(*doc, session.Config{Flavor: s.flavor(req.Flavor), Knife: s.knife})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer sess.Close()

	n, err := sess.Replay(sc)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	resp := gestureResponse{ID: id, Document: sess.Document(), Changed: sess.Revision() > 0, Dispatched: n}
	if resp.Changed {
		if err := s.store.Put(r.Context(), id, resp.Document); err != nil {
			s.respondError(w, r, err)
			return
		}
	}
	s.log.Debug("gestures applied", "graph", id, "events", n, "changed", resp.Changed)
	writeJSON(w, http.StatusOK, resp)
}

// renderSVG renders the graph with Graphviz. ?format=dot returns the DOT
// source instead, and ?detailed=true labels every port.
func (s *Server) renderSVG(w http.ResponseWriter, r *http.Request) {
	_, doc, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	dot := nodelink.ToDOT(*doc, nodelink.Options{Detailed: r.URL.Query().Get("detailed") == "true"})
	if r.URL.Query().Get("format") == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
		return
	}

	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) loadGraph(w http.ResponseWriter, r *http.Request) (string, *graph.Document, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateGraphID(id); err != nil {
		s.respondError(w, r, err)
		return "", nil, false
	}
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return "", nil, false
	}
	return id, doc, true
}

// decodeDocument reads a document body and checks it builds a valid graph.
func (s *Server) decodeDocument(w http.ResponseWriter, r *http.Request) (graph.Document, error) {
	doc, err := graph.ReadDocument(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return graph.Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	if _, err := graph.FromDocument(doc, nil); err != nil {
		return graph.Document{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph")
	}
	return doc, nil
}
