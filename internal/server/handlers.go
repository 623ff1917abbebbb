package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/san-kum/neuroviz/internal/connect"
	"github.com/san-kum/neuroviz/internal/hover"
	"github.com/san-kum/neuroviz/internal/layout"
	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/panel"
	"github.com/san-kum/neuroviz/internal/scene"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// query runs fn on the owner and writes its result.
func (s *Server) query(w http.ResponseWriter, r *http.Request, fn func(*scene.Scene) any) {
	var out any
	if err := s.do(r.Context(), func(sc *scene.Scene) { out = fn(sc) }); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, func(sc *scene.Scene) any { return sc.Network().Layers() })
}

type positionRow struct {
	ID  netmodel.NeuronID `json:"id"`
	Pos layout.Vec3       `json:"pos"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, func(sc *scene.Scene) any {
		lay := sc.Layout()
		rows := make([]positionRow, 0, sc.Network().TotalNeurons())
		for l, layer := range lay.Positions {
			for n, p := range layer {
				rows = append(rows, positionRow{ID: netmodel.NeuronID{Layer: l, Index: n}, Pos: p})
			}
		}
		return rows
	})
}

type edgeRow struct {
	Pair   int               `json:"pair"`
	Index  int               `json:"index"`
	Source netmodel.NeuronID `json:"source"`
	Target netmodel.NeuronID `json:"target"`
	Color  string            `json:"color"`
}

func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, func(sc *scene.Scene) any {
		pairs := sc.Connections()
		rows := make([]edgeRow, 0, connect.Count(pairs))
		for p, pair := range pairs {
			for _, c := range pair {
				rows = append(rows, edgeRow{Pair: p, Index: c.Index, Source: c.Source(), Target: c.Target(), Color: c.Color})
			}
		}
		return rows
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, func(sc *scene.Scene) any { return sc.Stats() })
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, func(*scene.Scene) any { return s.latest })
}

type tickRequest struct {
	Elapsed float64 `json:"elapsed"`
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode tick: %w", err))
		return
	}
	if math.IsNaN(req.Elapsed) || math.IsInf(req.Elapsed, 0) || req.Elapsed < 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("elapsed must be a finite non-negative number"))
		return
	}
	var tickErr error
	err := s.do(r.Context(), func(*scene.Scene) { tickErr = s.advance(req.Elapsed) })
	switch {
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err)
	case tickErr != nil:
		writeError(w, http.StatusInternalServerError, tickErr)
	default:
		s.handleFrame(w, r)
	}
}

type hoverResponse struct {
	Hover hover.State  `json:"hover"`
	Cards []panel.Card `json:"cards"`
}

func (s *Server) hoverState(sc *scene.Scene) hoverResponse {
	st := sc.Hover()
	return hoverResponse{Hover: st, Cards: panel.Cards(sc.Network(), st)}
}

func (s *Server) handleGetHover(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, func(sc *scene.Scene) any { return s.hoverState(sc) })
}

func (s *Server) handleEnter(w http.ResponseWriter, r *http.Request) {
	var id netmodel.NeuronID
	if err := json.NewDecoder(r.Body).Decode(&id); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode neuron: %w", err))
		return
	}
	var (
		enterErr error
		resp     hoverResponse
	)
	err := s.do(r.Context(), func(sc *scene.Scene) {
		if enterErr = sc.PointerEnter(id.Layer, id.Index); enterErr == nil {
			resp = s.hoverState(sc)
		}
	})
	switch {
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err)
	case errors.Is(enterErr, scene.ErrNeuronOutOfRange):
		writeError(w, http.StatusUnprocessableEntity, enterErr)
	case enterErr != nil:
		writeError(w, http.StatusConflict, enterErr)
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	var (
		leaveErr error
		resp     hoverResponse
	)
	err := s.do(r.Context(), func(sc *scene.Scene) {
		if leaveErr = sc.PointerLeave(); leaveErr == nil {
			resp = s.hoverState(sc)
		}
	})
	switch {
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err)
	case leaveErr != nil:
		writeError(w, http.StatusConflict, leaveErr)
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}
