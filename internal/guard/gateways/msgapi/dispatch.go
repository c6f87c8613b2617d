package msgapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/haukened/focusgate/internal/guard/domain"
)

// ErrUnknownKind is returned for a message kind outside the contract.
var ErrUnknownKind = errors.New("unknown message kind")

// msgHandler processes one message kind: it receives the raw request payload
// and returns the typed response body.
type msgHandler func(ctx context.Context, payload json.RawMessage) (any, error)

// checkNavigationRequest is the payload of KindCheckNavigation.
type checkNavigationRequest struct {
	URL     string `json:"url"`
	FrameID int    `json:"frame_id"`
}

// checkNavigationResponse tells the browser whether to let the navigation
// proceed or where to redirect instead.
type checkNavigationResponse struct {
	Allow    bool   `json:"allow"`
	Redirect string `json:"redirect,omitempty"`
}

// overrideRequest is the payload of KindOverride.
type overrideRequest struct {
	URL string `json:"url"`
}

// setEnabledRequest is the payload of KindSetEnabled.
type setEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// toggleResponse reports the toggle after a mutation.
type toggleResponse struct {
	Enabled bool `json:"enabled"`
}

// stateResponse is the payload of KindGetState.
type stateResponse struct {
	Enabled      bool             `json:"enabled"`
	Indicator    domain.Indicator `json:"indicator"`
	RecentEvents []domain.Event   `json:"recent_events"`
	Notices      []Notice         `json:"notices"`
}

// statusResponse is the payload of KindStatus.
type statusResponse struct {
	Indicator domain.Indicator       `json:"indicator"`
	Status    domain.AuthorityStatus `json:"status"`
}

// dispatch builds the handler table keyed by message kind. Each kind has a
// fixed response mode: KindCheckNavigation may await an authority call, all
// others answer from local state immediately.
func (s *Server) dispatch() map[domain.MessageKind]msgHandler {
	return map[domain.MessageKind]msgHandler{
		domain.KindCheckNavigation: s.handleCheckNavigation,
		domain.KindOverride:        s.handleOverride,
		domain.KindGetState:        s.handleGetState,
		domain.KindSetEnabled:      s.handleSetEnabled,
		domain.KindToggle:          s.handleToggle,
		domain.KindStatus:          s.handleStatus,
	}
}

func (s *Server) handleCheckNavigation(ctx context.Context, payload json.RawMessage) (any, error) {
	var req checkNavigationRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("invalid check-navigation payload: %w", err)
	}
	spec, enforced := s.interceptor.Check(ctx, req.URL, req.FrameID)
	if !enforced {
		return checkNavigationResponse{Allow: true}, nil
	}
	return checkNavigationResponse{Allow: false, Redirect: spec.URL()}, nil
}

func (s *Server) handleOverride(ctx context.Context, payload json.RawMessage) (any, error) {
	var req overrideRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("invalid override payload: %w", err)
	}
	if err := s.interceptor.Override(ctx, req.URL); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleGetState(_ context.Context, _ json.RawMessage) (any, error) {
	_, indicator := s.status.Snapshot()
	return stateResponse{
		Enabled:      s.toggle.Enabled(),
		Indicator:    indicator,
		RecentEvents: s.events.Recent(),
		Notices:      s.notices.Drain(),
	}, nil
}

func (s *Server) handleSetEnabled(_ context.Context, payload json.RawMessage) (any, error) {
	var req setEnabledRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("invalid set-enabled payload: %w", err)
	}
	s.toggle.Set(req.Enabled)
	return toggleResponse{Enabled: req.Enabled}, nil
}

func (s *Server) handleToggle(_ context.Context, _ json.RawMessage) (any, error) {
	return toggleResponse{Enabled: s.toggle.Flip()}, nil
}

func (s *Server) handleStatus(_ context.Context, _ json.RawMessage) (any, error) {
	status, indicator := s.status.Snapshot()
	return statusResponse{Indicator: indicator, Status: status}, nil
}
