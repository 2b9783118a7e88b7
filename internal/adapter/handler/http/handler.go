package http

import (
	"encoding/json"
	"errors"

	"namereg/internal/adapter/prompt"
	"namereg/internal/application/port"
	"namereg/internal/domain/entity"
	"namereg/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// PromptBoard is the remote side of conflict prompts.
type PromptBoard interface {
	Pending() (prompt.Prompt, bool)
	Select(id, choice string) error
	Dismiss(id string) error
}

// NameHandler serves the presentation boundary of the name registry client.
type NameHandler struct {
	registration port.Registration
	display      port.Display
	catalog      port.Catalog
	prompts      PromptBoard
	logger       *zap.Logger
}

func NewNameHandler(
	registration port.Registration,
	display port.Display,
	catalog port.Catalog,
	prompts PromptBoard,
	logger *zap.Logger,
) *NameHandler {
	return &NameHandler{
		registration: registration,
		display:      display,
		catalog:      catalog,
		prompts:      prompts,
		logger:       logger.Named("NameHandler"),
	}
}

type displayResponse struct {
	entity.DisplayState
	State     entity.RegistrationState `json:"state"`
	CanSubmit bool                     `json:"canSubmit"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type chainResponse struct {
	ChainID string `json:"chainId"`
	Name    string `json:"name"`
}

// GetDisplay returns the header values and whether submission is enabled.
func (h *NameHandler) GetDisplay(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, fasthttp.StatusOK, displayResponse{
		DisplayState: h.display.Current(),
		State:        h.registration.State(),
		CanSubmit:    h.registration.Ready(),
	})
}

// RefreshDisplay recomputes the header values from chain state.
func (h *NameHandler) RefreshDisplay(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, fasthttp.StatusOK, displayResponse{
		DisplayState: h.display.Refresh(ctx),
		State:        h.registration.State(),
		CanSubmit:    h.registration.Ready(),
	})
}

// GetChain resolves a chain id to its display name. Unknown ids yield an empty name.
func (h *NameHandler) GetChain(ctx *fasthttp.RequestCtx) {
	chainID, ok := ctx.UserValue("chainId").(string)
	if !ok {
		ctx.Error("Bad Request: Invalid chainId format", fasthttp.StatusBadRequest)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, chainResponse{ChainID: chainID, Name: h.catalog.Lookup(chainID)})
}

// SubmitName runs one registration for the posted name and returns its outcome.
// The request stays open while a conflict prompt waits for an answer.
func (h *NameHandler) SubmitName(ctx *fasthttp.RequestCtx) {
	var req nameRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.logger.Debug("Failed to decode submit body", zap.Error(err))
		ctx.Error("Bad Request: Invalid JSON body", fasthttp.StatusBadRequest)
		return
	}

	outcome, err := h.registration.Submit(ctx, req.Name)
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		ctx.Error("Bad Request: name is required", fasthttp.StatusBadRequest)
		return
	case errors.Is(err, apperrors.ErrConflict):
		ctx.Error("Conflict: registration already in progress", fasthttp.StatusConflict)
		return
	case err != nil:
		h.logger.Error("Submit failed", zap.Error(err))
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
		return
	}

	h.writeJSON(ctx, fasthttp.StatusOK, outcome)
}

// GetPrompt returns the open conflict prompt, or 204 when none is open.
func (h *NameHandler) GetPrompt(ctx *fasthttp.RequestCtx) {
	p, ok := h.prompts.Pending()
	if !ok {
		ctx.SetStatusCode(fasthttp.StatusNoContent)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, p)
}

// SelectPrompt answers the open prompt with one of its candidates.
func (h *NameHandler) SelectPrompt(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	var req nameRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.Error("Bad Request: Invalid JSON body", fasthttp.StatusBadRequest)
		return
	}
	h.writePromptResult(ctx, h.prompts.Select(id, req.Name))
}

// DismissPrompt closes the open prompt without a choice.
func (h *NameHandler) DismissPrompt(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	h.writePromptResult(ctx, h.prompts.Dismiss(id))
}

func (h *NameHandler) writePromptResult(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case err == nil:
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	case errors.Is(err, apperrors.ErrNotFound):
		ctx.Error("Not Found", fasthttp.StatusNotFound)
	case errors.Is(err, apperrors.ErrInvalidInput):
		ctx.Error("Bad Request: "+err.Error(), fasthttp.StatusBadRequest)
	default:
		h.logger.Error("Prompt answer failed", zap.Error(err))
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
	}
}

func (h *NameHandler) writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
