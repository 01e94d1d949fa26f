package api

import (
	"net/http"
	"strings"
)

const defaultVariations = 5

type improveRequest struct {
	Prompt      string `json:"prompt"`
	ContentType string `json:"content_type"`
}

type variationsRequest struct {
	Prompt string `json:"prompt"`
	Count  *int   `json:"count"`
}

type sceneRequest struct {
	Scene string `json:"scene"`
}

type scriptRequest struct {
	Idea string `json:"idea"`
}

func (h *Handler) handleImprovePrompt(w http.ResponseWriter, r *http.Request) {
	var req improveRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := required("prompt", req.Prompt); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image"
	}

	improved := h.svc.Suggestions.ImprovePrompt(r.Context(), req.Prompt, req.ContentType)
	writeJSON(w, http.StatusOK, envelope{"status": statusSuccess, "improved_prompt": improved})
}

func (h *Handler) handleVariations(w http.ResponseWriter, r *http.Request) {
	var req variationsRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := required("prompt", req.Prompt); err != nil {
		h.writeError(w, r, err)
		return
	}
	count := defaultVariations
	if req.Count != nil {
		count = *req.Count
	}
	if count < 0 {
		h.writeError(w, r, errBadRequestf("count must not be negative"))
		return
	}

	variations := h.svc.Suggestions.Variations(r.Context(), req.Prompt, count)
	writeJSON(w, http.StatusOK, envelope{"status": statusSuccess, "variations": variations})
}

func (h *Handler) handleNextScene(w http.ResponseWriter, r *http.Request) {
	var req sceneRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := required("scene", req.Scene); err != nil {
		h.writeError(w, r, err)
		return
	}

	scenes := h.svc.Suggestions.NextScenes(r.Context(), req.Scene)
	writeJSON(w, http.StatusOK, envelope{"status": statusSuccess, "suggestions": scenes})
}

func (h *Handler) handleMusicMood(w http.ResponseWriter, r *http.Request) {
	var req sceneRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := required("scene", req.Scene); err != nil {
		h.writeError(w, r, err)
		return
	}

	mood := h.svc.Suggestions.MusicMood(r.Context(), req.Scene)
	writeJSON(w, http.StatusOK, envelope{"status": statusSuccess, "music": mood})
}

func (h *Handler) handleScript(w http.ResponseWriter, r *http.Request) {
	var req scriptRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := required("idea", req.Idea); err != nil {
		h.writeError(w, r, err)
		return
	}

	script := h.svc.Suggestions.Script(r.Context(), req.Idea)
	writeJSON(w, http.StatusOK, envelope{"status": statusSuccess, "script": script})
}

func (h *Handler) handleStyles(w http.ResponseWriter, r *http.Request) {
	var req improveRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := required("prompt", req.Prompt); err != nil {
		h.writeError(w, r, err)
		return
	}

	styles := h.svc.Styles.StyleVariations(req.Prompt)
	writeJSON(w, http.StatusOK, envelope{"status": statusSuccess, "styles": styles})
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errBadRequestf("%s is required", field)
	}
	return nil
}
