package api

import (
	"net/http"
	"strconv"

	"github.com/rpggio/mediastudio/internal/domain/activity"
	"github.com/rpggio/mediastudio/internal/domain/project"
)

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.Projects.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"status": statusSuccess, "data": projects})
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	proj, err := h.svc.Projects.Create(r.Context(), project.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	env := success("Project created successfully")
	env["project_id"] = proj.ID
	writeJSON(w, http.StatusOK, env)
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	proj, err := h.svc.Projects.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if proj == nil {
		h.writeError(w, r, project.ErrProjectNotFound)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"status": statusSuccess, "data": proj})
}

func (h *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req updateProjectRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := h.svc.Projects.Update(r.Context(), id, project.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
	}); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success("Project updated successfully"))
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Projects.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success("Project deleted successfully"))
}

func (h *Handler) handleListGenerations(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	gens, err := h.svc.Generations.List(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"status": statusSuccess, "data": gens})
}

func (h *Handler) handleListActivity(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	opts := activity.ListActivityOptions{ProjectID: id}
	q := r.URL.Query()
	if raw := q.Get("type"); raw != "" {
		typ := activity.ActivityType(raw)
		opts.ActivityType = &typ
	}
	if opts.Limit, err = queryInt(q.Get("limit")); err != nil {
		h.writeError(w, r, err)
		return
	}
	if opts.Offset, err = queryInt(q.Get("offset")); err != nil {
		h.writeError(w, r, err)
		return
	}

	entries, err := h.svc.Activity.GetRecentActivity(r.Context(), opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"status": statusSuccess, "data": entries})
}

func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errBadRequestf("invalid integer %q", raw)
	}
	return n, nil
}
