package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/agentstation/instantbox/internal/server/response"
	"github.com/agentstation/instantbox/pkg/association"
	"github.com/agentstation/instantbox/pkg/inventory"
)

type loadRequest struct {
	PackID string `json:"pack_id"`
	// Check only evaluates the preconditions.
	Check bool `json:"check"`
}

type shootRequest struct {
	Count *int `json:"count"`
}

// HandleCameraPack handles GET /api/v1/cameras/{id}/pack.
// @Summary Pack loaded in a camera
// @Tags association
// @Produce json
// @Param id path string true "Camera ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/cameras/{id}/pack [get].
func (h *Handlers) HandleCameraPack(w http.ResponseWriter, r *http.Request) {
	cam, err := h.box.Camera(idParam(r))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	var pack *inventory.FilmPack
	if p, ok := h.box.PackInCamera(cam.ID); ok {
		pack = &p
	}
	response.OK(w, map[string]any{
		"camera_id": cam.ID,
		"pack":      pack,
	})
}

// HandleLoad handles POST /api/v1/cameras/{id}/load.
// @Summary Load film
// @Description Loads a pack into the camera, ejecting the pack that was there. With check=true nothing changes.
// @Tags association
// @Accept json
// @Produce json
// @Param id path string true "Camera ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Failure 422 {object} response.Response{error=response.Error}
// @Router /api/v1/cameras/{id}/load [post].
func (h *Handlers) HandleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if !decode(w, r, &req) {
		return
	}
	if req.PackID == "" {
		response.BadRequest(w, "pack_id is required", "")
		return
	}

	cameraID := idParam(r)
	var res association.LoadResult
	if req.Check {
		res = h.box.CheckLoad(req.PackID, cameraID)
	} else {
		res = h.box.Load(r.Context(), req.PackID, cameraID)
	}

	if !res.OK {
		loadRefused(w, res.Reason)
		return
	}
	response.OK(w, map[string]any{
		"pack":           res.Pack,
		"already_loaded": res.AlreadyLoaded,
		"ejected":        res.Ejected,
		"checked_only":   req.Check,
	})
}

func loadRefused(w http.ResponseWriter, reason association.Reason) {
	switch reason {
	case association.ReasonPackNotFound, association.ReasonCameraNotFound:
		response.NotFound(w, reason.Message(), "")
	case association.ReasonStoreFailure:
		response.InternalError(w, nil)
	default:
		response.Unprocessable(w, strings.ToUpper(string(reason)), reason.Message())
	}
}

// HandleUnload handles POST /api/v1/cameras/{id}/unload. The unloaded pack
// is deleted.
// @Summary Unload and discard film
// @Tags association
// @Produce json
// @Param id path string true "Camera ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/cameras/{id}/unload [post].
func (h *Handlers) HandleUnload(w http.ResponseWriter, r *http.Request) {
	h.release(w, r, h.box.Unload, "deleted")
}

// HandleEject handles POST /api/v1/cameras/{id}/eject. The pack stays in
// the inventory, unassociated.
// @Summary Eject film
// @Tags association
// @Produce json
// @Param id path string true "Camera ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/cameras/{id}/eject [post].
func (h *Handlers) HandleEject(w http.ResponseWriter, r *http.Request) {
	h.release(w, r, h.box.Eject, "ejected")
}

func (h *Handlers) release(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, cameraID string) (inventory.FilmPack, bool), outcome string) {
	cam, err := h.box.Camera(idParam(r))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	pack, ok := fn(r.Context(), cam.ID)
	if !ok {
		response.Unprocessable(w, "NO_FILM", "No film pack is loaded in this camera.")
		return
	}
	response.OK(w, map[string]any{
		"camera_id": cam.ID,
		"pack":      pack,
		"outcome":   outcome,
	})
}

// HandleShoot handles POST /api/v1/cameras/{id}/shoot.
// @Summary Record exposures
// @Description Consumes count shots (default 1) from the loaded pack. A pack reaching zero is deleted.
// @Tags association
// @Accept json
// @Produce json
// @Param id path string true "Camera ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Failure 422 {object} response.Response{error=response.Error}
// @Router /api/v1/cameras/{id}/shoot [post].
func (h *Handlers) HandleShoot(w http.ResponseWriter, r *http.Request) {
	var req shootRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	n := 1
	if req.Count != nil {
		n = *req.Count
	}

	cam, err := h.box.Camera(idParam(r))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	res := h.box.Shoot(r.Context(), cam.ID, n)
	switch res.Status {
	case association.ConsumeNoFilm:
		response.Unprocessable(w, "NO_FILM", "No film pack is loaded in this camera.")
		return
	case association.ConsumeRejected:
		response.Unprocessable(w, "SHOTS_REJECTED", "Shot count must be between 1 and the shots remaining.")
		return
	}

	h.metrics.Shots(n)
	response.OK(w, map[string]any{
		"status":    res.Status,
		"pack_id":   res.PackID,
		"remaining": res.Remaining,
		"finished":  res.Finished,
	})
}
