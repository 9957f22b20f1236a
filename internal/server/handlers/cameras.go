package handlers

import (
	"net/http"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/internal/server/response"
	"github.com/agentstation/instantbox/pkg/ordering"
)

type cameraRequest struct {
	Nickname    string  `json:"nickname"`
	Model       string  `json:"model"`
	Description *string `json:"description"`
	FilmType    *string `json:"filmType"`
	Capacity    int     `json:"capacity"`
	IconColor   string  `json:"iconColor"`
	CustomPhoto []byte  `json:"customPhoto"`
}

type cameraPatchRequest struct {
	Nickname    *string `json:"nickname"`
	Model       *string `json:"model"`
	Description *string `json:"description"`
	FilmType    *string `json:"filmType"`
	IconColor   *string `json:"iconColor"`
	CustomPhoto *[]byte `json:"customPhoto"`
}

// HandleListCameras handles GET /api/v1/cameras.
// @Summary List cameras
// @Tags cameras
// @Produce json
// @Param sort query string false "name-asc, name-desc, date-added, date-added-reverse, loaded-first, unloaded-first"
// @Success 200 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/cameras [get].
func (h *Handlers) HandleListCameras(w http.ResponseWriter, r *http.Request) {
	sort, err := ordering.ParseCameraSort(r.URL.Query().Get("sort"))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	cameras := h.box.Cameras(sort)
	response.OK(w, map[string]any{
		"cameras": cameras,
		"count":   len(cameras),
	})
}

// HandleGetCamera handles GET /api/v1/cameras/{id}.
// @Summary Get camera
// @Tags cameras
// @Produce json
// @Param id path string true "Camera ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/cameras/{id} [get].
func (h *Handlers) HandleGetCamera(w http.ResponseWriter, r *http.Request) {
	cam, err := h.box.Camera(idParam(r))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	pack, loaded := h.box.PackInCamera(cam.ID)
	data := map[string]any{"camera": cam}
	if loaded {
		data["pack"] = pack
	}
	response.OK(w, data)
}

// HandleCreateCamera handles POST /api/v1/cameras.
// @Summary Add camera
// @Description Creates a camera. Attributes not given are derived from the catalog entry for the model.
// @Tags cameras
// @Accept json
// @Produce json
// @Success 201 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/cameras [post].
func (h *Handlers) HandleCreateCamera(w http.ResponseWriter, r *http.Request) {
	var req cameraRequest
	if !decode(w, r, &req) {
		return
	}
	cam, err := h.box.AddCamera(r.Context(), instantbox.CameraInput(req))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.Created(w, cam)
}

// HandleUpdateCamera handles PATCH /api/v1/cameras/{id}.
// @Summary Edit camera
// @Tags cameras
// @Accept json
// @Produce json
// @Param id path string true "Camera ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/cameras/{id} [patch].
func (h *Handlers) HandleUpdateCamera(w http.ResponseWriter, r *http.Request) {
	var req cameraPatchRequest
	if !decode(w, r, &req) {
		return
	}
	cam, err := h.box.UpdateCamera(r.Context(), idParam(r), instantbox.CameraPatch(req))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, cam)
}

// HandleDeleteCamera handles DELETE /api/v1/cameras/{id}. Packs loaded in
// the camera are deleted with it.
// @Summary Delete camera
// @Tags cameras
// @Produce json
// @Param id path string true "Camera ID"
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/cameras/{id} [delete].
func (h *Handlers) HandleDeleteCamera(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	removed, err := h.box.DeleteCamera(r.Context(), id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"id":            id,
		"packs_removed": removed,
	})
}
