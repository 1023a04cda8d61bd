package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/todoporunalma/formatos/internal/models"
	"github.com/todoporunalma/formatos/internal/services"
	"github.com/todoporunalma/formatos/internal/utils"
)

// FileHandler serves the file endpoints over one hierarchy engine.
type FileHandler struct {
	engine        *services.Engine
	maxUploadSize int64
}

func NewFileHandler(engine *services.Engine, maxUploadSize int64) *FileHandler {
	return &FileHandler{engine: engine, maxUploadSize: maxUploadSize}
}

// POST /upload
// Upload godoc
// @Summary Upload a file
// @Description Upload a single file; it is auto-routed into a category folder by extension
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 413 {object} utils.Payload
// @Router /upload [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.JSONError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File exceeds the %d byte upload limit", h.maxUploadSize))
			return
		}
		utils.JSONError(w, http.StatusBadRequest, "Invalid file upload form")
		return
	}

	src, header, err := r.FormFile("file")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer src.Close()

	if header.Size > h.maxUploadSize {
		utils.JSONError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File exceeds the %d byte upload limit", h.maxUploadSize))
		return
	}

	content, err := io.ReadAll(src)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}

	file, err := h.engine.Upload(r.Context(), header.Filename, content)
	if err != nil {
		utils.JSONError(w, statusForError(err), err.Error())
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "File uploaded successfully",
		Data:    models.NewFileInfo(*file),
	})
}

// GET /list
// List godoc
// @Summary List files and folders at a path
// @Tags Files
// @Produce json
// @Param path query string false "Folder path, empty for root"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /list [get]
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")

	result, err := h.engine.List(r.Context(), path)
	if err != nil {
		utils.JSONError(w, statusForError(err), err.Error())
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Listing retrieved successfully",
		Data: map[string]any{
			"files":   models.NewFileInfos(result.Files),
			"folders": models.NewFolderInfos(result.Folders),
			"path":    result.Path,
		},
	})
}

// GET /download/{id}
// Download godoc
// @Summary Download a file by id
// @Tags Files
// @Produce octet-stream
// @Param id path int true "File id"
// @Success 200 {file} binary
// @Failure 404 {object} utils.Payload
// @Router /download/{id} [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	file, rc, err := h.engine.Download(r.Context(), id)
	if err != nil {
		utils.JSONError(w, statusForError(err), err.Error())
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	if _, err := io.Copy(w, rc); err != nil {
		// Headers are already sent; the transfer just ends short.
		log.Printf("download %d: streaming failed: %v", id, err)
	}
}

// DELETE /files/{id}
// DeleteFile godoc
// @Summary Delete a file by id
// @Description Removes the metadata record; physical deletion is best-effort and reported via a flag
// @Tags Files
// @Produce json
// @Param id path int true "File id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.engine.DeleteFile(r.Context(), id)
	if err != nil {
		utils.JSONError(w, statusForError(err), err.Error())
		return
	}

	message := "File deleted successfully"
	if result.Warning != "" {
		message += ". Warning: " + result.Warning
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: message,
		Data: map[string]any{
			"id":                  result.ID,
			"physicalFileDeleted": result.PhysicalDeleted,
		},
	})
}

// pathID parses the {id} path segment, responding 400 itself on bad input.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// statusForError maps the engine's error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
