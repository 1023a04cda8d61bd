package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/todoporunalma/formatos/internal/models"
	"github.com/todoporunalma/formatos/internal/services"
	"github.com/todoporunalma/formatos/internal/utils"
)

// FolderHandler serves the folder endpoints over one hierarchy engine.
type FolderHandler struct {
	engine *services.Engine
}

func NewFolderHandler(engine *services.Engine) *FolderHandler {
	return &FolderHandler{engine: engine}
}

// POST /folders/create
// CreateFolder godoc
// @Summary Create a folder
// @Tags Folders
// @Accept json
// @Produce json
// @Param folder body models.CreateFolderRequest true "Folder to create"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 409 {object} utils.Payload
// @Router /folders/create [post]
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.engine.CreateFolder(r.Context(), req.Name, req.ParentPath)
	if err != nil {
		utils.JSONError(w, statusForError(err), err.Error())
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Folder created successfully",
		Data:    models.NewFolderInfo(*folder),
	})
}

// PUT /folders/rename
// RenameFolder godoc
// @Summary Rename a folder
// @Description Renames the folder and cascades the path rewrite to every descendant file and subfolder
// @Tags Folders
// @Accept json
// @Produce json
// @Param rename body models.RenameFolderRequest true "Rename parameters"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Failure 409 {object} utils.Payload
// @Router /folders/rename [put]
func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req models.RenameFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.engine.RenameFolder(r.Context(), req.OldName, req.NewName, req.ParentPath)
	if err != nil {
		utils.JSONError(w, statusForError(err), err.Error())
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Folder renamed successfully",
		Data: map[string]any{
			"oldName":    result.OldName,
			"newName":    result.NewName,
			"parentPath": result.ParentPath,
		},
	})
}

// DELETE /folders/{id}
// DeleteFolder godoc
// @Summary Delete a folder recursively
// @Description Removes the folder and every descendant file and subfolder
// @Tags Folders
// @Produce json
// @Param id path int true "Folder id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /folders/{id} [delete]
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.engine.DeleteFolder(r.Context(), id); err != nil {
		utils.JSONError(w, statusForError(err), err.Error())
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Folder deleted successfully",
		Data:    map[string]any{"id": id},
	})
}
