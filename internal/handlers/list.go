package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shotlist-app/shotlist-backend/internal/services"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

type ListHandler struct {
	listService  services.ListService
	imageService services.ImageService
	userService  services.UserService
}

func NewListHandler(listService services.ListService, imageService services.ImageService, userService services.UserService) *ListHandler {
	return &ListHandler{
		listService:  listService,
		imageService: imageService,
		userService:  userService,
	}
}

func (lh *ListHandler) GetByProject(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}
	lists, err := lh.listService.GetByProject(c.Request.Context(), projectID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, lists)
}

func (lh *ListHandler) Get(c *gin.Context) {
	listID, ok := pathUUID(c, "listID")
	if !ok {
		return
	}
	list, err := lh.listService.Get(c.Request.Context(), listID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, list)
}

func (lh *ListHandler) AddItem(c *gin.Context) {
	listID, ok := pathUUID(c, "listID")
	if !ok {
		return
	}
	var item types.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	stored, err := lh.listService.AddItem(c.Request.Context(), listID, item)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, stored)
}

func (lh *ListHandler) BatchUpdateItems(c *gin.Context) {
	listID, ok := pathUUID(c, "listID")
	if !ok {
		return
	}
	var req struct {
		Updates []types.ItemUpdate `json:"updates"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	list, err := lh.listService.BatchUpdateItems(c.Request.Context(), listID, req.Updates)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, list)
}

func (lh *ListHandler) BatchDeleteItems(c *gin.Context) {
	listID, ok := pathUUID(c, "listID")
	if !ok {
		return
	}
	var req struct {
		ItemIDs []uuid.UUID `json:"item_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	list, err := lh.listService.BatchDeleteItems(c.Request.Context(), listID, req.ItemIDs)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, list)
}

func (lh *ListHandler) CreateOrReset(c *gin.Context) {
	listID, ok := pathUUID(c, "listID")
	if !ok {
		return
	}
	var source types.List
	if err := c.ShouldBindJSON(&source); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	list, err := lh.listService.CreateOrReset(c.Request.Context(), listID, &source)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, list)
}

func (lh *ListHandler) Delete(c *gin.Context) {
	listID, ok := pathUUID(c, "listID")
	if !ok {
		return
	}
	if err := lh.listService.DeleteList(c.Request.Context(), listID); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (lh *ListHandler) UploadItemImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listID")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemID")
	if !ok {
		return
	}
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()

	user, err := lh.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	item, err := lh.imageService.UploadReferenceImage(c.Request.Context(), user, listID, itemID, file)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, item)
}
