package api

import (
	"net/http"

	"github.com/chxlky/trello-card-automation/internal/automation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	Service     *automation.Service
	DefaultList string
}

type createCardRequest struct {
	Text     string `json:"text"`
	ListName *string `json:"list_name"`
}

func (h *Handler) CreateCardHandler(c *gin.Context) {
	var req createCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Debug("Could not bind create-card payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON"})
		return
	}

	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "text field is required"})
		return
	}

	// An explicit empty list_name is looked up as given.
	listName := h.DefaultList
	if req.ListName != nil {
		listName = *req.ListName
	}

	result := h.Service.CreateCardFromText(c.Request.Context(), req.Text, listName)
	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   result.Error,
			"log_id":  result.LogID,
		})
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *Handler) TestConnectionHandler(c *gin.Context) {
	result := h.Service.TestConnection(c.Request.Context())
	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": result.Error})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": result.Message,
		"lists":   result.Lists,
	})
}

func (h *Handler) ListsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "lists": h.Service.GetBoardLists(c.Request.Context())})
}

func (h *Handler) LabelsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "labels": h.Service.GetBoardLabels(c.Request.Context())})
}
