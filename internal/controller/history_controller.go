package controller

import (
	"errors"
	"strconv"

	"worksheet_arc_backend/internal/middleware"
	"worksheet_arc_backend/internal/service"
	"worksheet_arc_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	History *service.HistoryService
}

func NewHistoryController(history *service.HistoryService) *HistoryController {
	return &HistoryController{History: history}
}

// List godoc
// @Summary 历史材料列表
// @Description 按最新在前排序返回全部快照
// @Tags 历史
// @Produce  json
// @Param   X-Device-ID header string false "游客设备标识（未登录时必填）"
// @Success 200 {object} util.Response{data=[]model.HistoryEntry}
// @Router /api/history [get]
func (c *HistoryController) List(ctx *gin.Context) {
	entries, err := c.History.ListHistory(middleware.UserKey(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Load godoc
// @Summary 载入历史快照为当前文档
// @Tags 历史
// @Produce  json
// @Param   id path int true "快照 id（生成时刻的毫秒时间戳）"
// @Success 200 {object} util.Response{data=model.Document}
// @Failure 404 {object} util.Response "快照不存在"
// @Router /api/history/{id}/load [post]
func (c *HistoryController) Load(ctx *gin.Context) {
	id, err := parseActivityID(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	doc, err := c.History.LoadFromHistory(ctx.Request.Context(), middleware.UserKey(ctx), id)
	if err != nil {
		c.respondHistoryError(ctx, err)
		return
	}
	util.Success(ctx, doc)
}

// Delete godoc
// @Summary 删除历史快照
// @Description 被删的恰好是当前展示的文档时，当前文档一并清除
// @Tags 历史
// @Produce  json
// @Param   id path int true "快照 id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "快照不存在"
// @Router /api/history/{id} [delete]
func (c *HistoryController) Delete(ctx *gin.Context) {
	id, err := parseActivityID(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.History.DeleteHistoryItem(ctx.Request.Context(), middleware.UserKey(ctx), id); err != nil {
		c.respondHistoryError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// MoveRequest 相邻换位方向
type MoveRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// Move godoc
// @Summary 调整快照在列表中的位置
// @Description 与相邻条目换位，已在边界时无操作
// @Tags 历史
// @Accept  json
// @Produce  json
// @Param   id path int true "快照 id"
// @Param   body body MoveRequest true "方向"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "快照不存在"
// @Router /api/history/{id}/move [post]
func (c *HistoryController) Move(ctx *gin.Context) {
	id, err := parseActivityID(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var req MoveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.History.MoveHistoryItem(ctx.Request.Context(), middleware.UserKey(ctx), id, req.Direction); err != nil {
		c.respondHistoryError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Clear godoc
// @Summary 清空全部历史
// @Description 同时清除当前文档，不可撤销
// @Tags 历史
// @Produce  json
// @Success 200 {object} util.Response
// @Router /api/history [delete]
func (c *HistoryController) Clear(ctx *gin.Context) {
	if err := c.History.ClearHistory(ctx.Request.Context(), middleware.UserKey(ctx)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *HistoryController) respondHistoryError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrHistoryNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrMalformedResponse):
		util.Error(ctx, 422, "stored snapshot is corrupted")
	default:
		util.LogInternalError(ctx, err)
	}
}

func parseActivityID(ctx *gin.Context) (int64, error) {
	return strconv.ParseInt(ctx.Param("id"), 10, 64)
}
