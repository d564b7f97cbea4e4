package controller

import (
	"errors"
	"strconv"

	"worksheet_arc_backend/internal/middleware"
	"worksheet_arc_backend/internal/service"
	"worksheet_arc_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// WorksheetController 生成流水线与当前文档的编辑入口
type WorksheetController struct {
	Generator *service.GeneratorService
	History   *service.HistoryService
}

func NewWorksheetController(generator *service.GeneratorService, history *service.HistoryService) *WorksheetController {
	return &WorksheetController{
		Generator: generator,
		History:   history,
	}
}

// Generate godoc
// @Summary 生成一份教学材料
// @Description 由源文本与配置驱动完整生成流水线；同一用户同时只允许一次生成
// @Tags 材料
// @Accept  json
// @Produce  json
// @Param   X-Device-ID header string false "游客设备标识（未登录时必填）"
// @Param   body body service.GenerationRequest true "生成配置"
// @Success 200 {object} util.Response{data=model.Document} "生成完成"
// @Failure 400 {object} util.Response "请求参数错误或模型不在白名单"
// @Failure 409 {object} util.Response "已有生成在进行中"
// @Failure 502 {object} util.Response "模型响应不可用"
// @Router /api/worksheets/generate [post]
func (c *WorksheetController) Generate(ctx *gin.Context) {
	var req service.GenerationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userKey := middleware.UserKey(ctx)
	doc, err := c.Generator.Generate(ctx.Request.Context(), userKey, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrGenerationInFlight):
			util.Conflict(ctx, "a generation is already in progress")
		case errors.Is(err, util.ErrMissingCredential):
			util.BadRequest(ctx, "AI API key not configured")
		case errors.Is(err, util.ErrMalformedResponse), errors.Is(err, util.ErrInvalidSchema):
			// 可重试：由用户重新点击生成，服务端不自动重试
			util.Error(ctx, 502, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, doc)
}

// Current godoc
// @Summary 当前展示中的文档
// @Tags 材料
// @Produce  json
// @Param   X-Device-ID header string false "游客设备标识（未登录时必填）"
// @Success 200 {object} util.Response{data=model.Document}
// @Failure 404 {object} util.Response "没有当前文档"
// @Router /api/worksheets/current [get]
func (c *WorksheetController) Current(ctx *gin.Context) {
	doc, err := c.History.CurrentDocument(ctx.Request.Context(), middleware.UserKey(ctx))
	if err != nil {
		if errors.Is(err, util.ErrNoCurrentActivity) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, doc)
}

// SetFieldRequest 根级字段编辑
type SetFieldRequest struct {
	Field string `json:"field" binding:"required,oneof=title instructions"`
	Value string `json:"value"`
}

// SetField godoc
// @Summary 编辑标题或指令
// @Description 整值替换，无合并语义
// @Tags 材料
// @Accept  json
// @Produce  json
// @Param   body body SetFieldRequest true "字段与新值"
// @Success 200 {object} util.Response{data=model.Document}
// @Failure 404 {object} util.Response "没有当前文档"
// @Router /api/worksheets/current/field [put]
func (c *WorksheetController) SetField(ctx *gin.Context) {
	var req SetFieldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	doc, err := c.History.SetField(ctx.Request.Context(), middleware.UserKey(ctx), req.Field, req.Value)
	if err != nil {
		c.respondEditError(ctx, err)
		return
	}
	util.Success(ctx, doc)
}

// EditQuestion godoc
// @Summary 编辑单个题目的字段
// @Description 下标越界视为陈旧操作静默忽略，返回当前文档
// @Tags 材料
// @Accept  json
// @Produce  json
// @Param   body body service.EditQuestionRequest true "下标、字段与新值"
// @Success 200 {object} util.Response{data=model.Document}
// @Failure 404 {object} util.Response "没有当前文档"
// @Router /api/worksheets/current/questions [put]
func (c *WorksheetController) EditQuestion(ctx *gin.Context) {
	var req service.EditQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	doc, err := c.History.EditQuestion(ctx.Request.Context(), middleware.UserKey(ctx), &req)
	if err != nil {
		c.respondEditError(ctx, err)
		return
	}
	util.Success(ctx, doc)
}

// ReorderRequest 拖拽重排：from 移到 to 当前的位置
type ReorderRequest struct {
	FromUID string `json:"fromUid" binding:"required"`
	ToUID   string `json:"toUid" binding:"required"`
}

// Reorder godoc
// @Summary 重排题目
// @Description 单元素搬移，其余题目相对顺序不变；未知 uid 静默忽略
// @Tags 材料
// @Accept  json
// @Produce  json
// @Param   body body ReorderRequest true "源与目标题目的 uid"
// @Success 200 {object} util.Response{data=model.Document}
// @Failure 404 {object} util.Response "没有当前文档"
// @Router /api/worksheets/current/questions/reorder [post]
func (c *WorksheetController) Reorder(ctx *gin.Context) {
	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	doc, err := c.History.ReorderQuestions(ctx.Request.Context(), middleware.UserKey(ctx), req.FromUID, req.ToUID)
	if err != nil {
		c.respondEditError(ctx, err)
		return
	}
	util.Success(ctx, doc)
}

// DeleteQuestion godoc
// @Summary 删除一个题目
// @Description 不可撤销，确认交互由客户端负责
// @Tags 材料
// @Produce  json
// @Param   index path int true "题目下标"
// @Success 200 {object} util.Response{data=model.Document}
// @Failure 404 {object} util.Response "没有当前文档"
// @Router /api/worksheets/current/questions/{index} [delete]
func (c *WorksheetController) DeleteQuestion(ctx *gin.Context) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		util.BadRequest(ctx, "index must be an integer")
		return
	}

	doc, err := c.History.DeleteQuestion(ctx.Request.Context(), middleware.UserKey(ctx), index)
	if err != nil {
		c.respondEditError(ctx, err)
		return
	}
	util.Success(ctx, doc)
}

// Save godoc
// @Summary 保存当前文档到历史
// @Description 覆盖 id 匹配的快照并同步当前文档，保存后两者不再分叉
// @Tags 材料
// @Produce  json
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "没有当前文档或快照不存在"
// @Router /api/worksheets/current/save [post]
func (c *WorksheetController) Save(ctx *gin.Context) {
	userKey := middleware.UserKey(ctx)
	doc, err := c.History.CurrentDocument(ctx.Request.Context(), userKey)
	if err != nil {
		c.respondEditError(ctx, err)
		return
	}

	if err := c.History.UpdateHistoryItem(ctx.Request.Context(), userKey, &doc.Activity); err != nil {
		if errors.Is(err, util.ErrHistoryNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

func (c *WorksheetController) respondEditError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrNoCurrentActivity) {
		util.NotFound(ctx)
		return
	}
	util.BadRequest(ctx, err.Error())
}
