package controller

import (
	"errors"
	"fmt"
	"net/http"

	"worksheet_arc_backend/internal/middleware"
	"worksheet_arc_backend/internal/service"
	"worksheet_arc_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExportController struct {
	Export *service.ExportService
}

func NewExportController(export *service.ExportService) *ExportController {
	return &ExportController{Export: export}
}

// Download godoc
// @Summary 导出当前文档为 PDF
// @Description 渲染 A4 分页文档并以附件返回；teacher=true 时附加教师指南页，scaffolded=true 时渲染提示条。插图拉取失败自动降级为无图导出。
// @Tags 导出
// @Produce  application/pdf
// @Param   X-Device-ID header string false "游客设备标识（未登录时必填）"
// @Param   teacher query bool false "附加教师指南页"
// @Param   scaffolded query bool false "渲染题目提示条"
// @Success 200 {file} binary "PDF 文件"
// @Failure 404 {object} util.Response "没有当前文档"
// @Router /api/export/pdf [get]
func (c *ExportController) Download(ctx *gin.Context) {
	opts := service.ExportOptions{
		TeacherMode: ctx.Query("teacher") == "true",
		Scaffolded:  ctx.Query("scaffolded") == "true",
	}

	result, err := c.Export.Export(ctx.Request.Context(), middleware.UserKey(ctx), opts)
	if err != nil {
		if errors.Is(err, util.ErrNoCurrentActivity) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	ctx.Header("X-Page-Count", fmt.Sprintf("%d", result.Pages))
	ctx.Data(http.StatusOK, "application/pdf", result.Data)
}

// Records godoc
// @Summary 最近的导出留痕
// @Tags 导出
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.ExportRecord}
// @Router /api/export/records [get]
func (c *ExportController) Records(ctx *gin.Context) {
	records, err := c.Export.HistoryRepo.ListExportRecords(middleware.UserKey(ctx), 50)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}
