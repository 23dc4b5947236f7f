package ui

import (
	"bytes"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"effcost/adapters/excel"
	"effcost/adapters/render"
	"effcost/app"
	"effcost/domain/core"
	"effcost/internal/errors"
)

const (
	runIDHeader = "X-Run-ID"
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleEfficiency computes a report from the request body. The body is CSV
// unless the Content-Type names an xlsx workbook; ?format selects the output.
func (s *Server) handleEfficiency(c *gin.Context) {
	// callers may correlate their own request; anything that is not a UUID is replaced
	runID, err := core.ParseRunID(c.GetHeader(runIDHeader))
	if err != nil {
		runID = core.NewRunID()
	}
	c.Header(runIDHeader, runID.String())

	renderer, err := render.ForFormat(c.Query("format"))
	if err != nil {
		s.respondError(c, runID, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	readerConfig := s.readerConfig
	if strict := c.Query("strict_columns"); strict != "" {
		v, err := strconv.ParseBool(strict)
		if err != nil {
			s.respondError(c, runID, errors.InvalidInput("strict_columns must be a boolean"))
			return
		}
		readerConfig.StrictColumns = v
	}

	if !s.computeSem.TryAcquire(1) {
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":  "too many reports in progress",
			"code":   "BUSY",
			"run_id": runID.String(),
		})
		return
	}
	defer s.computeSem.Release(1)

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":  "request body exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
				"code":   errors.CodeMalformedInput,
				"run_id": runID.String(),
			})
			return
		}
		s.respondError(c, runID, core.NewMalformedInputError("read request body: %v", err))
		return
	}

	source := excel.NewStreamReader("request body", bodyFormat(c.ContentType()), bytes.NewReader(body), readerConfig, s.logger)
	result, err := s.service.Generate(c.Request.Context(), app.ReportRequest{
		Source:   source,
		Renderer: renderer,
		RunID:    runID,
	})
	if err != nil {
		s.respondError(c, runID, err)
		return
	}

	c.Data(http.StatusOK, renderer.ContentType(), result.Output)
}

func (s *Server) respondError(c *gin.Context, runID core.RunID, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	if errors.IsInputCode(code) {
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("run %s: %v", runID, err)
	}
	c.JSON(status, gin.H{
		"error":  err.Error(),
		"code":   code,
		"run_id": runID.String(),
	})
}

func bodyFormat(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil && mediaType == xlsxMIME {
		return excel.FormatXLSX
	}
	return excel.FormatCSV
}
