package api

import (
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rmfonseca/glicolog/internal/ingest"
	"github.com/rmfonseca/glicolog/internal/model"
	"github.com/rmfonseca/glicolog/internal/parse"
)

// Handler serves the intake endpoints.
type Handler struct {
	log zerolog.Logger
	pol parse.Policy
}

func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/imports", h.Import)
}

// importReply mirrors the batch result: parsed records plus failures
// grouped by category.
type importReply struct {
	Parsed   int                            `json:"parsed"`
	Failed   int                            `json:"failed"`
	Records  []*model.PatientRecord         `json:"records"`
	Failures map[string][]model.FileFailure `json:"failures,omitempty"`
}

// Import parses every workbook in the multipart form field "file".
// POST /api/imports
func (h *Handler) Import(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": `no workbooks in form field "file"`})
		return
	}

	records := make([]*model.PatientRecord, 0, len(files))
	var failures []model.FileFailure
	for _, fh := range files {
		rec, err := h.parseUpload(fh)
		if err != nil {
			fe, ok := parse.AsFileError(err)
			if !ok {
				fe = &parse.FileError{File: fh.Filename, Category: model.FailureFormat, Err: err}
			}
			failures = append(failures, model.FileFailure{
				FileName: fe.File,
				Category: fe.Category,
				Message:  fe.Err.Error(),
			})
			h.log.Warn().Str("file", fe.File).Str("category", string(fe.Category)).Err(fe.Err).Msg("upload rejected")
			continue
		}
		records = append(records, rec)
		h.log.Info().Str("file", rec.SourceFile).Int("readings", len(rec.Readings)).Msg("upload parsed")
	}

	status := http.StatusOK
	if len(records) == 0 {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, importReply{
		Parsed:   len(records),
		Failed:   len(failures),
		Records:  records,
		Failures: ingest.GroupFailures(failures),
	})
}

func (h *Handler) parseUpload(fh *multipart.FileHeader) (*model.PatientRecord, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, &parse.FileError{File: fh.Filename, Category: model.FailureFormat, Err: err}
	}
	defer f.Close()
	return parse.Reader(f, filepath.Base(fh.Filename), h.pol)
}
