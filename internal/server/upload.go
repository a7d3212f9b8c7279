package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/cv-parser/internal/document"
	"github.com/spigell/cv-parser/internal/logger"
	"github.com/spigell/cv-parser/internal/metrics"
	"github.com/spigell/cv-parser/internal/processor"
)

const uploadField = "file"

func (s *Server) processCV(c *gin.Context) {
	log := logger.WithFields(s.logger, logger.RequestFields(c.GetString(requestIDKey), "")...)

	header, err := c.FormFile(uploadField)
	if err != nil || header.Filename == "" {
		s.reject(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	log = log.With(zap.String(logger.FieldFilename, header.Filename))

	if !document.Supported(header.Filename) {
		s.reject(c, http.StatusBadRequest, "Unsupported file format. Only PDF and DOCX are supported.")
		return
	}

	limit := s.proc.MaxBytes()
	if header.Size > limit {
		s.reject(c, http.StatusBadRequest, tooLarge(limit))
		return
	}

	file, err := header.Open()
	if err != nil {
		s.fail(c, log, fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		s.fail(c, log, fmt.Errorf("read upload: %w", err))
		return
	}

	log.Info("new request", zap.Float64("size_mb", float64(len(data))/(1<<20)))

	record, err := s.proc.Process(c.Request.Context(), header.Filename, data)
	if err != nil {
		if processor.IsClientError(err) {
			log.Info("rejected cv", zap.Error(err))
			s.reject(c, http.StatusBadRequest, clientMessage(err, limit))
			return
		}
		s.fail(c, log, err)
		return
	}

	log.Info("processed cv", zap.Int("skills", len(record.AllSkills)))
	s.observe(metrics.StatusOK)
	c.JSON(http.StatusOK, record)
}

func (s *Server) reject(c *gin.Context, status int, detail string) {
	s.observe(metrics.StatusClientError)
	c.JSON(status, gin.H{"detail": detail})
}

func (s *Server) fail(c *gin.Context, log *zap.Logger, err error) {
	log.Error("processing cv failed", zap.Error(err))
	s.observe(metrics.StatusServerError)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to process CV: " + err.Error()})
}

func (s *Server) observe(status string) {
	if s.metrics != nil {
		s.metrics.Request(status)
	}
}

func clientMessage(err error, limit int64) string {
	if errors.Is(err, processor.ErrFileTooLarge) {
		return tooLarge(limit)
	}
	return err.Error()
}

func tooLarge(limit int64) string {
	return fmt.Sprintf("File size exceeds %dMB limit.", limit>>20)
}
