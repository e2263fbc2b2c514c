package server

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/maastricht-university/speech-emotion/audio"
	"github.com/maastricht-university/speech-emotion/metrics"
	"github.com/maastricht-university/speech-emotion/orchestrator"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) fail(c *gin.Context, status int, ext, msg string) {
	metrics.UploadRequests.WithLabelValues(strconv.Itoa(status), ext).Inc()
	c.JSON(status, errorResponse{Error: msg})
}

// upload validates the "file" part before anything is written to disk,
// streams it under paths.uploads and answers with one entry per segment.
func (s *Server) upload(c *gin.Context) {
	if limit := s.cfg.Server.MaxUploadMB << 20; limit > 0 && c.Request.ContentLength > limit {
		s.fail(c, http.StatusRequestEntityTooLarge, "unknown", "File too large")
		return
	}
	part, filename, err := filePart(c.Request)
	switch {
	case err != nil && isTooLarge(err):
		s.fail(c, http.StatusRequestEntityTooLarge, "unknown", "File too large")
		return
	case err != nil:
		log.WithError(err).Debug("no file part")
		s.fail(c, http.StatusBadRequest, "unknown", "No file part")
		return
	case filename == "":
		s.fail(c, http.StatusBadRequest, "unknown", "No selected file")
		return
	}
	ext, ok := audio.Extension(filename, s.cfg.Audio.Extensions)
	if !ok {
		s.fail(c, http.StatusBadRequest, "unsupported", "Unsupported file format")
		return
	}

	logger := log.WithField("filename", filename)

	dir := s.cfg.Paths.Uploads
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.WithError(err).Error("create upload dir")
		s.fail(c, http.StatusInternalServerError, ext, "Failed to save file")
		return
	}
	dst := filepath.Join(dir, audio.StoredName(filename, ext))
	size, err := save(part, dst)
	if err != nil {
		cleanup(dst)
		if isTooLarge(err) {
			s.fail(c, http.StatusRequestEntityTooLarge, ext, "File too large")
			return
		}
		logger.WithError(err).Error("save upload")
		s.fail(c, http.StatusInternalServerError, ext, "Failed to save file")
		return
	}
	if !s.cfg.Paths.KeepUploads {
		defer cleanup(dst)
	}
	logger = logger.WithField("size", size)

	a, err := s.pipe.Run(c.Request.Context(), dst)
	if err != nil {
		logger.WithError(err).Error("analysis failed")
		if errors.Is(err, orchestrator.ErrConvert) {
			s.fail(c, http.StatusInternalServerError, ext, "Failed to convert audio")
		} else {
			s.fail(c, http.StatusInternalServerError, ext, "Failed to analyze audio")
		}
		return
	}

	segs := a.Segments
	if segs == nil {
		segs = []orchestrator.SegmentResult{}
	}
	metrics.UploadRequests.WithLabelValues("200", ext).Inc()
	c.JSON(http.StatusOK, segs)
}

// filePart walks the multipart body up to the first "file" part that is a
// file, i.e. whose Content-Disposition carries a filename parameter. Plain
// "file" fields are skipped. The returned filename may be empty.
func filePart(r *http.Request) (*multipart.Part, string, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, "", err
	}
	for {
		p, err := mr.NextPart()
		if err != nil {
			return nil, "", err
		}
		if p.FormName() != "file" {
			continue
		}
		_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
		if err != nil {
			continue
		}
		name, isFile := params["filename"]
		if !isFile {
			continue
		}
		if name != "" {
			name = filepath.Base(name)
		}
		return p, name, nil
	}
}

func save(src io.Reader, dst string) (int64, error) {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

// cleanup removes the stored upload; the pipeline removes its own WAV copy.
func cleanup(stored string) {
	if err := os.Remove(stored); err != nil && !os.IsNotExist(err) {
		log.WithError(err).WithField("path", stored).Warn("remove upload")
	}
}
