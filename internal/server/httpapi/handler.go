package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/filevault/internal/common"
)

type uploadURLRequest struct {
	// Identity is accepted for interface compatibility but must match the
	// authenticated caller when present.
	Identity string `json:"identity"`
	Filename string `json:"filename"`
}

type uploadURLResponse struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type deleteRequest struct {
	Key string `json:"key"`
}

type shareRequest struct {
	Key              string `json:"key"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

type shareResponse struct {
	ShareURL  string    `json:"shareUrl"`
	ExpiresIn int64     `json:"expiresIn"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// handleCreateUploadURL issues a PUT capability for the caller's file. The
// client then uploads the bytes directly to the store with
// Content-Type: application/octet-stream.
func (s *Server) handleCreateUploadURL(c echo.Context) error {
	identity, ok := requesterIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid requester"})
	}

	var req uploadURLRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Identity != "" && req.Identity != identity {
		return c.JSON(http.StatusForbidden, echo.Map{"error": common.ErrNamespaceViolation.Error()})
	}

	ticket, err := s.files.RequestUpload(c.Request().Context(), identity, req.Filename)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, uploadURLResponse{
		Key:       ticket.Key,
		UploadURL: ticket.UploadURL,
		ExpiresAt: ticket.ExpiresAt,
	})
}

func (s *Server) handleListFiles(c echo.Context) error {
	identity, ok := requesterIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid requester"})
	}

	if q := c.QueryParam("identity"); q != "" && q != identity {
		return c.JSON(http.StatusForbidden, echo.Map{"error": common.ErrNamespaceViolation.Error()})
	}

	entries, err := s.files.ListFiles(c.Request().Context(), identity)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"files": entries})
}

func (s *Server) handleDeleteFile(c echo.Context) error {
	identity, ok := requesterIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid requester"})
	}

	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	if err := s.files.DeleteFile(c.Request().Context(), identity, req.Key); err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (s *Server) handleShare(c echo.Context) error {
	identity, ok := requesterIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid requester"})
	}

	var req shareRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	link, err := s.share.Share(c.Request().Context(), identity, req.Key, time.Duration(req.ExpiresInSeconds)*time.Second)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, shareResponse{
		ShareURL:  link.ShareURL,
		ExpiresIn: int64(link.ExpiresIn.Seconds()),
		ExpiresAt: link.ExpiresAt,
	})
}

// writeError translates the error taxonomy into status codes. Store and
// configuration failures are reported with their classified message only;
// SDK details stay in the logs.
func (s *Server) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, common.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": common.ErrInvalidToken.Error()})
	case errors.Is(err, common.ErrNamespaceViolation):
		return c.JSON(http.StatusForbidden, echo.Map{"error": common.ErrNamespaceViolation.Error()})
	case errors.Is(err, common.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": common.ErrNotFound.Error()})
	case errors.Is(err, common.ErrConfiguration):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": common.ErrConfiguration.Error()})
	case errors.Is(err, common.ErrStoreOperation):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": common.ErrStoreOperation.Error()})
	default:
		s.logger.Error(c.Request().Context(), "unclassified error", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
