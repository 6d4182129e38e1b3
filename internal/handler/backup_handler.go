package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lesson-planner-api/internal/models"
	"github.com/noah-isme/lesson-planner-api/internal/service"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
	"github.com/noah-isme/lesson-planner-api/pkg/response"
	"github.com/noah-isme/lesson-planner-api/pkg/storage"
)

type backupService interface {
	List(ctx context.Context) ([]service.BackupInfo, error)
	Load(ctx context.Context, name string) ([]byte, error)
}

type backupImporter interface {
	ImportJSON(ctx context.Context, payload []byte) (models.Counts, error)
}

type linkSigner interface {
	Sign(name string) (string, time.Time, error)
	Verify(token string) (string, error)
}

// DownloadLink is a short-lived URL for fetching one backup without a bearer token.
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// BackupHandler lists rolling backups, restores one of them and hands out signed
// download links.
type BackupHandler struct {
	backups  backupService
	importer backupImporter
	links    linkSigner
}

// NewBackupHandler constructs a backup handler. A nil backup service reports backups as disabled.
func NewBackupHandler(backups backupService, importer backupImporter) *BackupHandler {
	return &BackupHandler{backups: backups, importer: importer}
}

// WithDownloadLinks enables Link and Download.
func (h *BackupHandler) WithDownloadLinks(signer linkSigner) *BackupHandler {
	h.links = signer
	return h
}

// LinksEnabled reports whether the download routes should be mounted.
func (h *BackupHandler) LinksEnabled() bool {
	return h != nil && h.backups != nil && h.links != nil
}

// List godoc
// @Summary List rolling backups
// @Tags Backups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /backups [get]
func (h *BackupHandler) List(c *gin.Context) {
	if h.backups == nil {
		response.JSON(c, http.StatusOK, []service.BackupInfo{}, map[string]interface{}{"enabled": false})
		return
	}
	infos, err := h.backups.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, infos, map[string]interface{}{"enabled": true, "total": len(infos)})
}

// Restore godoc
// @Summary Replace the planner with a stored backup
// @Tags Backups
// @Produce json
// @Security BearerAuth
// @Param name path string true "Backup name"
// @Success 200 {object} response.Envelope
// @Router /backups/{name}/restore [post]
func (h *BackupHandler) Restore(c *gin.Context) {
	if h.backups == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "backups are disabled"))
		return
	}
	payload, err := h.backups.Load(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	counts, err := h.importer.ImportJSON(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts)
}

// Link godoc
// @Summary Issue a signed download link for a backup
// @Tags Backups
// @Produce json
// @Security BearerAuth
// @Param name path string true "Backup name"
// @Success 200 {object} response.Envelope
// @Router /backups/{name}/link [post]
func (h *BackupHandler) Link(c *gin.Context) {
	if !h.LinksEnabled() {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "backup downloads are disabled"))
		return
	}
	name := c.Param("name")
	if _, err := h.backups.Load(c.Request.Context(), name); err != nil {
		response.Error(c, err)
		return
	}
	token, expiresAt, err := h.links.Sign(name)
	if err != nil {
		response.Error(c, appErrors.ErrInternal.Wrap(err, "failed to sign download link"))
		return
	}
	base := strings.TrimSuffix(c.Request.URL.Path, "/"+name+"/link")
	link := DownloadLink{URL: base + "/download?token=" + url.QueryEscape(token), ExpiresAt: expiresAt}
	response.JSON(c, http.StatusOK, link)
}

// Download godoc
// @Summary Download a backup through a signed link
// @Tags Backups
// @Produce json
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Router /backups/download [get]
func (h *BackupHandler) Download(c *gin.Context) {
	if !h.LinksEnabled() {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "backup downloads are disabled"))
		return
	}
	name, err := h.links.Verify(c.Query("token"))
	if err != nil {
		message := "download link is invalid"
		if errors.Is(err, storage.ErrLinkExpired) {
			message = "download link has expired"
		}
		response.Error(c, appErrors.ErrUnauthorized.Wrap(err, message))
		return
	}
	payload, err := h.backups.Load(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, name+".json", "application/json", payload)
}
