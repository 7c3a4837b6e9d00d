package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ericoliveiras/artkey-store/internal/design"
	"github.com/ericoliveiras/artkey-store/internal/portal"
	"github.com/ericoliveiras/artkey-store/internal/printspec"
	"github.com/ericoliveiras/artkey-store/internal/store"
)

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInUse),
		errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, printspec.ErrInvalidSpec),
		errors.Is(err, printspec.ErrNotPrintable),
		errors.Is(err, design.ErrEmptyImage),
		errors.Is(err, design.ErrQROutside),
		errors.Is(err, portal.ErrInvalidEntry):
		return http.StatusBadRequest
	case errors.Is(err, portal.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, portal.ErrTokenExpired):
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

// respondError writes {success:false,error} for err. Internal errors are
// logged and replaced by msg so no driver detail reaches the client.
func respondError(c *gin.Context, log *logrus.Logger, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error(msg)
		c.JSON(status, gin.H{"success": false, "error": msg})
		return
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}
