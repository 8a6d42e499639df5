package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Zh-Andrew/foodgram-project-react/internal/apperr"
)

// renderError writes the JSON error response for a service error, hiding
// internal failure details from the caller.
func renderError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("internal error")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	payload := gin.H{"error": err.Error()}
	var appErr *apperr.Error
	if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
		payload["fields"] = appErr.Fields
	}
	c.JSON(status, payload)
}
