package ui

import (
	"bytes"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// renderTemplate executes a page template into a buffer and writes it with
// the given status. An execution error never reaches the client as a partial
// dashboard.
func (s *Server) renderTemplate(c *gin.Context, status int, name string, page interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, page); err != nil {
		log.Printf("[Template] %s failed on %s %s: %v", name, c.Request.Method, c.Request.URL.Path, err)
		c.String(http.StatusInternalServerError, "The dashboard could not be rendered.")
		c.Abort()
		return
	}

	if !strings.Contains(buf.String(), "</html>") {
		log.Printf("[Template] %s rendered %d bytes without </html>", name, buf.Len())
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		log.Printf("[Template] write %s: %v", name, err)
	}
}
