package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handler forwards /api/todo calls to the backend task collection.
// It keeps no state between requests.
type Handler struct {
	backendURL string
	client     *http.Client
	logger     *log.Logger
}

func NewHandler(backendURL string, client *http.Client, logger *log.Logger) *Handler {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Handler{
		backendURL: strings.TrimRight(backendURL, "/"),
		client:     client,
		logger:     logger,
	}
}

// target is the collection URL, or the item URL when id is set.
func (h *Handler) target(id string) string {
	if id == "" {
		return h.backendURL
	}
	return h.backendURL + "/" + url.PathEscape(id)
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPatch
}

// Todo handles GET, POST, PATCH and DELETE on /api/todo.
func (h *Handler) Todo(c *gin.Context) {
	method := c.Request.Method
	rid := c.GetString(requestIDKey)
	h.logger.Printf("[%s] %s rid=%s", method, c.Request.URL.RequestURI(), rid)

	var body io.Reader
	if hasBody(method) {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body", "details": err.Error()})
			return
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), method, h.target(c.Query("id")), body)
	if err != nil {
		h.fail(c, method, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if rid != "" {
		req.Header.Set(RequestIDHeader, rid)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.fail(c, method, err)
		return
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		h.fail(c, method, fmt.Errorf("read backend response: %w", err))
		return
	}
	h.logger.Printf("[%s] backend responded %d %s rid=%s", method, resp.StatusCode, http.StatusText(resp.StatusCode), rid)

	if resp.StatusCode >= http.StatusBadRequest {
		h.relayError(c, resp.StatusCode, payload)
		return
	}

	if method == http.MethodDelete || len(bytes.TrimSpace(payload)) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	if !json.Valid(payload) {
		h.fail(c, method, errors.New("backend returned a body that is not JSON"))
		return
	}
	c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", payload)
}

// relayError forwards the backend's status and JSON body unchanged. Non-JSON
// bodies are wrapped so the client can always read an error field.
func (h *Handler) relayError(c *gin.Context, status int, payload []byte) {
	if json.Valid(payload) {
		c.Data(status, gin.MIMEJSON+"; charset=utf-8", payload)
		return
	}
	msg := strings.TrimSpace(string(payload))
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.JSON(status, gin.H{"error": msg})
}

func (h *Handler) fail(c *gin.Context, method string, err error) {
	te := NewTransportError(err)
	h.logger.Printf("[%s] backend call failed kind=%s: %v", method, te.Kind, err)
	c.JSON(http.StatusBadGateway, te.Failure(h.backendURL))
}
