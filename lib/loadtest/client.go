package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	apiError "github.com/protegeproject/webprotege-revision-manager/lib/api/errors"
	"github.com/protegeproject/webprotege-revision-manager/lib/api/revisions"
	"github.com/protegeproject/webprotege-revision-manager/lib/ws"
)

// Client talks to one document of a running revision manager.
type Client struct {
	host       string
	documentID string
}

func NewClient(host, documentID string) *Client {
	return &Client{host: strings.TrimSuffix(host, "/"), documentID: documentID}
}

func (c *Client) DocumentID() string {
	return c.documentID
}

// CreateDocument registers the document. A document that already exists is
// reused.
func (c *Client) CreateDocument() error {
	agent := fiber.Post(c.host + "/api/documents")
	agent.JSON(map[string]string{"documentId": c.documentID})
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if code != fiber.StatusCreated && code != fiber.StatusConflict {
		return responseError(code, body)
	}
	return nil
}

// AddRevision submits a revision and returns the number the server assigned.
func (c *Client) AddRevision(request revisions.AddRevisionRequest) (int64, error) {
	agent := fiber.Post(c.host + "/api/documents/" + url.PathEscape(c.documentID) + "/revisions")
	agent.JSON(request)
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, errs[0]
	}
	if code != fiber.StatusCreated {
		return 0, responseError(code, body)
	}
	var summary revisions.RevisionSummaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return 0, err
	}
	return summary.RevisionNumber, nil
}

// Subscribe follows the saved revisions of the document until ctx is done.
// onSaved runs on the reading goroutine.
func (c *Client) Subscribe(ctx context.Context, onSaved func(ws.RevisionSavedData)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.feedURL(), nil)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		for {
			var message ws.Message
			if err := conn.ReadJSON(&message); err != nil {
				return
			}
			if message.Type == ws.RevisionSavedType {
				onSaved(message.Data)
			}
		}
	}()
	return nil
}

func (c *Client) feedURL() string {
	host := c.host
	switch {
	case strings.HasPrefix(host, "https://"):
		host = "wss://" + strings.TrimPrefix(host, "https://")
	case strings.HasPrefix(host, "http://"):
		host = "ws://" + strings.TrimPrefix(host, "http://")
	}
	return host + "/api/ws?documentId=" + url.QueryEscape(c.documentID)
}

func responseError(code int, body []byte) error {
	var decoded apiError.Error
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Message != "" {
		return fmt.Errorf("server answered %d: %s", code, decoded.Message)
	}
	return fmt.Errorf("server answered %d", code)
}
