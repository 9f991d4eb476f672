package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/policyqa/policyqa-backend/internal/model/conversation"
)

// ErrUpstream reports that the answering service was unreachable or rejected
// the call. Callers surface it as a retryable condition; this layer never
// retries on its own.
var ErrUpstream = errors.New("answering service unavailable")

// Answer is the relay payload returned for one question.
type Answer struct {
	Answer  string                `json:"answer"`
	Sources []conversation.Source `json:"sources"`
}

// Document is one uploaded file forwarded to the answering service.
type Document struct {
	Name    string
	Content []byte
}

// Client talks to the external answering service over HTTP. The service owns
// retrieval, storage, and index builds; this client only relays.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the answering service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Ask forwards the question verbatim and relays the answer and its citations.
func (c *Client) Ask(ctx context.Context, question string) (Answer, error) {
	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return Answer{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return Answer{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[answer] ask request failed: %v", err)
		return Answer{}, ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[answer] ask returned status %d", resp.StatusCode)
		return Answer{}, ErrUpstream
	}

	// The service reports each citation under a "source" key.
	var payload struct {
		Answer  string `json:"answer"`
		Sources []struct {
			Source string `json:"source"`
			Page   *int   `json:"page"`
		} `json:"sources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("[answer] ask returned malformed body: %v", err)
		return Answer{}, ErrUpstream
	}

	sources := make([]conversation.Source, 0, len(payload.Sources))
	for _, src := range payload.Sources {
		sources = append(sources, conversation.Source{
			DocumentName: src.Source,
			Page:         src.Page,
		})
	}

	return Answer{Answer: payload.Answer, Sources: sources}, nil
}

// Upload forwards the documents in one multipart request. Any failure fails
// the whole call; the service remains the source of truth for what it stored.
func (c *Client) Upload(ctx context.Context, docs []Document) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, doc := range docs {
		part, err := writer.CreateFormFile("files", doc.Name)
		if err != nil {
			return err
		}
		if _, err := part.Write(doc.Content); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[answer] upload request failed: %v", err)
		return ErrUpstream
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[answer] upload returned status %d", resp.StatusCode)
		return ErrUpstream
	}
	return nil
}

// Reingest asks the service to rebuild its index from whatever documents it
// currently holds. Only trigger acceptance is reported; there is no job to
// poll afterwards.
func (c *Client) Reingest(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reingest", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[answer] reingest request failed: %v", err)
		return ErrUpstream
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[answer] reingest returned status %d", resp.StatusCode)
		return ErrUpstream
	}
	return nil
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 1<<16))
}
