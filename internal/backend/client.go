/*
 * Copyright (c) 2025 by the CanvasStudio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package backend is the boundary to the platform's CRUD surroundings:
// the hosted template catalog, the image-search proxy, feedback tickets
// and the waitlist. The editor core never talks to the network itself;
// everything passes through this thin JSON client.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"canvasstudio/internal/canvas"
)

// Client is a minimal HTTP client for the platform API.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a platform API client. A trailing slash on baseURL is
// normalized away.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// TemplateSummary is the catalog listing projection.
type TemplateSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AppType   string    `json:"app_type"`
	Category  string    `json:"category"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// ListTemplates returns the hosted catalog listing, optionally filtered by
// editor surface (quote/meme/reel).
func (c *Client) ListTemplates(ctx context.Context, appType string) ([]TemplateSummary, error) {
	path := "/api/templates"
	if appType != "" {
		path += "?app_type=" + url.QueryEscape(appType)
	}
	var list []TemplateSummary
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetTemplate fetches a full template document by id.
func (c *Client) GetTemplate(ctx context.Context, id string) (*canvas.Template, error) {
	var t canvas.Template
	if err := c.doJSON(ctx, http.MethodGet, "/api/templates/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// PushTemplate uploads a template document to the hosted catalog.
func (c *Client) PushTemplate(ctx context.Context, t *canvas.Template) error {
	return c.doJSON(ctx, http.MethodPost, "/api/templates", t, nil)
}

// ImageResult is one hit from the image-search proxy.
type ImageResult struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Attribution  string `json:"attribution"`
}

// SearchImages queries the platform's image-search proxy (which fronts the
// external provider and strips its API key handling away from clients).
func (c *Client) SearchImages(ctx context.Context, query string, limit int) ([]ImageResult, error) {
	q := url.Values{"q": {query}}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	var hits []ImageResult
	if err := c.doJSON(ctx, http.MethodGet, "/api/images/search?"+q.Encode(), nil, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

// Feedback is a user-submitted ticket.
type Feedback struct {
	Email   string `json:"email,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitFeedback files a feedback ticket.
func (c *Client) SubmitFeedback(ctx context.Context, f Feedback) error {
	if strings.TrimSpace(f.Message) == "" {
		return fmt.Errorf("feedback message is required")
	}
	return c.doJSON(ctx, http.MethodPost, "/api/feedback", f, nil)
}

// JoinWaitlist signs an email up for the launch waitlist.
func (c *Client) JoinWaitlist(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	return c.doJSON(ctx, http.MethodPost, "/api/waitlist", map[string]string{"email": email}, nil)
}
