package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/util/httpx"
)

const baseURL = "https://openlibrary.org"

type httpRepo struct {
	client *http.Client
}

func NewHTTP() Repo { return &httpRepo{client: httpx.Client()} }

func (r *httpRepo) ByISBN(ctx context.Context, isbn string) (*Metadata, error) {
	u := fmt.Sprintf("%s/isbn/%s.json", baseURL, url.PathEscape(isbn))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openlibrary lookup failed: %s", resp.Status)
	}

	var out struct {
		Title      string   `json:"title"`
		Publishers []string `json:"publishers"`
		Subjects   []string `json:"subjects"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return &Metadata{Title: out.Title, Publishers: out.Publishers, Subjects: out.Subjects}, nil
}
