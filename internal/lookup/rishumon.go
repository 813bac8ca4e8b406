package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Rishumon queries the Rishumon registry HTTP API.
type Rishumon struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewRishumon creates a client for the registry at baseURL.
func NewRishumon(baseURL, apiKey string) *Rishumon {
	return &Rishumon{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// rishumonRecord mirrors the registry's response field names.
type rishumonRecord struct {
	Name   string `json:"Name"`
	Family string `json:"Family"`
	BDate  string `json:"BDate"`
}

// LookupID implements Directory.
func (r *Rishumon) LookupID(ctx context.Context, id string) ([]Person, error) {
	u := fmt.Sprintf("%s/api/v1/persons?id=%s", r.baseURL, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build rishumon request: %w", err)
	}
	req.Header.Set("X-API-Key", r.apiKey)

	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call rishumon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rishumon returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var records []rishumonRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode rishumon response: %w", err)
	}

	persons := make([]Person, 0, len(records))
	for _, rec := range records {
		persons = append(persons, Person{
			FirstName: rec.Name,
			LastName:  rec.Family,
			BirthDate: rec.BDate,
		})
	}
	return persons, nil
}
