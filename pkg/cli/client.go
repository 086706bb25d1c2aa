package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pact-foundation/pact-mockserver/pkg/control/api"
)

// Client is a thin HTTP client for the control service's wire contract.
// Subcommands other than start talk to an already-running control service
// through it.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client targeting baseURL (e.g. "http://127.0.0.1:8080").
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}
}

// APIError is returned when the control service responds with a non-2xx
// status; it carries the status code so callers can branch on it (verify's
// 422, a deleted instance's 404).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("control service: %d %s", e.StatusCode, e.Message)
}

func (c *Client) do(req *http.Request, out interface{}) (int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: reading response: %v", ErrIO, err)
	}

	if resp.StatusCode >= 400 {
		var apiErr api.ErrorResponse
		message := string(body)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			message = apiErr.Error
		}
		if out != nil {
			_ = json.Unmarshal(body, out)
		}
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: decoding response: %v", ErrIO, err)
		}
	}
	return resp.StatusCode, nil
}

// Create POSTs pactJSON to the control service, optionally requesting a
// fixed port or TLS.
func (c *Client) Create(pactJSON []byte, port int, useTLS bool) (api.CreateResponse, error) {
	url := c.baseURL + "/"
	query := ""
	if port != 0 {
		query += "port=" + strconv.Itoa(port)
	}
	if useTLS {
		if query != "" {
			query += "&"
		}
		query += "tls=true"
	}
	if query != "" {
		url += "?" + query
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(pactJSON))
	if err != nil {
		return api.CreateResponse{}, fmt.Errorf("%w: %v", ErrIO, err)
	}

	var resp api.CreateResponse
	_, err = c.do(req, &resp)
	return resp, err
}

// List returns every instance currently registered with the control
// service.
func (c *Client) List() ([]api.InstanceListEntry, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	var entries []api.InstanceListEntry
	_, err = c.do(req, &entries)
	return entries, err
}

// Verify triggers verification of the instance identified by id, optionally
// also writing the consumed pact file to disk (write=true).
func (c *Client) Verify(id string, write bool) (api.VerifyResponse, error) {
	url := c.baseURL + "/mockserver/" + id + "/verify"
	if write {
		url += "?write=true"
	}
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		return api.VerifyResponse{}, fmt.Errorf("%w: %v", ErrIO, err)
	}

	var resp api.VerifyResponse
	_, err = c.do(req, &resp)
	if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusUnprocessableEntity {
		// The body still carries the mismatch report; the non-2xx status
		// alone isn't a transport failure.
		return resp, nil
	}
	return resp, err
}

// Shutdown deletes the instance identified by id.
func (c *Client) Shutdown(id string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/mockserver/"+id, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	_, err = c.do(req, nil)
	return err
}

// ShutdownMaster asks the controlling process to terminate, presenting
// token as the shutdown key.
func (c *Client) ShutdownMaster(token string) error {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/shutdown?token="+token, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	_, err = c.do(req, nil)
	return err
}

// ResolveID maps a port to the id of the instance bound to it, as reported
// by the control service's listing. Used by `verify`/`shutdown` when the
// caller supplies --mock-server-port instead of --mock-server-id.
func (c *Client) ResolveID(port int) (string, error) {
	entries, err := c.List()
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Port == port {
			return e.ID, nil
		}
	}
	return "", fmt.Errorf("%w: no mock server instance bound to port %d", ErrUsage, port)
}
