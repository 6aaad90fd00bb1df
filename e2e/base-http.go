package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests.
// These scenarios need a live server; without an address the whole suite
// is skipped so a plain `go test ./...` stays green.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("SERVER_ADDR not set, skipping e2e scenarios")
	}
	s.client = &http.Client{Timeout: 30 * time.Second}
}

// Step prints a colorized header for a scenario step in logs
func (s *BaseHTTPSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// DoJSON performs one request against the server, with logging and JSON
// debugging, and decodes the response body into a generic map.
func (s *BaseHTTPSuite) DoJSON(method, path, token string, payload any) (int, map[string]any) {
	var reqBody io.Reader
	var rawPayload []byte
	if payload != nil {
		var err error
		rawPayload, err = json.Marshal(payload)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(rawPayload)
	}

	req, err := http.NewRequest(method, s.Config.ServerAddr+path, reqBody)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err, "Failed to reach server at "+s.Config.ServerAddr)
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))

	// Log full JSON request/response bodies if E2E_DEBUG_JSON is enabled
	if s.Config.DebugJSON {
		if rawPayload != nil {
			fmt.Fprintln(&logBuilder, "\nREQUEST:")
			fmt.Fprintln(&logBuilder, string(rawPayload))
		}
		fmt.Fprintln(&logBuilder, "\nRESPONSE:")
		fmt.Fprintln(&logBuilder, string(rawBody))
	}
	s.T().Log(logBuilder.String())

	body := make(map[string]any)
	if len(rawBody) > 0 {
		s.Require().NoError(json.Unmarshal(rawBody, &body), "Response was not JSON: "+string(rawBody))
	}
	return resp.StatusCode, body
}

// RegisterUser creates an account and returns its bearer token.
func (s *BaseHTTPSuite) RegisterUser(email, name, role string) string {
	status, body := s.DoJSON(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    email,
		"password": "ComplexPass123!",
		"name":     name,
		"role":     role,
	})
	s.Require().Equal(http.StatusCreated, status, "registration failed for %s", email)
	token, _ := body["token"].(string)
	s.Require().NotEmpty(token)
	return token
}
