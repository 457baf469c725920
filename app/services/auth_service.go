package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopshap/shopshap/app/configs"
)

// AuthUser is the identity the OAuth provider hands back after a code
// exchange or a bearer-token lookup.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthClient interface {
	AuthorizeURL(state string) string
	ExchangeCode(code string) (*AuthUser, error)
	UserFromToken(token string) (*AuthUser, error)
}

// AuthService talks to the hosted auth provider over plain HTTP: one
// consolidated code exchange on the server, no token fragments in URLs.
type AuthService struct {
	client       *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	redirectURL  string
}

func NewAuthService(env configs.ENV) *AuthService {
	return &AuthService{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:      strings.TrimRight(env.OAuthBaseURL, "/"),
		clientID:     env.OAuthClientID,
		clientSecret: env.OAuthClientSecret,
		redirectURL:  strings.TrimRight(env.AppURL, "/") + "/auth/callback",
	}
}

func (s *AuthService) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", s.clientID)
	q.Set("redirect_uri", s.redirectURL)
	q.Set("state", state)
	return s.baseURL + "/oauth/authorize?" + q.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ExchangeCode trades an authorization code for a token, then resolves the
// user behind it. Any failure is terminal for the sign-in attempt.
func (s *AuthService) ExchangeCode(code string) (*AuthUser, error) {
	formData := url.Values{}
	formData.Set("grant_type", "authorization_code")
	formData.Set("code", code)
	formData.Set("client_id", s.clientID)
	formData.Set("client_secret", s.clientSecret)
	formData.Set("redirect_uri", s.redirectURL)

	req, err := http.NewRequest("POST", s.baseURL+"/oauth/token", strings.NewReader(formData.Encode()))
	if err != nil {
		log.Printf("AuthService: Error creating token request: %v", err)
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("AuthService: Error performing token request: %v", err)
		return nil, fmt.Errorf("failed to perform token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("AuthService: Error reading token response body: %v", err)
		return nil, fmt.Errorf("failed to read token response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("AuthService: Token endpoint returned non-OK status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("auth provider error: status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		log.Printf("AuthService: Error unmarshalling token response: %v", err)
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("auth provider returned an empty access token")
	}

	return s.UserFromToken(token.AccessToken)
}

// UserFromToken resolves a bearer token to the provider user, used both by
// the callback and by API clients sending Authorization headers.
func (s *AuthService) UserFromToken(token string) (*AuthUser, error) {
	req, err := http.NewRequest("GET", s.baseURL+"/oauth/userinfo", nil)
	if err != nil {
		log.Printf("AuthService: Error creating userinfo request: %v", err)
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("AuthService: Error performing userinfo request: %v", err)
		return nil, fmt.Errorf("failed to perform userinfo request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("AuthService: Error reading userinfo response body: %v", err)
		return nil, fmt.Errorf("failed to read userinfo response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("AuthService: Userinfo endpoint returned non-OK status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("invalid or expired token: status %d", resp.StatusCode)
	}

	var user AuthUser
	if err := json.Unmarshal(body, &user); err != nil {
		log.Printf("AuthService: Error unmarshalling userinfo response: %v", err)
		return nil, fmt.Errorf("failed to parse userinfo response: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("auth provider returned a user without an id")
	}

	return &user, nil
}
