// Package hubspot synchronizes lead records with the HubSpot contacts API.
// An expired access token is refreshed once and the failed call retried once
// before the failure surfaces; callers treat sync failures as non-fatal.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"lead-agent/model"
)

// ErrUnauthorized marks a 401 from HubSpot, the trigger for a token refresh.
var ErrUnauthorized = errors.New("hubspot: unauthorized")

type Client struct {
	baseURL      string
	accessToken  string
	refreshToken string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	log          *zap.Logger
}

type Options struct {
	BaseURL      string
	AccessToken  string
	RefreshToken string
	ClientID     string
	ClientSecret string
}

func NewClient(opts Options, log *zap.Logger) *Client {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.hubapi.com"
	}
	return &Client{
		baseURL:      baseURL,
		accessToken:  opts.AccessToken,
		refreshToken: opts.RefreshToken,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		log:          log,
	}
}

// CreateOrUpdateContact upserts the lead: it updates the known contact id
// when the lead already carries one, otherwise searches by telegram id, and
// creates a new contact as a last resort. Returns the contact id.
func (c *Client) CreateOrUpdateContact(ctx context.Context, lead *model.Lead) (string, error) {
	return c.withTokenRefresh(ctx, func(ctx context.Context) (string, error) {
		properties := contactProperties(lead)

		if lead.HubSpotContactID != "" {
			if err := c.updateContact(ctx, lead.HubSpotContactID, properties); err == nil {
				return lead.HubSpotContactID, nil
			} else if errors.Is(err, ErrUnauthorized) {
				return "", err
			}
		}

		existingID, err := c.findContactByTelegramID(ctx, lead.TelegramID)
		if err != nil {
			return "", err
		}
		if existingID != "" {
			if err := c.updateContact(ctx, existingID, properties); err != nil {
				return "", err
			}
			return existingID, nil
		}

		return c.createContact(ctx, properties)
	})
}

// CreateContact always creates a fresh contact, used on session reset.
func (c *Client) CreateContact(ctx context.Context, lead *model.Lead) (string, error) {
	return c.withTokenRefresh(ctx, func(ctx context.Context) (string, error) {
		return c.createContact(ctx, contactProperties(lead))
	})
}

// withTokenRefresh runs fn, and on an authorization failure refreshes the
// access token once and retries fn once. Any other failure, and a failure of
// the refresh itself, surfaces immediately.
func (c *Client) withTokenRefresh(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	id, err := fn(ctx)
	if !errors.Is(err, ErrUnauthorized) {
		return id, err
	}

	c.log.Warn("hubspot access token expired, refreshing")
	if refreshErr := c.refreshAccessToken(ctx); refreshErr != nil {
		return "", fmt.Errorf("refresh access token: %w", refreshErr)
	}
	return fn(ctx)
}

func (c *Client) refreshAccessToken(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("refresh_token", c.refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/v1/token", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("token refresh failed (status %d): %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return fmt.Errorf("token refresh returned empty access token")
	}
	c.accessToken = tokenResp.AccessToken
	c.log.Info("hubspot access token refreshed")
	return nil
}

func (c *Client) createContact(ctx context.Context, properties map[string]string) (string, error) {
	body, status, err := c.doJSON(ctx, http.MethodPost, "/crm/v3/objects/contacts", map[string]any{"properties": properties})
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("create contact failed (status %d): %s", status, body)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	return created.ID, nil
}

func (c *Client) updateContact(ctx context.Context, contactID string, properties map[string]string) error {
	body, status, err := c.doJSON(ctx, http.MethodPatch, "/crm/v3/objects/contacts/"+contactID, map[string]any{"properties": properties})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("update contact %s failed (status %d): %s", contactID, status, body)
	}
	return nil
}

func (c *Client) findContactByTelegramID(ctx context.Context, telegramID string) (string, error) {
	payload := map[string]any{
		"filterGroups": []map[string]any{{
			"filters": []map[string]any{{
				"propertyName": "telegram_id",
				"operator":     "EQ",
				"value":        telegramID,
			}},
		}},
	}
	body, status, err := c.doJSON(ctx, http.MethodPost, "/crm/v3/objects/contacts/search", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("contact search failed (status %d): %s", status, body)
	}
	var result struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}
	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].ID, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, resp.StatusCode, ErrUnauthorized
	}
	return body, resp.StatusCode, nil
}

func contactProperties(lead *model.Lead) map[string]string {
	properties := map[string]string{
		"telegram_id":    lead.TelegramID,
		"telegram_lead":  "true",
		"lifecyclestage": "lead",
	}
	if lead.Name != "" {
		properties["firstname"] = lead.Name
	}
	if lead.CompanyName != "" {
		properties["empresa_asociada"] = lead.CompanyName
	}
	if lead.CompanyBusiness != "" {
		properties["giro_empresa"] = lead.CompanyBusiness
	}
	if lead.Phone != "" {
		properties["phone"] = lead.Phone
	}
	if lead.Email != "" {
		properties["email"] = lead.Email
	}
	if lead.Location != "" {
		properties["city"] = lead.Location
	}
	if lead.EquipmentInterest != "" {
		properties["equipo_interesado"] = lead.EquipmentInterest
	}
	if lead.UseType != "" {
		properties["tipo_lead"] = lead.UseType
	}
	if len(lead.MachineCharacteristics) > 0 {
		properties["caracteristicas_equipo"] = strings.Join(lead.MachineCharacteristics, "; ")
	}
	return properties
}
