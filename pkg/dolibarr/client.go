// Package dolibarr wraps the Dolibarr ERP REST API used to register
// subscribers as third parties. Every operation is best-effort: network
// failures, timeouts, non-2xx statuses and unparsable bodies all collapse to
// a nil result, never an error the caller has to handle. Document generation
// must keep working when the ERP is down.
package dolibarr

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// requestTimeout bounds every individual API call.
const requestTimeout = 10 * time.Second

// ThirdParty is the subset of a Dolibarr third-party record this system
// reads. Dolibarr serializes most scalar fields as strings.
type ThirdParty struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NameAlias  string `json:"name_alias"`
	CodeClient string `json:"code_client"`
	Email      string `json:"email"`
	Town       string `json:"town"`
	IDProf2    string `json:"idprof2"`
	IDProf5    string `json:"idprof5"`
}

// CreateResult is the outcome of a successful third-party creation. CodeClient
// is empty when the follow-up fetch for the auto-assigned code failed.
type CreateResult struct {
	ID         int64
	CodeClient string
}

// Config carries the connection settings for one Dolibarr instance.
type Config struct {
	BaseURL string
	APIKey  string
	Enabled bool
}

// Client talks to one Dolibarr instance.
type Client struct {
	http    *resty.Client
	enabled bool
	apiKey  string
	log     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(requestTimeout).
		SetHeader("DOLAPIKEY", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:    http,
		enabled: cfg.Enabled && cfg.APIKey != "",
		apiKey:  cfg.APIKey,
		log:     logger,
	}
}

// Enabled reports whether the integration is active. When false every
// operation is an immediate no-op without any network call.
func (c *Client) Enabled() bool {
	return c.enabled
}

// SearchByCIN looks up an individual subscriber by national identity card
// number (idprof5). Returns nil when disabled, on any failure, or when no
// record matches.
func (c *Client) SearchByCIN(cin string) *ThirdParty {
	if !c.enabled || cin == "" {
		return nil
	}
	results, err := c.search("sqlfilters=" + url.QueryEscape(fmt.Sprintf("(s.idprof5:=:'%s')", cin)))
	if err != nil {
		c.log.Warn("dolibarr CIN search failed", zap.String("cin", cin), zap.Error(err))
		return nil
	}
	if len(results) == 0 {
		return nil
	}
	return &results[0]
}

// SearchByNIF looks up a company by tax identifier (idprof2). When the
// structured filter fails or matches nothing and a company name was supplied,
// falls back to a name search. Dolibarr answers 404 both for an empty result
// set and for a rejected sqlfilters expression, so the two cases cannot be
// told apart here.
func (c *Client) SearchByNIF(nif, raisonSociale string) *ThirdParty {
	if !c.enabled || nif == "" {
		return nil
	}
	results, err := c.search("sqlfilters=" + url.QueryEscape(fmt.Sprintf("(s.idprof2:=:'%s')", nif)))
	if err != nil {
		c.log.Warn("dolibarr NIF search failed, trying name search",
			zap.String("nif", nif), zap.Error(err))
	}
	if err == nil && len(results) > 0 {
		return &results[0]
	}
	if raisonSociale != "" {
		return c.SearchByName(raisonSociale)
	}
	return nil
}

// SearchByName looks up a third party by name. A case-insensitive exact match
// is preferred among the candidates the API returns; otherwise the first
// candidate wins.
func (c *Client) SearchByName(name string) *ThirdParty {
	if !c.enabled || name == "" {
		return nil
	}
	results, err := c.search("name=" + url.QueryEscape(name))
	if err != nil {
		c.log.Warn("dolibarr name search failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	if len(results) == 0 {
		return nil
	}
	for i := range results {
		if strings.EqualFold(results[i].Name, name) {
			return &results[i]
		}
	}
	return &results[0]
}

func (c *Client) search(query string) ([]ThirdParty, error) {
	resp, err := c.http.R().Get("/thirdparties?" + query + "&limit=5")
	if err != nil {
		return nil, err
	}
	// Dolibarr answers 404 for an empty result set on some filter endpoints.
	if resp.StatusCode() == 404 {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("dolibarr API error (%d): %s", resp.StatusCode(), resp.String())
	}
	var results []ThirdParty
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return nil, fmt.Errorf("dolibarr API invalid response: %w", err)
	}
	return results, nil
}

// CreateThirdParty registers a subscriber as a Dolibarr third party. The
// payload mapping depends on the form variant; the contract reference is
// appended to the private notes so ERP users can trace the record back. After
// creation the full record is fetched once to learn the auto-assigned client
// code; that fetch failing only blanks CodeClient, the creation still counts.
func (c *Client) CreateThirdParty(form map[string]string, clientType, reference string) *CreateResult {
	if !c.enabled {
		c.log.Debug("dolibarr integration disabled, skipping third-party creation")
		return nil
	}

	var payload ThirdPartyPayload
	if clientType == "particuliers" {
		payload = MapParticuliers(form)
	} else {
		payload = MapEntreprise(form)
	}
	payload.NotePrivate += "\nRéférence contrat: " + reference

	c.log.Info("creating dolibarr third party",
		zap.String("type", clientType), zap.String("name", payload.Name))

	resp, err := c.http.R().SetBody(payload).Post("/thirdparties")
	if err != nil {
		c.log.Warn("dolibarr third-party creation failed", zap.Error(err))
		return nil
	}
	if resp.IsError() {
		c.log.Warn("dolibarr third-party creation rejected",
			zap.Int("status", resp.StatusCode()), zap.String("body", resp.String()))
		return nil
	}

	// POST /thirdparties returns the new rowid as a bare JSON number.
	var id int64
	if err := json.Unmarshal(resp.Body(), &id); err != nil {
		c.log.Warn("dolibarr creation returned unparsable id", zap.String("body", resp.String()))
		return nil
	}

	result := &CreateResult{ID: id}
	if tp := c.fetch(id); tp != nil {
		result.CodeClient = tp.CodeClient
	}

	c.log.Info("dolibarr third party created",
		zap.Int64("id", id), zap.String("code_client", result.CodeClient))
	return result
}

// fetch retrieves one third party by id. Best-effort; nil on any failure.
func (c *Client) fetch(id int64) *ThirdParty {
	resp, err := c.http.R().Get(fmt.Sprintf("/thirdparties/%d", id))
	if err != nil || resp.IsError() {
		c.log.Warn("could not fetch dolibarr third party", zap.Int64("id", id))
		return nil
	}
	var tp ThirdParty
	if err := json.Unmarshal(resp.Body(), &tp); err != nil {
		return nil
	}
	return &tp
}

// CheckConnection probes the API status endpoint. Used by the health handler.
func (c *Client) CheckConnection() bool {
	if !c.enabled {
		return false
	}
	resp, err := c.http.R().Get("/status")
	if err != nil || resp.IsError() {
		c.log.Warn("dolibarr connection check failed", zap.Error(err))
		return false
	}
	return true
}
