package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"github.com/xavierca1/oneconsig-crm/internal/infra/logging"
	"go.uber.org/zap"
)

const approvedTag = "margem_aprovada"

type Client struct {
	apiToken   string
	baseURL    string
	statusID   int
	httpClient *http.Client
}

func NewClient(apiToken, baseURL string, statusID int) *Client {
	return &Client{
		apiToken:   apiToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		statusID:   statusID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// HandoffApprovedLead cria (ou reaproveita) o contato e abre um lead no funil
// de vendas com a margem aprovada como valor.
func (c *Client) HandoffApprovedLead(ctx context.Context, lead *entity.Lead) error {
	_, err := c.CreateLead(ctx, InputFromLead(lead))
	return err
}

func InputFromLead(lead *entity.Lead) HandoffInput {
	input := HandoffInput{
		Nome:   lead.Nome,
		CPF:    lead.CPF,
		Margem: lead.MargemDisponivel,
	}
	for _, tel := range []*string{lead.Telefone1, lead.Telefone2, lead.Telefone3} {
		if tel != nil && *tel != "" {
			input.Telefones = append(input.Telefones, *tel)
		}
	}
	if lead.Beneficio != nil {
		input.Beneficio = *lead.Beneficio
	}
	return input
}

func (c *Client) CreateLead(ctx context.Context, input HandoffInput) (int, error) {
	if c.apiToken == "" {
		zap.L().Warn("⚠️ Kommo: API_TOKEN não configurado")
		return 0, fmt.Errorf("kommo não configurado")
	}

	contactID, err := c.findOrCreateContact(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("erro ao criar/buscar contato: %w", err)
	}

	name := input.Nome
	if input.Beneficio != "" {
		name = fmt.Sprintf("%s - NB %s", input.Nome, input.Beneficio)
	}
	lead := map[string]interface{}{
		"name":  name,
		"price": input.Margem.Round(0).IntPart(),
		"_embedded": map[string]interface{}{
			"tags":     []map[string]interface{}{{"name": approvedTag}},
			"contacts": []map[string]interface{}{{"id": contactID}},
		},
	}
	if c.statusID != 0 {
		lead["status_id"] = c.statusID
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/leads", []map[string]interface{}{lead}, &result); err != nil {
		return 0, fmt.Errorf("erro ao criar lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, fmt.Errorf("lead não criado")
	}

	leadID := result.Embedded.Leads[0].ID
	zap.L().Info("✅ Kommo: Lead criado",
		zap.Int("kommo_lead_id", leadID), zap.String("cpf", logging.MaskCPF(input.CPF)))
	return leadID, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, input HandoffInput) (int, error) {
	for _, phone := range input.Telefones {
		contactID, err := c.findContact(ctx, phone)
		if err == nil && contactID > 0 {
			zap.L().Info("📱 Kommo: Contato existente encontrado", zap.Int("contact_id", contactID))
			return contactID, nil
		}
	}
	return c.createContact(ctx, input)
}

func (c *Client) findContact(ctx context.Context, query string) (int, error) {
	var result embeddedIDs
	if err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(query), nil, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) > 0 {
		return result.Embedded.Contacts[0].ID, nil
	}
	return 0, fmt.Errorf("contato não encontrado")
}

func (c *Client) createContact(ctx context.Context, input HandoffInput) (int, error) {
	phones := make([]map[string]interface{}, 0, len(input.Telefones))
	for _, p := range input.Telefones {
		phones = append(phones, map[string]interface{}{"value": p, "enum_code": "WORK"})
	}

	contact := map[string]interface{}{"name": input.Nome}
	if len(phones) > 0 {
		contact["custom_fields_values"] = []map[string]interface{}{
			{"field_code": "PHONE", "values": phones},
		}
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/contacts", []map[string]interface{}{contact}, &result); err != nil {
		return 0, fmt.Errorf("erro ao criar contato: %w", err)
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, fmt.Errorf("erro ao obter ID do contato criado")
	}

	contactID := result.Embedded.Contacts[0].ID
	zap.L().Info("✅ Kommo: Novo contato criado", zap.Int("contact_id", contactID))
	return contactID, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("status %d - %s", resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
