package usecase

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

type CreateLeadInput struct {
	UserID           string          `json:"user_id"` // só respeitado para ADMIN
	Nome             string          `json:"nome"`
	CPF              string          `json:"cpf"`
	Beneficio        string          `json:"beneficio"`
	DDB              string          `json:"ddb"`
	ValorBeneficio   decimal.Decimal `json:"valor_beneficio"`
	DataNascimento   string          `json:"data_nascimento"`
	Idade            int             `json:"idade"`
	CodigoEspecie    int             `json:"codigo_especie"`
	MargemDisponivel decimal.Decimal `json:"margem_disponivel"`
	Municipio        string          `json:"municipio"`
	UF               string          `json:"uf"`
	Telefone1        string          `json:"telefone1"`
	Telefone2        string          `json:"telefone2"`
	Telefone3        string          `json:"telefone3"`
	Status           string          `json:"status"`
	Observacoes      string          `json:"observacoes"`
}

type LeadDetailsOutput struct {
	Lead    *entity.Lead        `json:"lead"`
	History []entity.HistoryLog `json:"history"`
}

type BulkStatusOutput struct {
	Updated int64 `json:"updated"`
}

type LoginInput struct {
	Nome       string `json:"nome"`
	Credencial string `json:"credencial"`
}

type LoginOutput struct {
	User *entity.Actor `json:"user"`
}

type UserInput struct {
	Nome        string     `json:"nome"`
	Telefone    string     `json:"telefone"`
	Status      string     `json:"status"`
	DataFim     *time.Time `json:"data_fim"`
	Observacoes *string    `json:"observacoes"`
}
