package kommo

import "github.com/shopspring/decimal"

type HandoffInput struct {
	Nome      string
	CPF       string
	Telefones []string
	Margem    decimal.Decimal
	Beneficio string
}

type embeddedIDs struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}
