package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

const (
	placeholderNome = "Sem Nome"
	currencySign    = "R$"
	utf8BOM         = "\ufeff"
)

var (
	nonDigit    = regexp.MustCompile(`\D`)
	brDate      = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// Aliases aceitos por coluna canônica. O primeiro header que bater vence.
var columnAliases = []struct {
	field   string
	aliases []string
}{
	{"cpf", []string{"CPF"}},
	{"nome", []string{"NOME"}},
	{"beneficio", []string{"BENEFICIO", "NB", "NUMERO_BENEFICIO"}},
	{"ddb", []string{"DDB", "DATA_INICIO"}},
	{"valor", []string{"VALOR_BENEFICIO", "VALOR"}},
	{"nasc", []string{"DATA_NASCIMENTO", "NASCIMENTO"}},
	{"idade", []string{"IDADE"}},
	{"especie", []string{"CODIGO_ESPECIE", "ESP", "ESPECIE"}},
	{"margem", []string{"MARGEM_DISPONIVEL", "MARGEM"}},
	{"muni", []string{"MUNICIPIO", "CIDADE"}},
	{"uf", []string{"UF", "ESTADO"}},
	{"tel1", []string{"LEMITTI1", "LEMITT1", "TELEFONE1"}},
	{"tel2", []string{"LEMITTI2", "LEMITT2", "TELEFONE2"}},
	{"tel3", []string{"LEMITTI3", "LEMITT3", "TELEFONE3"}},
}

// ParseLeadsCSV converte o texto de um mailing em leads normalizados.
// Linhas sem CPF são descartadas sem aviso; um arquivo sem linhas válidas
// devolve slice vazio (quem chama decide se isso é erro). O CPF fica como veio
// na célula, pois é a chave do upsert.
func ParseLeadsCSV(text string) ([]entity.Lead, error) {
	// Planilhas salvas pelo Excel costumam vir com BOM.
	lines := strings.Split(strings.TrimPrefix(text, utf8BOM), "\n")
	header := lines[0]

	sep := ","
	if strings.Contains(header, ";") {
		sep = ";"
	}

	headers := strings.Split(header, sep)
	for i := range headers {
		headers[i] = strings.ToUpper(strings.TrimSpace(headers[i]))
	}

	idx := resolveColumns(headers)

	var missing []string
	if idx["cpf"] == -1 {
		missing = append(missing, "CPF")
	}
	if idx["nome"] == -1 {
		missing = append(missing, "NOME")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing, Headers: headers}
	}

	leads := make([]entity.Lead, 0, len(lines)-1)
	for _, raw := range lines[1:] {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		cols := strings.Split(line, sep)
		col := func(field string) (string, bool) {
			i := idx[field]
			if i < 0 || i >= len(cols) {
				return "", false
			}
			return cols[i], true
		}

		rawCPF, ok := col("cpf")
		if !ok || rawCPF == "" {
			continue
		}
		if nonDigit.ReplaceAllString(rawCPF, "") == "" {
			continue
		}

		nome := placeholderNome
		if v, ok := col("nome"); ok && strings.TrimSpace(v) != "" {
			nome = strings.TrimSpace(v)
		}

		lead := entity.Lead{
			CPF:              rawCPF,
			Nome:             nome,
			Beneficio:        optionalText(col("beneficio")),
			DDB:              optionalDate(col("ddb")),
			ValorBeneficio:   parseMoney(col("valor")),
			DataNascimento:   optionalDate(col("nasc")),
			Idade:            parseLeadingInt(col("idade")),
			CodigoEspecie:    parseLeadingInt(col("especie")),
			MargemDisponivel: parseMoney(col("margem")),
			Municipio:        optionalText(col("muni")),
			UF:               optionalText(col("uf")),
			Telefone1:        optionalText(col("tel1")),
			Telefone2:        optionalText(col("tel2")),
			Telefone3:        optionalText(col("tel3")),
			Status:           entity.StatusNovo,
		}
		leads = append(leads, lead)
	}

	return leads, nil
}

func resolveColumns(headers []string) map[string]int {
	idx := make(map[string]int, len(columnAliases))
	for _, c := range columnAliases {
		idx[c.field] = -1
		for i, h := range headers {
			if containsString(c.aliases, h) {
				idx[c.field] = i
				break
			}
		}
	}
	return idx
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// parseMoney entende "R$ 1.234,56" e "1234.56". Texto inválido vira zero.
func parseMoney(val string, ok bool) decimal.Decimal {
	if !ok || val == "" {
		return decimal.Zero
	}
	clean := strings.TrimSpace(strings.Replace(val, currencySign, "", 1))
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	}

	num := floatPrefix.FindString(clean)
	if num == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseLeadingInt(val string, ok bool) int {
	if !ok {
		return 0
	}
	num := intPrefix.FindString(strings.TrimSpace(val))
	if num == "" {
		return 0
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0
	}
	return n
}

// NormalizeDate troca DD/MM/YYYY por YYYY-MM-DD. Qualquer outro formato passa
// como veio (o banco rejeita o que não for data).
func NormalizeDate(s string) string {
	clean := strings.TrimSpace(s)
	if brDate.MatchString(clean) {
		parts := strings.Split(clean, "/")
		return parts[2] + "-" + parts[1] + "-" + parts[0]
	}
	return clean
}

func optionalDate(val string, ok bool) *string {
	if !ok || strings.TrimSpace(val) == "" {
		return nil
	}
	d := NormalizeDate(val)
	return &d
}

func optionalText(val string, ok bool) *string {
	if !ok {
		return nil
	}
	t := strings.TrimSpace(val)
	return &t
}

// CleanCPF remove pontuação do CPF.
func CleanCPF(cpf string) string {
	return nonDigit.ReplaceAllString(cpf, "")
}
