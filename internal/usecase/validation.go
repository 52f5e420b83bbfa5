package usecase

import (
	"regexp"
	"strings"
	"time"

	"github.com/xavierca1/oneconsig-crm/internal/entity"
)

var ufPattern = regexp.MustCompile(`^[A-Za-z]{2}$`)

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Nome) == "" {
		errors = append(errors, ValidationError{Field: "nome", Message: "is required"})
	} else if len(input.Nome) > 200 {
		errors = append(errors, ValidationError{Field: "nome", Message: "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.CPF) == "" {
		errors = append(errors, ValidationError{Field: "cpf", Message: "is required"})
	} else if !isValidCPF(input.CPF) {
		errors = append(errors, ValidationError{Field: "cpf", Message: "is invalid"})
	}

	if input.DDB != "" && !isValidDate(NormalizeDate(input.DDB)) {
		errors = append(errors, ValidationError{Field: "ddb", Message: "must be a valid date (YYYY-MM-DD or DD/MM/YYYY)"})
	}
	if input.DataNascimento != "" && !isValidDate(NormalizeDate(input.DataNascimento)) {
		errors = append(errors, ValidationError{Field: "data_nascimento", Message: "must be a valid date (YYYY-MM-DD or DD/MM/YYYY)"})
	}

	if input.UF != "" && !ufPattern.MatchString(strings.TrimSpace(input.UF)) {
		errors = append(errors, ValidationError{Field: "uf", Message: "must have 2 letters"})
	}

	for i, phone := range []string{input.Telefone1, input.Telefone2, input.Telefone3} {
		if phone != "" && !isValidPhoneNumber(phone) {
			field := "telefone" + string(rune('1'+i))
			errors = append(errors, ValidationError{Field: field, Message: "must be a valid phone number"})
		}
	}

	if input.Status != "" && !entity.LeadStatus(input.Status).Valid() {
		errors = append(errors, ValidationError{Field: "status", Message: "must be novo, analise, aprovado or reprovado"})
	}

	if input.Idade < 0 {
		errors = append(errors, ValidationError{Field: "idade", Message: "must not be negative"})
	}

	return errors
}

func ValidateUserInput(input UserInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Nome) == "" {
		errors = append(errors, ValidationError{Field: "nome", Message: "is required"})
	}

	if strings.TrimSpace(input.Telefone) == "" {
		errors = append(errors, ValidationError{Field: "telefone", Message: "is required"})
	} else if !isValidPhoneNumber(input.Telefone) {
		errors = append(errors, ValidationError{Field: "telefone", Message: "must be a valid phone number"})
	}

	if input.Status != "" && !entity.UserStatus(input.Status).Valid() {
		errors = append(errors, ValidationError{Field: "status", Message: "must be ativo, bloqueado or expirado"})
	}

	return errors
}

// validationFailure junta os erros de campo num único DomainError.
func validationFailure(errs []ValidationError) error {
	errMsg := "validation failed: "
	for _, e := range errs {
		errMsg += e.Field + " (" + e.Message + "), "
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: strings.TrimSuffix(errMsg, ", "),
	}
}

func isValidCPF(cpf string) bool {
	cleaned := CleanCPF(cpf)

	if len(cleaned) != 11 {
		return false
	}

	allEqual := true
	for i := 1; i < len(cleaned); i++ {
		if cleaned[i] != cleaned[0] {
			allEqual = false
			break
		}
	}
	return !allEqual
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigit.ReplaceAllString(phone, "")

	return len(cleaned) >= 10 && len(cleaned) <= 13
}

func isValidDate(dateStr string) bool {
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}
