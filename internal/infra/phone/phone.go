package phone

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "BR"

var nonDigit = regexp.MustCompile(`\D`)

// Normalizer gera as grafias de um telefone que podem estar gravadas em
// usuarios_autorizados.telefone.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Candidates devolve a credencial como veio, só os dígitos e o número nacional
// (DDD + número) quando a libphonenumber reconhece o telefone.
func (Normalizer) Candidates(credential string) []string {
	raw := strings.TrimSpace(credential)
	out := []string{}
	add := func(s string) {
		if s == "" {
			return
		}
		for _, v := range out {
			if v == s {
				return
			}
		}
		out = append(out, s)
	}

	add(raw)
	add(nonDigit.ReplaceAllString(raw, ""))

	if num, err := phonenumbers.Parse(raw, defaultRegion); err == nil && phonenumbers.IsValidNumber(num) {
		national := phonenumbers.GetNationalSignificantNumber(num)
		add(national)
		add(phonenumbers.Format(num, phonenumbers.E164))
	}

	return out
}
