package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New monta o logger: JSON em produção, console colorido no resto.
func New(appEnv string) (*zap.Logger, error) {
	if appEnv == "production" {
		return zap.NewProduction()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// MaskCPF esconde o miolo do CPF nos logs.
func MaskCPF(cpf string) string {
	digits := make([]byte, 0, 11)
	for i := 0; i < len(cpf); i++ {
		if cpf[i] >= '0' && cpf[i] <= '9' {
			digits = append(digits, cpf[i])
		}
	}
	if len(digits) != 11 {
		return "***.***.***-**"
	}
	return string(digits[:3]) + ".***.***-" + string(digits[9:])
}
