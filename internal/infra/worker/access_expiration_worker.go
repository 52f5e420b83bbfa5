package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// UserExpirer marca como expirado quem passou do data_fim.
type UserExpirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

type AccessExpirationWorker struct {
	users        UserExpirer
	tickInterval time.Duration
}

func NewAccessExpirationWorker(users UserExpirer) *AccessExpirationWorker {
	return &AccessExpirationWorker{
		users:        users,
		tickInterval: 1 * time.Minute, // Roda a cada 1 min
	}
}

func (w *AccessExpirationWorker) Start(ctx context.Context) {
	zap.L().Info("🕒 Access Expiration Worker iniciado", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.expireOverdue(ctx)

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("⚠️ Access Expiration Worker encerrado")
			return
		case <-ticker.C:
			w.expireOverdue(ctx)
		}
	}
}

func (w *AccessExpirationWorker) expireOverdue(ctx context.Context) {
	n, err := w.users.ExpireOverdue(ctx)
	if err != nil {
		zap.L().Error("❌ Erro ao expirar acessos vencidos", zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("✅ Acessos marcados como expirados", zap.Int64("count", n))
	}
}
