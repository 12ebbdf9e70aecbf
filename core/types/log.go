package types

import (
	"github.com/hoops-finance/hoops/common/rlog"
	"go.uber.org/zap"
)

func logger() *zap.Logger {
	return rlog.Named("host")
}

func txFields(tx *Transaction, err error) []zap.Field {
	return []zap.Field{
		zap.String("from", tx.From.String()),
		zap.String("to", tx.To.String()),
		zap.String("method", tx.Method),
		zap.Error(err),
	}
}
