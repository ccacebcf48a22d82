package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/rimsapp/rims-activation/internal/domain/entity"
	"github.com/rimsapp/rims-activation/internal/domain/repository"
)

// Auditor records activation attempts for traceability. A failed audit
// write never fails the parent operation: the error is swallowed here and
// reported only to the operational log.
type Auditor struct {
	Logs   repository.ActivationLogRepository
	Logger *logrus.Logger
}

func NewAuditor(logs repository.ActivationLogRepository, logger *logrus.Logger) *Auditor {
	return &Auditor{Logs: logs, Logger: logger}
}

// Record appends one audit row. The write is detached from request
// cancellation so an aborted request still leaves its trace.
func (a *Auditor) Record(ctx context.Context, att *entity.ActivationAttempt) {
	if a == nil || a.Logs == nil {
		return
	}
	if err := a.Logs.Append(context.WithoutCancel(ctx), att); err != nil && a.Logger != nil {
		a.Logger.WithError(err).WithFields(logrus.Fields{
			"email":   att.Email,
			"success": att.Success,
		}).Warn("activation audit write failed")
	}
}
