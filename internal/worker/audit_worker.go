package worker

import (
	"github.com/spec-kit/user-account-service/internal/service"
)

// StartAuditWorker subscribes the audit service to account events.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
