package jobs

import (
	"log"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/database"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
)

// ReportQueuedReconciliations logs how many refund reconciliations are
// waiting on an operator, so a growing queue is visible in the service logs.
func ReportQueuedReconciliations() {
	var count int64
	err := database.DB.Model(&models.RefundReconciliation{}).
		Where("status = ?", models.ReconciliationStatusQueued).
		Count(&count).Error
	if err != nil {
		log.Printf("Error counting queued reconciliations: %v", err)
		return
	}

	if count > 0 {
		log.Printf("⚠️ %d refund reconciliation(s) awaiting manual resolution.", count)
	}
}
