package jobs

import (
	"log"
	"time"

	config "github.com/devlabsolutionlimited/poramorshok-web-sub000/configs"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/database"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
)

// FlagOverdueSessions marks confirmed sessions whose scheduled end passed
// more than the grace period ago and that were never verified, so they show
// up in the admin dispute queue. It never changes the session status itself.
func FlagOverdueSessions() {
	log.Println("Running job: FlagOverdueSessions...")

	grace := time.Duration(config.ConfigInt("REVIEW_GRACE_MINUTES", 30)) * time.Minute
	now := time.Now()

	var candidates []models.Session
	err := database.DB.
		Where("status = ? AND needs_review = ? AND scheduled_date < ?",
			models.SessionStatusConfirmed, false, now.Add(-grace)).
		Find(&candidates).Error
	if err != nil {
		log.Printf("Error checking for overdue sessions: %v", err)
		return
	}

	flagged := 0
	for _, session := range candidates {
		end := session.ScheduledDate.Add(time.Duration(session.ExpectedDurationMinutes) * time.Minute)
		if now.Before(end.Add(grace)) {
			continue
		}
		session.NeedsReview = true
		if err := database.DB.Save(&session).Error; err != nil {
			log.Printf("Error flagging session %s: %v", session.ID, err)
			continue
		}
		flagged++
	}

	if flagged > 0 {
		log.Printf("Flagged %d session(s) for manual review.", flagged)
	}
}
