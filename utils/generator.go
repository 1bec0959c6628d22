package utils

import (
	"math/rand"
	"time"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
	"gorm.io/gorm"
)

const verificationCodeLength = 6

// Ambiguous characters (0/O, 1/I) left out: the code is read out loud during
// sessions.
const codeBytes = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func GenerateSessionCode(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, verificationCodeLength)
		for i := range b {
			b[i] = codeBytes[seededRand.Intn(len(codeBytes))]
		}
		code := string(b)

		var session models.Session
		err := tx.Where("verification_code = ?", code).First(&session).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}
